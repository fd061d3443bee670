package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArtifact() Artifact {
	return Artifact{
		Version:   1,
		Labels:    []string{"engineering", "management"},
		LogPriors: map[string]float64{"engineering": -0.7, "management": -0.7},
		LogLikelihoods: map[string]map[string]float64{
			"engineering": {"python": -1.0, "java": -1.2, "leadership": -6.0},
			"management":  {"python": -6.0, "leadership": -1.0, "scrum": -1.5},
		},
		UnseenLogLikelihood: map[string]float64{"engineering": -8.0, "management": -8.0},
	}
}

func TestModel_Predict(t *testing.T) {
	m, err := NewModel(sampleArtifact())
	require.NoError(t, err)

	got, err := m.Predict(context.Background(), []string{
		"python java developer",
		"leadership scrum",
		"",
		"completely unknown words",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"engineering", "management", "engineering", "engineering"}, got)
}

func TestModel_TieGoesToFirstLabel(t *testing.T) {
	a := sampleArtifact()
	a.Labels = []string{"management", "engineering"}
	m, err := NewModel(a)
	require.NoError(t, err)

	got, err := m.Predict(context.Background(), []string{"nothing known"})
	require.NoError(t, err)
	assert.Equal(t, []string{"management"}, got)
}

func TestModel_UnseenTokenPenalty(t *testing.T) {
	m, err := NewModel(sampleArtifact())
	require.NoError(t, err)

	// "java" is only in engineering's table; management scores it as unseen.
	got, err := m.Predict(context.Background(), []string{"java leadership"})
	require.NoError(t, err)
	assert.Equal(t, []string{"engineering"}, got)
}

func TestNewModel_Invalid(t *testing.T) {
	tests := map[string]func(a *Artifact){
		"no labels":     func(a *Artifact) { a.Labels = nil },
		"blank label":   func(a *Artifact) { a.Labels = []string{""} },
		"missing prior": func(a *Artifact) { delete(a.LogPriors, "management") },
		"dup label":     func(a *Artifact) { a.Labels = []string{"engineering", "engineering"} },
		"bad version":   func(a *Artifact) { a.Version = 0 },
		"nil priors":    func(a *Artifact) { a.LogPriors = nil },
		"no unseen":     func(a *Artifact) { a.UnseenLogLikelihood = nil },
		"label unseen":  func(a *Artifact) { delete(a.UnseenLogLikelihood, "management") },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			a := sampleArtifact()
			mutate(&a)
			_, err := NewModel(a)
			assert.True(t, errors.Is(err, ErrInvalidModel), "got %v", err)
		})
	}
}

func TestModel_FingerprintTracksArtifact(t *testing.T) {
	a, err := NewModel(sampleArtifact())
	require.NoError(t, err)
	b, err := NewModel(sampleArtifact())
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	changed := sampleArtifact()
	changed.LogPriors["management"] = -0.5
	c, err := NewModel(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	b, err := json.Marshal(sampleArtifact())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"engineering", "management"}, m.Labels())

	_, err = LoadModel(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadModel(bad)
	assert.True(t, errors.Is(err, ErrInvalidModel))
}

func TestModel_PredictCanceled(t *testing.T) {
	m, err := NewModel(sampleArtifact())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Predict(ctx, []string{"python"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShippedModelArtifact(t *testing.T) {
	m, err := LoadModel(filepath.Join("..", "..", "model", "resume_category.json"))
	require.NoError(t, err)

	got, err := m.Predict(context.Background(), []string{
		"python java react software development algorithms",
		"leadership teamwork communication project management stakeholders",
		"pandas numpy matplotlib statistics regression",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"engineering", "management", "data science"}, got)
}
