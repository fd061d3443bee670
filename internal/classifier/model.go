package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidModel = errors.New("invalid model artifact")

// Artifact is the on-disk form of a multinomial naive Bayes text model.
// Tokens missing from every label's likelihood table are outside the
// vocabulary and ignored.
type Artifact struct {
	Version             int                           `json:"version" validate:"gte=1"`
	Labels              []string                      `json:"labels" validate:"required,min=1,dive,required"`
	LogPriors           map[string]float64            `json:"log_priors" validate:"required"`
	LogLikelihoods      map[string]map[string]float64 `json:"log_likelihoods" validate:"required"`
	UnseenLogLikelihood map[string]float64            `json:"unseen_log_likelihood" validate:"required"`
}

type Model struct {
	labels []string
	priors []float64
	ll     []map[string]float64
	unseen []float64
	vocab  map[string]struct{}
	sum    string
}

func LoadModel(path string) (*Model, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("classifier: empty model path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: read model %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidModel, path, err)
	}
	return NewModel(a)
}

func NewModel(a Artifact) (*Model, error) {
	if err := validator.New().Struct(a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	m := &Model{
		labels: make([]string, 0, len(a.Labels)),
		priors: make([]float64, 0, len(a.Labels)),
		ll:     make([]map[string]float64, 0, len(a.Labels)),
		unseen: make([]float64, 0, len(a.Labels)),
		vocab:  map[string]struct{}{},
	}

	seen := map[string]struct{}{}
	for _, label := range a.Labels {
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidModel, label)
		}
		seen[label] = struct{}{}

		prior, ok := a.LogPriors[label]
		if !ok {
			return nil, fmt.Errorf("%w: missing prior for %q", ErrInvalidModel, label)
		}
		unseen, ok := a.UnseenLogLikelihood[label]
		if !ok {
			return nil, fmt.Errorf("%w: missing unseen log-likelihood for %q", ErrInvalidModel, label)
		}
		ll := a.LogLikelihoods[label]
		if ll == nil {
			ll = map[string]float64{}
		}
		for tok := range ll {
			m.vocab[tok] = struct{}{}
		}

		m.labels = append(m.labels, label)
		m.priors = append(m.priors, prior)
		m.ll = append(m.ll, ll)
		m.unseen = append(m.unseen, unseen)
	}

	canonical, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	m.sum = "nb:" + digest(canonical)

	return m, nil
}

// Fingerprint changes whenever any prior, likelihood or label changes.
func (m *Model) Fingerprint() string {
	return m.sum
}

func (m *Model) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Predict returns the highest scoring label for each text. Equal scores go
// to the label listed first in the artifact.
func (m *Model) Predict(ctx context.Context, texts []string) ([]string, error) {
	if m == nil || len(m.labels) == 0 {
		return nil, errors.New("classifier: model not loaded")
	}
	out := make([]string, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, m.predictOne(text))
	}
	return out, nil
}

func (m *Model) predictOne(text string) string {
	scores := append([]float64(nil), m.priors...)
	for _, tok := range strings.Fields(text) {
		if _, ok := m.vocab[tok]; !ok {
			continue
		}
		for i := range m.labels {
			if v, ok := m.ll[i][tok]; ok {
				scores[i] += v
			} else {
				scores[i] += m.unseen[i]
			}
		}
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return m.labels[best]
}

var _ Classifier = (*Model)(nil)
