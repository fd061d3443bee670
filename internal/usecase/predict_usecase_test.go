package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-ats/internal/domain/analysis"
	"resume-ats/internal/domain/ats"
	"resume-ats/internal/extractor"
	"resume-ats/internal/keywords"

	"github.com/google/uuid"
)

type fakeExtractor struct {
	text  string
	err   error
	panic bool
}

func (fakeExtractor) Supports(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func (f fakeExtractor) Extract(context.Context, []byte) (string, error) {
	if f.panic {
		panic("boom")
	}
	return f.text, f.err
}

type fakeClassifier struct {
	mu     sync.Mutex
	labels []string
	err    error
	calls  int
	texts  []string
}

func (f *fakeClassifier) Predict(_ context.Context, texts []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, texts...)
	return f.labels, f.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string]cachedScore
}

func (m *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	*(out.(*cachedScore)) = v
	return true, nil
}

func (m *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]cachedScore{}
	}
	m.data[key] = value.(cachedScore)
	return nil
}

type memAnalysisRepo struct {
	created []analysis.Analysis
	err     error
}

func (m *memAnalysisRepo) Create(_ context.Context, a analysis.Analysis) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, a)
	return nil
}
func (m *memAnalysisRepo) List(context.Context, int, int) ([]analysis.Analysis, error) {
	return m.created, nil
}
func (m *memAnalysisRepo) FindByID(context.Context, uuid.UUID) (analysis.Analysis, error) {
	return analysis.Analysis{}, nil
}

type recordingNotifier struct {
	got []analysis.Analysis
}

func (r *recordingNotifier) NotifyAnalysisCompleted(a analysis.Analysis) {
	r.got = append(r.got, a)
}

func testEngine() *ats.Engine {
	tables := keywords.MustNew(
		[]keywords.KeywordSet{
			{Name: "engineering", Keywords: []string{"python", "java", "react", "javascript", "typescript", "sql", "flask", "go", "kotlin", "swift"}},
			{Name: "management", Keywords: []string{"leadership", "scrum", "jira"}},
		},
		[]keywords.KeywordSet{
			{Name: "software_developer", Keywords: []string{"python", "java", "react", "go"}},
			{Name: "project_manager", Keywords: []string{"leadership", "scrum", "jira"}},
		},
	)
	return ats.NewEngine(tables)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func pdfInput(body string) PredictInput {
	return PredictInput{Filename: "resume.PDF", Document: []byte(body)}
}

func TestPredict_MissingDocument(t *testing.T) {
	uc := NewPredictUsecase(fakeExtractor{}, &fakeClassifier{}, testEngine(), quietLogger())
	_, err := uc.Predict(context.Background(), PredictInput{})
	if !errors.Is(err, ErrInputMissing) {
		t.Fatalf("expected ErrInputMissing, got %v", err)
	}
}

func TestPredict_EmptyDocumentHasNoText(t *testing.T) {
	uc := NewPredictUsecase(fakeExtractor{text: "python"}, &fakeClassifier{}, testEngine(), quietLogger())
	_, err := uc.Predict(context.Background(), PredictInput{Filename: "resume.pdf"})
	if !errors.Is(err, ErrExtractionEmpty) {
		t.Fatalf("expected ErrExtractionEmpty, got %v", err)
	}
}

func TestPredict_UnsupportedType(t *testing.T) {
	uc := NewPredictUsecase(fakeExtractor{}, &fakeClassifier{}, testEngine(), quietLogger())
	_, err := uc.Predict(context.Background(), PredictInput{Filename: "resume.docx", Document: []byte("x")})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestPredict_ExtractionFailures(t *testing.T) {
	cases := []struct {
		name string
		ex   fakeExtractor
		want error
	}{
		{name: "blank text", ex: fakeExtractor{text: " \n\t "}, want: ErrExtractionEmpty},
		{name: "unreadable", ex: fakeExtractor{err: extractor.ErrUnreadable}, want: ErrExtractionEmpty},
		{name: "io error", ex: fakeExtractor{err: errors.New("disk")}, want: ErrInternal},
		{name: "panic", ex: fakeExtractor{panic: true}, want: ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cl := &fakeClassifier{labels: []string{"engineering"}}
			uc := NewPredictUsecase(tc.ex, cl, testEngine(), quietLogger())
			_, err := uc.Predict(context.Background(), pdfInput(tc.name))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if cl.calls != 0 {
				t.Fatalf("classifier should not run, calls=%d", cl.calls)
			}
		})
	}
}

func TestPredict_ClassifierFailures(t *testing.T) {
	cases := []struct {
		name string
		cl   *fakeClassifier
		want error
	}{
		{name: "no label", cl: &fakeClassifier{labels: nil}, want: ErrClassificationFailure},
		{name: "two labels", cl: &fakeClassifier{labels: []string{"a", "b"}}, want: ErrClassificationFailure},
		{name: "blank label", cl: &fakeClassifier{labels: []string{"  "}}, want: ErrClassificationFailure},
		{name: "transport", cl: &fakeClassifier{err: errors.New("timeout")}, want: ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewPredictUsecase(fakeExtractor{text: "python"}, tc.cl, testEngine(), quietLogger())
			_, err := uc.Predict(context.Background(), pdfInput(tc.name))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPredict_Success(t *testing.T) {
	cl := &fakeClassifier{labels: []string{"engineering"}}
	repo := &memAnalysisRepo{}
	notifier := &recordingNotifier{}
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("WIB", 7*3600))

	uc := NewPredictUsecase(
		fakeExtractor{text: "  Python, Java & React!\n python  "},
		cl,
		testEngine(),
		quietLogger(),
		WithAnalysisRepository(repo),
		WithNotifier(notifier),
		WithClock(func() time.Time { return fixed }),
	)

	a, err := uc.Predict(context.Background(), PredictInput{Filename: " cv.pdf ", Document: []byte("%PDF"), Subject: "ops"})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if len(cl.texts) != 1 || cl.texts[0] != "python java react python" {
		t.Fatalf("classifier should receive normalized text, got %q", cl.texts)
	}
	if a.Category != "engineering" {
		t.Fatalf("unexpected category %q", a.Category)
	}
	if a.ATSScore != 0.3 {
		t.Fatalf("expected ats score 0.3, got %v", a.ATSScore)
	}
	if strings.Join(a.HighlightedSkills, ",") != "python,java,react" {
		t.Fatalf("unexpected highlighted skills %v", a.HighlightedSkills)
	}
	if strings.Join(a.AllSkills, ",") != strings.Join(a.HighlightedSkills, ",") {
		t.Fatalf("all skills must equal highlighted skills")
	}
	if a.SuggestedRole != "software_developer" {
		t.Fatalf("unexpected role %q", a.SuggestedRole)
	}
	if a.Filename != "cv.pdf" || a.Subject != "ops" || a.MatchMode != "tokens" {
		t.Fatalf("unexpected metadata %+v", a)
	}
	if a.ID == uuid.Nil || !a.CreatedAt.Equal(fixed) || a.CreatedAt.Location() != time.UTC {
		t.Fatalf("unexpected id/created_at %v %v", a.ID, a.CreatedAt)
	}
	if a.DocumentHash != DocumentHash([]byte("%PDF")) || len(a.DocumentHash) != 64 {
		t.Fatalf("unexpected document hash %q", a.DocumentHash)
	}
	if len(repo.created) != 1 || repo.created[0].ID != a.ID {
		t.Fatalf("expected analysis to be persisted")
	}
	if len(notifier.got) != 1 || notifier.got[0].ID != a.ID {
		t.Fatalf("expected analysis to be broadcast")
	}
}

func TestPredict_RoundsScoreAndFallsBackToNoRole(t *testing.T) {
	uc := NewPredictUsecase(
		fakeExtractor{text: "Leadership, Scrum"},
		&fakeClassifier{labels: []string{"Management"}},
		testEngine(),
		quietLogger(),
	)
	a, err := uc.Predict(context.Background(), pdfInput("doc"))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if a.ATSScore != 0.67 {
		t.Fatalf("expected 0.67, got %v", a.ATSScore)
	}
	if a.SuggestedRole != "project_manager" {
		t.Fatalf("unexpected role %q", a.SuggestedRole)
	}

	uc = NewPredictUsecase(
		fakeExtractor{text: "gardening and cooking"},
		&fakeClassifier{labels: []string{"unknown"}},
		testEngine(),
		quietLogger(),
	)
	a, err = uc.Predict(context.Background(), pdfInput("doc"))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if a.ATSScore != 0 || len(a.HighlightedSkills) != 0 || a.SuggestedRole != ats.NoRole {
		t.Fatalf("expected empty result, got %+v", a)
	}
}

func TestPredict_CacheHitSkipsClassifier(t *testing.T) {
	cl := &fakeClassifier{labels: []string{"engineering"}}
	cache := &memCache{}
	uc := NewPredictUsecase(fakeExtractor{text: "go go kotlin"}, cl, testEngine(), quietLogger(), WithAnalysisCache(cache, time.Minute))

	first, err := uc.Predict(context.Background(), pdfInput("same"))
	if err != nil {
		t.Fatalf("first Predict: %v", err)
	}
	second, err := uc.Predict(context.Background(), pdfInput("same"))
	if err != nil {
		t.Fatalf("second Predict: %v", err)
	}

	if cl.calls != 1 {
		t.Fatalf("expected one classifier call, got %d", cl.calls)
	}
	if first.ID == second.ID {
		t.Fatalf("every upload gets its own id")
	}
	if first.ATSScore != second.ATSScore || first.SuggestedRole != second.SuggestedRole {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
	if len(cache.data) != 1 {
		t.Fatalf("expected one cache entry, got %d", len(cache.data))
	}
}

func TestPredict_PersistFailureIsNotSurfaced(t *testing.T) {
	uc := NewPredictUsecase(
		fakeExtractor{text: "python"},
		&fakeClassifier{labels: []string{"engineering"}},
		testEngine(),
		quietLogger(),
		WithAnalysisRepository(&memAnalysisRepo{err: errors.New("db down")}),
	)
	if _, err := uc.Predict(context.Background(), pdfInput("doc")); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestAnalysisCacheKeyVariesWithMode(t *testing.T) {
	a := AnalysisCacheKey("h", "f", "m", ats.MatchTokens)
	b := AnalysisCacheKey("h", "f", "m", ats.MatchPhrases)
	if a == b || !strings.HasPrefix(a, "ats:analysis:h:f:m:") {
		t.Fatalf("unexpected keys %q %q", a, b)
	}
	if AnalysisCacheKey("h", "f", "m1", ats.MatchTokens) == AnalysisCacheKey("h", "f", "m2", ats.MatchTokens) {
		t.Fatalf("expected model fingerprint in key")
	}
}

type fingerprintedClassifier struct {
	fakeClassifier
	fp string
}

func (f *fingerprintedClassifier) Fingerprint() string { return f.fp }

func TestPredict_ModelChangeMissesCache(t *testing.T) {
	cache := &memCache{}
	oldModel := &fingerprintedClassifier{fakeClassifier: fakeClassifier{labels: []string{"engineering"}}, fp: "nb:old"}
	newModel := &fingerprintedClassifier{fakeClassifier: fakeClassifier{labels: []string{"management"}}, fp: "nb:new"}

	first := NewPredictUsecase(fakeExtractor{text: "python scrum"}, oldModel, testEngine(), quietLogger(), WithAnalysisCache(cache, time.Minute))
	if _, err := first.Predict(context.Background(), pdfInput("same")); err != nil {
		t.Fatalf("Predict: %v", err)
	}

	second := NewPredictUsecase(fakeExtractor{text: "python scrum"}, newModel, testEngine(), quietLogger(), WithAnalysisCache(cache, time.Minute))
	a, err := second.Predict(context.Background(), pdfInput("same"))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if a.Category != "management" || newModel.calls != 1 {
		t.Fatalf("expected the new model to classify, got category=%q calls=%d", a.Category, newModel.calls)
	}
}

func TestRoundScoreHalfEven(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.0 / 8, 0.12},
		{5.0 / 8, 0.62},
		{3.0 / 8, 0.38},
		{2.0 / 3, 0.67},
		{0.3, 0.3},
		{1, 1},
		{0, 0},
	}
	for _, tc := range cases {
		if got := roundScore(tc.in); got != tc.want {
			t.Fatalf("roundScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPredict_EighthsRoundToEven(t *testing.T) {
	tables := keywords.MustNew(
		[]keywords.KeywordSet{{Name: "engineering", Keywords: []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8"}}},
		[]keywords.KeywordSet{{Name: "software_developer", Keywords: []string{"k1"}}},
	)
	cases := map[string]float64{
		"k1":             0.12,
		"k1 k2 k3 k4 k5": 0.62,
	}
	for text, want := range cases {
		uc := NewPredictUsecase(fakeExtractor{text: text}, &fakeClassifier{labels: []string{"engineering"}}, ats.NewEngine(tables), quietLogger())
		a, err := uc.Predict(context.Background(), pdfInput(text))
		if err != nil {
			t.Fatalf("Predict(%q): %v", text, err)
		}
		if a.ATSScore != want {
			t.Fatalf("Predict(%q) ats_score = %v, want %v", text, a.ATSScore, want)
		}
	}
}

type blockingClassifier struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu    sync.Mutex
	calls int
}

func newBlockingClassifier() *blockingClassifier {
	return &blockingClassifier{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingClassifier) Predict(ctx context.Context, _ []string) ([]string, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.once.Do(func() { close(b.started) })

	select {
	case <-b.release:
		return []string{"engineering"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingClassifier) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type predictOutcome struct {
	a   analysis.Analysis
	err error
}

func TestPredict_ConcurrentIdenticalUploadsClassifyOnce(t *testing.T) {
	cl := newBlockingClassifier()
	uc := NewPredictUsecase(fakeExtractor{text: "python go"}, cl, testEngine(), quietLogger())

	const n = 5
	out := make(chan predictOutcome, n)
	for i := 0; i < n; i++ {
		go func() {
			a, err := uc.Predict(context.Background(), pdfInput("same document"))
			out <- predictOutcome{a: a, err: err}
		}()
	}

	<-cl.started
	time.Sleep(50 * time.Millisecond)
	close(cl.release)

	ids := map[uuid.UUID]struct{}{}
	for i := 0; i < n; i++ {
		r := <-out
		if r.err != nil {
			t.Fatalf("Predict: %v", r.err)
		}
		if r.a.Category != "engineering" {
			t.Fatalf("unexpected category %q", r.a.Category)
		}
		ids[r.a.ID] = struct{}{}
	}
	if got := cl.callCount(); got != 1 {
		t.Fatalf("expected one classifier call, got %d", got)
	}
	if len(ids) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(ids))
	}
}

func TestPredict_CanceledCallerDoesNotFailOthers(t *testing.T) {
	cl := newBlockingClassifier()
	uc := NewPredictUsecase(fakeExtractor{text: "python go"}, cl, testEngine(), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := make(chan predictOutcome, 1)
	go func() {
		a, err := uc.Predict(ctx, pdfInput("same document"))
		first <- predictOutcome{a: a, err: err}
	}()
	<-cl.started

	second := make(chan predictOutcome, 1)
	go func() {
		a, err := uc.Predict(context.Background(), pdfInput("same document"))
		second <- predictOutcome{a: a, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	r1 := <-first
	if !errors.Is(r1.err, context.Canceled) {
		t.Fatalf("expected the canceled caller to see context.Canceled, got %v", r1.err)
	}

	close(cl.release)
	r2 := <-second
	if r2.err != nil {
		t.Fatalf("expected the other caller to succeed, got %v", r2.err)
	}
	if r2.a.Category != "engineering" {
		t.Fatalf("unexpected category %q", r2.a.Category)
	}
	if got := cl.callCount(); got != 1 {
		t.Fatalf("expected one classifier call, got %d", got)
	}
}
