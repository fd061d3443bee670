package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"resume-ats/internal/classifier"
	"resume-ats/internal/domain/analysis"
	"resume-ats/internal/domain/ats"
	"resume-ats/internal/extractor"
	"resume-ats/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type PredictInput struct {
	Filename string
	Document []byte
	Subject  string
}

type PredictUsecase interface {
	Predict(ctx context.Context, in PredictInput) (analysis.Analysis, error)
}

type AnalysisNotifier interface {
	NotifyAnalysisCompleted(a analysis.Analysis)
}

type Predict struct {
	extractor  extractor.Extractor
	classifier classifier.Classifier
	engine     *ats.Engine
	logger     *log.Logger

	cache    AnalysisCache
	cacheTTL time.Duration
	analyses repository.AnalysisRepository
	notifier AnalysisNotifier

	fingerprint      string
	modelFingerprint string
	group            singleflight.Group
	now         func() time.Time
}

type PredictOption func(*Predict)

func WithAnalysisCache(cache AnalysisCache, ttl time.Duration) PredictOption {
	return func(p *Predict) {
		p.cache = cache
		p.cacheTTL = ttl
	}
}

func WithAnalysisRepository(repo repository.AnalysisRepository) PredictOption {
	return func(p *Predict) { p.analyses = repo }
}

func WithNotifier(n AnalysisNotifier) PredictOption {
	return func(p *Predict) { p.notifier = n }
}

func WithClock(now func() time.Time) PredictOption {
	return func(p *Predict) { p.now = now }
}

func NewPredictUsecase(ex extractor.Extractor, cl classifier.Classifier, engine *ats.Engine, logger *log.Logger, opts ...PredictOption) *Predict {
	if logger == nil {
		logger = log.Default()
	}
	p := &Predict{
		extractor:  ex,
		classifier: cl,
		engine:     engine,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.fingerprint = engine.Tables().Fingerprint()
	if fp, ok := cl.(classifier.Fingerprinter); ok {
		p.modelFingerprint = fp.Fingerprint()
	}
	return p
}

func (u *Predict) Predict(ctx context.Context, in PredictInput) (analysis.Analysis, error) {
	if strings.TrimSpace(in.Filename) == "" && len(in.Document) == 0 {
		return analysis.Analysis{}, ErrInputMissing
	}
	if !u.extractor.Supports(in.Filename) {
		return analysis.Analysis{}, ErrUnsupportedType
	}
	if len(in.Document) == 0 {
		return analysis.Analysis{}, ErrExtractionEmpty
	}

	hash := DocumentHash(in.Document)
	key := AnalysisCacheKey(hash, u.fingerprint, u.modelFingerprint, u.engine.Mode())

	// Shared work ignores any one caller's cancellation.
	workCtx := context.WithoutCancel(ctx)
	ch := u.group.DoChan(key, func() (any, error) {
		return u.score(workCtx, key, in.Document)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		u.logger.Printf("analysis step=score status=canceled hash=%s err=%v", shortHash(hash), ctx.Err())
		return analysis.Analysis{}, fmt.Errorf("%w: %w", ErrInternal, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return analysis.Analysis{}, res.Err
	}
	sc := res.Val.(cachedScore)
	if res.Shared {
		u.logger.Printf("analysis step=score status=shared hash=%s", shortHash(hash))
	}

	a := analysis.Analysis{
		ID:                uuid.New(),
		Filename:          strings.TrimSpace(in.Filename),
		DocumentHash:      hash,
		Category:          sc.Category,
		ATSScore:          sc.ATSScore,
		HighlightedSkills: append([]string{}, sc.HighlightedSkills...),
		AllSkills:         append([]string{}, sc.AllSkills...),
		SuggestedRole:     sc.SuggestedRole,
		MatchMode:         u.engine.Mode().String(),
		Subject:           in.Subject,
		CreatedAt:         u.now().UTC(),
	}

	if u.analyses != nil {
		if err := u.analyses.Create(ctx, a); err != nil {
			u.logger.Printf("analysis step=persist status=error id=%s err=%v", a.ID, err)
		}
	}
	if u.notifier != nil {
		u.notifier.NotifyAnalysisCompleted(a)
	}

	u.logger.Printf(
		"analysis status=ok id=%s category=%q ats_score=%.2f role=%s skills=%d",
		a.ID, a.Category, a.ATSScore, a.SuggestedRole, len(a.HighlightedSkills),
	)
	return a, nil
}

func (u *Predict) score(ctx context.Context, key string, doc []byte) (cachedScore, error) {
	if u.cache != nil {
		var cached cachedScore
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logger.Printf("analysis step=cache status=hit key=%s", key)
			return cached, nil
		}
		if err != nil {
			u.logger.Printf("analysis step=cache status=error key=%s err=%v", key, err)
		}
	}

	text, err := u.extract(ctx, doc)
	if err != nil {
		return cachedScore{}, err
	}

	normalized := ats.Normalize(text)

	category, err := u.classify(ctx, normalized)
	if err != nil {
		return cachedScore{}, err
	}

	res := u.engine.Analyze(normalized, category)
	sc := cachedScore{
		Category:          category,
		ATSScore:          roundScore(res.AverageMatchRatio),
		HighlightedSkills: res.HighlightedSkills,
		AllSkills:         res.AllSkills,
		SuggestedRole:     res.SuggestedRole,
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, sc, u.cacheTTL); err != nil {
			u.logger.Printf("analysis step=cache status=store_error key=%s err=%v", key, err)
		}
	}
	return sc, nil
}

func (u *Predict) extract(ctx context.Context, doc []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Printf("analysis step=extract status=panic err=%v", r)
			text, err = "", ErrInternal
		}
	}()

	text, err = u.extractor.Extract(ctx, doc)
	if err != nil {
		u.logger.Printf("analysis step=extract status=error err=%v", err)
		if errors.Is(err, extractor.ErrUnreadable) {
			return "", ErrExtractionEmpty
		}
		return "", fmt.Errorf("%w: extract: %v", ErrInternal, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrExtractionEmpty
	}
	return text, nil
}

func (u *Predict) classify(ctx context.Context, normalized string) (label string, err error) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Printf("analysis step=classify status=panic err=%v", r)
			label, err = "", ErrInternal
		}
	}()

	labels, err := u.classifier.Predict(ctx, []string{normalized})
	if err != nil {
		u.logger.Printf("analysis step=classify status=error err=%v", err)
		return "", fmt.Errorf("%w: classify: %v", ErrInternal, err)
	}
	if len(labels) != 1 {
		u.logger.Printf("analysis step=classify status=invalid labels=%d", len(labels))
		return "", ErrClassificationFailure
	}
	label = strings.TrimSpace(labels[0])
	if label == "" {
		u.logger.Printf("analysis step=classify status=invalid labels=blank")
		return "", ErrClassificationFailure
	}
	return label, nil
}

// roundScore rounds to two decimals, exact halves to even.
func roundScore(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
