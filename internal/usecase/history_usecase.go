package usecase

import (
	"context"
	"errors"

	"resume-ats/internal/domain/analysis"
	"resume-ats/internal/repository"

	"github.com/google/uuid"
)

type HistoryParams struct {
	Limit  int
	Offset int
}

type HistoryUsecase interface {
	ListAnalyses(ctx context.Context, params HistoryParams) ([]analysis.Analysis, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (analysis.Analysis, error)
}

type History struct {
	analyses repository.AnalysisRepository
}

// NewHistoryUsecase accepts a nil repository; every call then fails with
// ErrHistoryUnavailable.
func NewHistoryUsecase(analyses repository.AnalysisRepository) *History {
	return &History{analyses: analyses}
}

func (u *History) ListAnalyses(ctx context.Context, params HistoryParams) ([]analysis.Analysis, error) {
	if u == nil || u.analyses == nil {
		return nil, ErrHistoryUnavailable
	}
	limit := params.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 0 || limit > 100 {
		return nil, ErrInvalidInput
	}
	if params.Offset < 0 {
		return nil, ErrInvalidInput
	}
	return u.analyses.List(ctx, limit, params.Offset)
}

func (u *History) GetAnalysis(ctx context.Context, id uuid.UUID) (analysis.Analysis, error) {
	if u == nil || u.analyses == nil {
		return analysis.Analysis{}, ErrHistoryUnavailable
	}
	if id == uuid.Nil {
		return analysis.Analysis{}, ErrInvalidInput
	}
	a, err := u.analyses.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return analysis.Analysis{}, ErrAnalysisNotFound
	}
	return a, err
}
