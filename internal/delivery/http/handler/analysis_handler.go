package handler

import (
	"errors"

	"resume-ats/internal/delivery/http/dto"
	"resume-ats/internal/delivery/http/middleware"
	"resume-ats/internal/pkg/response"
	"resume-ats/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var validate = validator.New()

type AnalysisHandler struct {
	uc usecase.HistoryUsecase
}

func NewAnalysisHandler(uc usecase.HistoryUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// RegisterRoutes mounts the read-only history; auth guards each route and
// may be nil.
func (h *AnalysisHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}
	if auth != nil {
		r.Get("/analyses", auth, h.ListAnalyses)
		r.Get("/analyses/:id", auth, h.GetAnalysis)
		return
	}
	r.Get("/analyses", h.ListAnalyses)
	r.Get("/analyses/:id", h.GetAnalysis)
}

func (h *AnalysisHandler) ListAnalyses(c fiber.Ctx) error {
	var q dto.AnalysisListQuery
	if err := c.Bind().Query(&q); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query parameters", nil, err)
	}
	if err := validate.Struct(q); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query parameters", nil, err)
	}

	items, err := h.uc.ListAnalyses(c.Context(), usecase.HistoryParams{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return mapHistoryUsecaseError(err)
	}

	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	out := dto.AnalysisListResponse{
		Items:  make([]dto.AnalysisResponse, 0, len(items)),
		Limit:  limit,
		Offset: q.Offset,
	}
	for _, a := range items {
		out.Items = append(out.Items, dto.NewAnalysisResponse(a))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *AnalysisHandler) GetAnalysis(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid analysis id", nil, err)
	}

	a, err := h.uc.GetAnalysis(c.Context(), id)
	if err != nil {
		return mapHistoryUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAnalysisResponse(a))
}

func mapHistoryUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query parameters", nil, err)
	case errors.Is(err, usecase.ErrAnalysisNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Analysis not found", nil, err)
	case errors.Is(err, usecase.ErrHistoryUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Analysis history is not enabled", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, MessageInternal, nil, err)
	}
}
