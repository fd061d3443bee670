package handler

import (
	"errors"
	"io"

	"resume-ats/internal/delivery/http/dto"
	"resume-ats/internal/delivery/http/middleware"
	"resume-ats/internal/pkg/response"
	"resume-ats/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	MessageNoFile          = "No file provided"
	MessageUnsupportedType = "Unsupported file type. Please upload a PDF."
	MessageNoText          = "No text extracted from file"
	MessagePredictFailed   = "Prediction failed"
	MessageInternal        = "Internal Server Error"
)

// Identifier resolves the optional caller identity recorded with an upload.
type Identifier interface {
	Identify(c fiber.Ctx) (string, error)
}

type PredictHandler struct {
	uc usecase.PredictUsecase
	id Identifier
}

// NewPredictHandler records uploads anonymously when id is nil.
func NewPredictHandler(uc usecase.PredictUsecase, id Identifier) *PredictHandler {
	return &PredictHandler{uc: uc, id: id}
}

// RegisterLegacyRoutes mounts the flat /predict endpoint at the app root.
// limiter may be nil.
func (h *PredictHandler) RegisterLegacyRoutes(r fiber.Router, limiter fiber.Handler) {
	if r == nil {
		return
	}
	if limiter != nil {
		r.Post("/predict", limiter, h.Predict)
		return
	}
	r.Post("/predict", h.Predict)
}

func (h *PredictHandler) RegisterRoutes(r fiber.Router, limiter fiber.Handler) {
	if r == nil {
		return
	}
	if limiter != nil {
		r.Post("/analyses", limiter, h.CreateAnalysis)
		return
	}
	r.Post("/analyses", h.CreateAnalysis)
}

func (h *PredictHandler) Predict(c fiber.Ctx) error {
	in, err := h.readUpload(c)
	if err != nil {
		return mapPredictUsecaseError(err)
	}

	a, err := h.uc.Predict(c.Context(), in)
	if err != nil {
		return mapPredictUsecaseError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewPredictResponse(a))
}

func (h *PredictHandler) CreateAnalysis(c fiber.Ctx) error {
	in, err := h.readUpload(c)
	if err != nil {
		return mapPredictUsecaseError(err)
	}

	a, err := h.uc.Predict(c.Context(), in)
	if err != nil {
		return mapPredictUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Analysis created", dto.NewAnalysisResponse(a))
}

func (h *PredictHandler) readUpload(c fiber.Ctx) (usecase.PredictInput, error) {
	subject := ""
	if h.id != nil {
		s, err := h.id.Identify(c)
		if err != nil {
			return usecase.PredictInput{}, err
		}
		subject = s
	}

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return usecase.PredictInput{}, usecase.ErrInputMissing
	}

	f, err := fh.Open()
	if err != nil {
		return usecase.PredictInput{}, errors.Join(usecase.ErrInternal, err)
	}
	defer f.Close()

	doc, err := io.ReadAll(f)
	if err != nil {
		return usecase.PredictInput{}, errors.Join(usecase.ErrInternal, err)
	}

	return usecase.PredictInput{
		Filename: fh.Filename,
		Document: doc,
		Subject:  subject,
	}, nil
}

func mapPredictUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *middleware.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, usecase.ErrInputMissing):
		return middleware.NewAppError(fiber.StatusBadRequest, MessageNoFile, nil, err)
	case errors.Is(err, usecase.ErrUnsupportedType):
		return middleware.NewAppError(fiber.StatusUnsupportedMediaType, MessageUnsupportedType, nil, err)
	case errors.Is(err, usecase.ErrExtractionEmpty):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, MessageNoText, nil, err)
	case errors.Is(err, usecase.ErrClassificationFailure):
		return middleware.NewAppError(fiber.StatusBadGateway, MessagePredictFailed, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, MessageInternal, nil, err)
	}
}
