package v1

import (
	"resume-ats/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Predict  *handler.PredictHandler
	Analyses *handler.AnalysisHandler
	Keywords *handler.KeywordsHandler

	UploadLimiter fiber.Handler
	HistoryAuth   fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Predict != nil {
		h.Predict.RegisterRoutes(r, h.UploadLimiter)
	}
	if h.Analyses != nil {
		h.Analyses.RegisterRoutes(r, h.HistoryAuth)
	}
	if h.Keywords != nil {
		h.Keywords.RegisterRoutes(r)
	}
}
