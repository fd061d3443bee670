package routes

import (
	"resume-ats/internal/delivery/http/handler"
	v1 "resume-ats/internal/delivery/http/routes/v1"
	"resume-ats/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health   *handler.HealthHandler
	Predict  *handler.PredictHandler
	Analyses *handler.AnalysisHandler
	Keywords *handler.KeywordsHandler
	WS       *ws.Handler

	// UploadLimiter and HistoryAuth are optional route middleware.
	UploadLimiter fiber.Handler
	HistoryAuth   fiber.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerRoot(app)
	r.registerAPI(app)
}

func (r *Registry) registerRoot(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.Predict != nil {
		r.Predict.RegisterLegacyRoutes(app, r.UploadLimiter)
	}
	if r.WS != nil {
		r.WS.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), v1.Handlers{
		Predict:       r.Predict,
		Analyses:      r.Analyses,
		Keywords:      r.Keywords,
		UploadLimiter: r.UploadLimiter,
		HistoryAuth:   r.HistoryAuth,
	})
}
