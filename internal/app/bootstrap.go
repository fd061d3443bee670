package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"resume-ats/internal/config"
	"resume-ats/internal/delivery/http/handler"
	"resume-ats/internal/delivery/http/middleware"
	"resume-ats/internal/delivery/http/routes"
	"resume-ats/internal/pkg/jwt"
	"resume-ats/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

const legacyPredictPath = "/predict"

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	cfg := c.Config
	errMw := middleware.NewErrorMiddleware(c.Logger, legacyPredictPath)

	f := fiber.New(fiber.Config{
		AppName:      cfg.App.AppName,
		BodyLimit:    cfg.Upload.MaxBytes,
		ErrorHandler: errMw.Handle,
	})

	registerGlobalMiddleware(f, cfg, c.Logger, errMw)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container and the HTTP app. The websocket hub runs
// until ctx is canceled.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	go c.Hub.Run(ctx)

	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger, "/health").Middleware())
	app.Use(errMw.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: splitOrigins(cfg.App.CORSOrigins),
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders: []string{fiber.HeaderContentType, fiber.HeaderAuthorization, middleware.HeaderRequestID},
	}))
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	reg := &routes.Registry{
		Health:        handler.NewHealthHandler(healthDeps(c)),
		Predict:       handler.NewPredictHandler(c.Predict, middleware.NewAuthMiddleware(c.JWT, "")),
		Analyses:      handler.NewAnalysisHandler(c.History),
		Keywords:      handler.NewKeywordsHandler(c.Engine),
		WS:            ws.NewHandler(c.Hub, c.Logger, splitOrigins(c.Config.App.CORSOrigins)...),
		UploadLimiter: middleware.NewRateLimitMiddleware(c.Config.Upload.RatePerMin, c.Config.Upload.RateBurst).Middleware(),
		HistoryAuth:   middleware.NewAuthMiddleware(c.JWT, jwt.ScopeAnalysesRead).Middleware(),
	}
	reg.Register(app)
}

// healthDeps lists the configured dependencies /health probes. The classifier
// is included only when it is a remote service.
func healthDeps(c *Container) map[string]handler.Pinger {
	deps := map[string]handler.Pinger{}
	if c.DB != nil {
		deps["database"] = c.DB
	}
	if c.Cache.Available() {
		deps["redis"] = c.Cache
	}
	if p, ok := c.Classifier.(handler.Pinger); ok {
		deps["classifier"] = p
	}
	return deps
}

func splitOrigins(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
