package handler

import (
	"context"
	"time"

	"resume-ats/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is any dependency with a health probe, such as the pgx pool or the
// redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	degraded := false
	for name, dep := range h.deps {
		if dep == nil {
			checks[name] = "disabled"
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = "down"
			degraded = true
			continue
		}
		checks[name] = "up"
	}

	status := "ok"
	if degraded {
		status = "degraded"
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"status": status,
		"checks": checks,
	})
}
