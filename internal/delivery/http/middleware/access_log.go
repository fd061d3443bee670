package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// AccessLogMiddleware tags every request with a request id and writes one
// access line per request. Successful requests on quiet paths are not logged.
type AccessLogMiddleware struct {
	logger *log.Logger
	quiet  map[string]struct{}
}

func NewAccessLogMiddleware(logger *log.Logger, quietPaths ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}
	return &AccessLogMiddleware{logger: logger, quiet: quiet}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = normalizeError(err)
		}
		if _, ok := m.quiet[c.Path()]; ok && status < fiber.StatusBadRequest {
			return err
		}

		m.logger.Printf(
			"http access rid=%s ip=%s method=%s path=%s status=%d latency_ms=%d req_bytes=%d resp_bytes=%d",
			rid,
			c.IP(),
			c.Method(),
			c.Path(),
			status,
			time.Since(start).Milliseconds(),
			len(c.Request().Body()),
			len(c.Response().Body()),
		)

		return err
	}
}
