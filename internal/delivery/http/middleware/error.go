package middleware

import (
	"errors"
	"log"

	"resume-ats/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// ErrorMiddleware renders handler errors as the JSON envelope, or as the flat
// {"error": ...} body on legacy paths.
type ErrorMiddleware struct {
	logger      *log.Logger
	legacyPaths map[string]bool
}

func NewErrorMiddleware(logger *log.Logger, legacyPaths ...string) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	m := &ErrorMiddleware{logger: logger, legacyPaths: make(map[string]bool, len(legacyPaths))}
	for _, p := range legacyPaths {
		m.legacyPaths[p] = true
	}
	return m
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("panic recovered | method=%s path=%s panic=%v", c.Method(), c.Path(), r)
				err = m.render(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}
		return m.Handle(c, err)
	}
}

// Handle doubles as fiber.Config.ErrorHandler for errors raised outside the
// middleware chain, such as an oversized body.
func (m *ErrorMiddleware) Handle(c fiber.Ctx, err error) error {
	status, msg, data := normalizeError(err)
	if status >= 500 {
		m.logger.Printf("request failed | method=%s path=%s status=%d err=%v", c.Method(), c.Path(), status, err)
	}
	return m.render(c, status, msg, data)
}

func (m *ErrorMiddleware) render(c fiber.Ctx, status int, msg string, data any) error {
	if m.legacyPaths[c.Path()] {
		return response.Legacy(c, status, msg)
	}
	return response.Error(c, status, msg, data)
}

func normalizeError(err error) (int, string, any) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status < 400 || status > 599 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		if status >= 500 {
			return status, msg, nil
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 {
			status = fiber.StatusInternalServerError
		}
		if status >= 500 {
			return status, response.DefaultMessage(status), nil
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
