package middleware

import (
	"errors"
	"strings"

	"resume-ats/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxSubjectKey = "subject"
)

type AuthMiddleware struct {
	jwt   jwt.Service
	scope string
}

// NewAuthMiddleware with a nil service lets every request through; the
// history endpoints are open when no secret is configured.
func NewAuthMiddleware(jwtSvc jwt.Service, scope string) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, scope: scope}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m == nil || m.jwt == nil {
			return c.Next()
		}

		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.validate(token)
		if err != nil {
			return err
		}

		if m.scope != "" && !claims.HasScope(m.scope) {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}

		c.Locals(CtxSubjectKey, claims.Subject)
		return c.Next()
	}
}

// Identify returns the subject of an optional bearer token. Requests without
// an Authorization header are anonymous; a malformed or invalid token is
// rejected. No scope is checked.
func (m *AuthMiddleware) Identify(c fiber.Ctx) (string, error) {
	if m == nil || m.jwt == nil {
		return "", nil
	}
	header := c.Get(fiber.HeaderAuthorization)
	if strings.TrimSpace(header) == "" {
		return "", nil
	}
	token, ok := bearerTokenFromHeader(header)
	if !ok {
		return "", NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	claims, err := m.validate(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (m *AuthMiddleware) validate(token string) (jwt.Claims, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		}
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}
	return claims, nil
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
