package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"foodshare/internal/session"
	"foodshare/pkg/errors"
	"foodshare/pkg/response"
)

const (
	ContextKeyUID     = "uid"
	ContextKeySession = "session"
)

// Authenticator turns an ID token into a hydrated session.
type Authenticator interface {
	Authenticate(ctx context.Context, idToken string) (*session.Session, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
	}
}

// Authenticate guards a route with a Bearer ID token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		return m.attach(c, next, parts[1])
	}
}

// AuthenticateQuery accepts the token from the token query parameter,
// for clients that cannot set headers on a WebSocket upgrade.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return m.Authenticate(next)(c)
		}
		return m.attach(c, next, token)
	}
}

func (m *AuthMiddleware) attach(c echo.Context, next echo.HandlerFunc, idToken string) error {
	sess, err := m.authenticator.Authenticate(c.Request().Context(), idToken)
	if err != nil {
		return response.Error(c, err)
	}

	c.Set(ContextKeyUID, sess.UserID())
	c.Set(ContextKeySession, sess)
	c.SetRequest(c.Request().WithContext(session.WithSession(c.Request().Context(), sess)))

	return next(c)
}
