package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextIdentity = "identity"
	ContextToken    = "token"
)

// IdentityResolver turns a bearer token into the caller identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, bool)
}

// Auth resolves the bearer token and injects the identity into the context.
func Auth(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			token := strings.TrimSpace(parts[1])
			identity, ok := resolver.Resolve(c.Request().Context(), token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextIdentity, &identity)
			c.Set(ContextToken, token)

			return next(c)
		}
	}
}
