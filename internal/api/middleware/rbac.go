package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/core/domain"
)

// RBAC rejects callers whose role is not listed. It is a coarse route-level
// gate in front of the per-record policy checks of the services.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get(ContextIdentity).(*domain.Identity)
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrNotAuthenticated.Error())
			}
			if _, ok := allowed[identity.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
