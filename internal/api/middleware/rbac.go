package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devtalles/apiecommerce/internal/api/metrics"
	"github.com/devtalles/apiecommerce/internal/core/domain"
)

// RBAC enforces role-based access control on top of Auth. The role claim must
// equal one of allowedRoles exactly. Anonymous requests are not checked.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsAnonymous(c) {
				return next(c)
			}

			claims, ok := ClaimsFrom(c)
			if !ok {
				metrics.GateRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error()).
					SetInternal(domain.ErrUnauthenticated)
			}
			if _, ok := allowed[claims.Role]; !ok {
				metrics.GateRejectionsTotal.WithLabelValues("role_denied").Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrRoleDenied.Error()).
					SetInternal(domain.ErrRoleDenied)
			}
			return next(c)
		}
	}
}
