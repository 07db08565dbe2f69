package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/devtalles/apiecommerce/internal/api/metrics"
	"github.com/devtalles/apiecommerce/internal/core/domain"
	"github.com/devtalles/apiecommerce/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextKeyClaims    = "claims"
	ContextKeyAnonymous = "anonymous"
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyRole      = "role"
)

// Auth validates the bearer token and injects its claims into the context.
// Requests matched by skipper are marked anonymous and pass through without
// looking at the Authorization header.
func Auth(validator ports.TokenValidator, skipper echomiddleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = echomiddleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				c.Set(ContextKeyAnonymous, true)
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.GateRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error()).
					SetInternal(domain.ErrUnauthenticated)
			}

			claims, err := validator.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.GateRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenInvalid.Error()).
					SetInternal(err)
			}

			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyUserID, claims.Subject)
			c.Set(ContextKeyUsername, claims.Username)
			c.Set(ContextKeyRole, string(claims.Role))

			return next(c)
		}
	}
}

// ClaimsFrom returns the claims injected by Auth, if any.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*domain.Claims)
	return claims, ok && claims != nil
}

// IsAnonymous reports whether Auth let the request through as anonymous.
func IsAnonymous(c echo.Context) bool {
	anon, _ := c.Get(ContextKeyAnonymous).(bool)
	return anon
}
