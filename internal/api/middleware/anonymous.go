package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Anonymous returns a skipper that matches requests by method and registered
// route path, written as "GET /api/v1/categories/:id".
func Anonymous(routes ...string) echomiddleware.Skipper {
	allowed := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		method, path, ok := strings.Cut(strings.TrimSpace(r), " ")
		if !ok {
			continue
		}
		allowed[strings.ToUpper(method)+" "+strings.TrimSpace(path)] = struct{}{}
	}

	return func(c echo.Context) bool {
		_, ok := allowed[c.Request().Method+" "+c.Path()]
		return ok
	}
}
