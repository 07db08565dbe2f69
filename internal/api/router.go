package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/devtalles/apiecommerce/internal/api/handler"
	"github.com/devtalles/apiecommerce/internal/api/middleware"
	"github.com/devtalles/apiecommerce/internal/core/domain"
	"github.com/devtalles/apiecommerce/internal/core/ports"
)

const apiPrefix = "/api/v1"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Categories ports.CategoryService
	Products   ports.ProductService
	Tokens     ports.TokenValidator

	// CategoryCache backs the anonymous category reads. Nil disables caching.
	CategoryCache middleware.ResponseStore
	// Health maps dependency names to readiness checks.
	Health map[string]handler.PingFunc

	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer, which /metrics serves.
	Registerer prometheus.Registerer

	CORSOrigins []string
	Swagger     bool
	Log         zerolog.Logger
}

// anonymousRoutes skip the authorization gate even when a token is sent.
var anonymousRoutes = []string{
	"POST " + apiPrefix + "/users",
	"POST " + apiPrefix + "/users/login",
	"GET " + apiPrefix + "/categories",
	"GET " + apiPrefix + "/categories/:id",
	"GET " + apiPrefix + "/products",
	"GET " + apiPrefix + "/products/:id",
	"GET " + apiPrefix + "/products/category/:categoryId",
	"GET " + apiPrefix + "/products/search/:term",
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "ecommerce",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Platform ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	if d.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// --- API, behind the authorization gate ---
	// The gate is attached per route. Group.Use would register catch-all
	// routes that run it on unknown paths, answering 401 instead of 404.
	v1 := e.Group(apiPrefix)
	gate := middleware.Auth(d.Tokens, middleware.Anonymous(anonymousRoutes...))
	admin := middleware.RBAC(domain.RoleAdmin)
	guarded := func(m ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		return append([]echo.MiddlewareFunc{gate}, m...)
	}

	users := handler.NewUserHandler(d.Users)
	auth := handler.NewAuthHandler(d.Auth)
	v1.POST("/users", auth.Register, guarded()...)
	v1.POST("/users/login", auth.Login, guarded()...)
	v1.GET("/users", users.List, guarded(admin)...)
	v1.GET("/users/:id", users.Get, guarded(admin)...)

	categories := handler.NewCategoryHandler(d.Categories)
	cached := guarded
	if d.CategoryCache != nil {
		cache := middleware.Cache(d.CategoryCache, d.Log)
		cached = func(m ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
			return guarded(append([]echo.MiddlewareFunc{cache}, m...)...)
		}
	}
	v1.GET("/categories", categories.List, cached()...)
	v1.GET("/categories/:id", categories.Get, cached()...)
	v1.POST("/categories", categories.Create, cached(admin)...)
	v1.PATCH("/categories/:id", categories.Update, cached(admin)...)
	v1.DELETE("/categories/:id", categories.Delete, cached(admin)...)

	products := handler.NewProductHandler(d.Products)
	v1.GET("/products", products.List, guarded()...)
	v1.GET("/products/:id", products.Get, guarded()...)
	v1.GET("/products/category/:categoryId", products.ListByCategory, guarded()...)
	v1.GET("/products/search/:term", products.Search, guarded()...)
	v1.POST("/products", products.Create, guarded(admin)...)
	v1.PUT("/products/:id", products.Update, guarded(admin)...)
	v1.DELETE("/products/:id", products.Delete, guarded(admin)...)
	v1.PATCH("/products/buy/:name/:quantity", products.Buy, guarded()...)

	return e
}
