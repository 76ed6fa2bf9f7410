package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/api/handler"
	"github.com/epicevents/crm/internal/api/middleware"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/http/handlers"
)

// Services groups the application services the routes are bound to.
type Services struct {
	Auth      ports.AuthService
	Accounts  ports.AccountService
	Clients   ports.ClientService
	Contracts ports.ContractService
	Events    ports.EventService
}

// NewRouter builds and returns the Echo instance with all routes registered.
// checks feeds the readiness probe.
func NewRouter(svc Services, checks map[string]handlers.Check, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	authMiddleware := middleware.Auth(svc.Auth)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/auth/whoami", authHandler.WhoAmI, authMiddleware)

	v1 := e.Group("/v1", authMiddleware)

	// --- Accounts (writes are management only) ---
	accountHandler := handler.NewAccountHandler(svc.Accounts)
	managementOnly := middleware.RBAC(domain.RoleManagement)
	v1.GET("/accounts", accountHandler.List)
	v1.POST("/accounts", accountHandler.Create, managementOnly)
	v1.PATCH("/accounts/:id", accountHandler.Update, managementOnly)
	v1.DELETE("/accounts/:id", accountHandler.Delete, managementOnly)

	// --- Clients, contracts, events (per-record checks live in the services) ---
	clientHandler := handler.NewClientHandler(svc.Clients)
	v1.GET("/clients", clientHandler.List)
	v1.POST("/clients", clientHandler.Create)
	v1.PATCH("/clients/:id", clientHandler.Update)

	contractHandler := handler.NewContractHandler(svc.Contracts)
	v1.GET("/contracts", contractHandler.List)
	v1.POST("/contracts", contractHandler.Create)
	v1.PATCH("/contracts/:id", contractHandler.Update)

	eventHandler := handler.NewEventHandler(svc.Events)
	v1.GET("/events", eventHandler.List)
	v1.POST("/events", eventHandler.Create)
	v1.PATCH("/events/:id", eventHandler.Update)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
