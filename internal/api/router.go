package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/api/handler"
	"github.com/leadhub/lead-tracker/internal/api/middleware"
	"github.com/leadhub/lead-tracker/internal/core/domain"
	"github.com/leadhub/lead-tracker/internal/core/ports"
	"github.com/leadhub/lead-tracker/internal/infrastructure/ws"
)

// Dependencies carries everything the router wires into handlers. All
// collaborators are injected; the router owns no construction logic
// beyond the handlers themselves.
type Dependencies struct {
	AuthService     ports.AuthService
	LeadService     ports.LeadService
	ActivityService ports.ActivityService
	StatsService    ports.StatsService
	UserRepo        ports.UserRepository
	Hub             *ws.Hub
	Pool            *pgxpool.Pool
	Redis           *redis.Client
	Log             zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("leadhub"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	leadHandler := handler.NewLeadHandler(deps.LeadService)
	activityHandler := handler.NewActivityHandler(deps.ActivityService)
	statsHandler := handler.NewStatsHandler(deps.StatsService)
	userHandler := handler.NewUserHandler(deps.UserRepo)
	wsHandler := handler.NewWSHandler(deps.Hub, deps.LeadService, deps.Log)

	authMW := middleware.Auth(deps.AuthService)
	managersOnly := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Pool, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMW)

	v1.POST("/leads", leadHandler.Create)
	v1.GET("/leads", leadHandler.List)
	v1.GET("/leads/:id", leadHandler.Get)
	v1.PATCH("/leads/:id", leadHandler.Update)
	v1.DELETE("/leads/:id", leadHandler.Delete)
	v1.GET("/leads/:id/activities", activityHandler.ListByLead)

	v1.POST("/activities", activityHandler.Create)
	v1.PATCH("/activities/:id", activityHandler.Update)
	v1.DELETE("/activities/:id", activityHandler.Delete)

	v1.GET("/stats/dashboard", statsHandler.Dashboard)
	v1.GET("/stats/performance", statsHandler.Performance, managersOnly)

	v1.GET("/users", userHandler.List)
	v1.GET("/users/me", userHandler.Me)

	v1.GET("/ws", wsHandler.Serve)

	return e
}
