package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/gympulse/member-portal/internal/api/handler"
	"github.com/gympulse/member-portal/internal/api/middleware"
	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
	healthhandlers "github.com/gympulse/member-portal/internal/infrastructure/http/handlers"
)

// RouterDeps carries everything the route table needs.
type RouterDeps struct {
	Sessions      ports.SessionService
	GymAPI        ports.GymAPI
	Probes        map[string]healthhandlers.Pinger
	Logger        zerolog.Logger
	SecureCookies bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Each gated screen declares its allowed roles here, in one place, instead
// of re-checking roles inside every view.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	session := middleware.PortalSession(deps.Sessions, deps.SecureCookies)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.GymAPI, deps.Sessions)
	portalHandler := handler.NewPortalHandler()

	// --- Public routes ---
	e.GET("/", portalHandler.Home, session)
	e.GET("/login", portalHandler.LoginPage, session)
	e.GET("/subs", portalHandler.Subs, session)
	e.POST("/login", authHandler.Login, session)
	e.POST("/register", authHandler.Register, session)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.POST("/reset-password/:token", authHandler.ResetPassword)
	e.POST("/logout", authHandler.Logout, session)
	e.GET("/session", authHandler.Session, session)
	e.POST("/session/refresh", authHandler.RefreshSession, session)

	// --- Gated screens ---
	e.GET("/dashboard", portalHandler.Dashboard,
		session, middleware.Guard(deps.Sessions))
	e.GET("/drop-in", portalHandler.DropIn,
		session, middleware.Guard(deps.Sessions, domain.RoleUser, domain.RoleCoach))
	e.GET("/coach/schedule", portalHandler.CoachSchedule,
		session, middleware.Guard(deps.Sessions, domain.RoleCoach, domain.RoleAdmin))
	e.GET("/admin/metrics", portalHandler.AdminMetrics,
		session, middleware.Guard(deps.Sessions, domain.RoleAdmin))
	e.GET("/subscription/success", portalHandler.SubscriptionSuccess,
		session, middleware.Guard(deps.Sessions))

	// --- Health probes and metrics (no session required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	readinessHandler := healthhandlers.NewReadinessHandler(deps.Probes)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
