package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/insighthq/insight-api/docs"
	"github.com/insighthq/insight-api/internal/api/handler"
	"github.com/insighthq/insight-api/internal/api/middleware"
	"github.com/insighthq/insight-api/internal/core/ports"
)

// Deps carries the already-constructed collaborators the router wires into
// routes. Everything stateful (cache, limiter counters, services) is built
// once at process start and injected, never global.
type Deps struct {
	AuthService ports.AuthService
	UserService ports.UserService
	DataService ports.DataService

	// UserChecker answers the auth middleware's existence re-check.
	UserChecker middleware.UserChecker

	// RateCounter and SpeedCounter are distinct so the hard cap and the
	// soft throttle keep independent counts for the same client.
	RateCounter  middleware.Counter
	SpeedCounter middleware.Counter

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret  string
	Production bool
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Stage order inside a route is fixed: speed limiter, rate limiter, auth,
// role guard, validation, handler. A stage only runs if every stage before
// it allowed continuation.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("insight"))
	e.Use(middleware.SpeedLimit(d.SpeedCounter, middleware.DefaultBudget, d.Production, d.Log))
	e.Use(middleware.RateLimit(d.RateCounter, middleware.DefaultBudget, d.Production, d.Log))

	authMW := middleware.Auth(d.JWTSecret, d.UserChecker)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	userHandler := handler.NewUserHandler(d.UserService)
	dataHandler := handler.NewDataHandler(d.DataService)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	v1 := e.Group("/v1")
	v1.GET("/api/docs/*", echoswagger.WrapHandler)

	// --- Auth routes: tightest budgets, they are the brute-force target ---
	auth := v1.Group("/auth",
		middleware.SpeedLimit(d.SpeedCounter, middleware.AuthBudget, d.Production, d.Log),
		middleware.RateLimit(d.RateCounter, middleware.AuthBudget, d.Production, d.Log),
	)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, authMW)

	// --- User routes ---
	users := v1.Group("/users",
		middleware.SpeedLimit(d.SpeedCounter, middleware.APIBudget, d.Production, d.Log),
		middleware.RateLimit(d.RateCounter, middleware.APIBudget, d.Production, d.Log),
		authMW,
	)
	users.GET("", userHandler.List, middleware.AdminOnly())
	users.GET("/:id", userHandler.Get, middleware.SelfOrAdmin("id"))
	users.PATCH("/:id", userHandler.Update, middleware.SelfOrAdmin("id"))
	users.DELETE("/:id", userHandler.Delete, middleware.AdminOnly())

	// --- Combined data ---
	data := v1.Group("/data",
		middleware.SpeedLimit(d.SpeedCounter, middleware.APIBudget, d.Production, d.Log),
		middleware.RateLimit(d.RateCounter, middleware.APIBudget, d.Production, d.Log),
		authMW,
	)
	data.GET("", dataHandler.Combined)

	return e
}
