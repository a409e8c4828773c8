package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fieldcrew/engineer-roster/docs"
	"github.com/fieldcrew/engineer-roster/internal/api/handler"
	"github.com/fieldcrew/engineer-roster/internal/api/middleware"
	"github.com/fieldcrew/engineer-roster/internal/api/validation"
	"github.com/fieldcrew/engineer-roster/internal/api/view"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
	"github.com/fieldcrew/engineer-roster/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into its handlers.
// Mongo and Redis are only used by the readiness probe and may be nil.
type Dependencies struct {
	AuthService     ports.AuthService
	EngineerService ports.EngineerService
	ActivityService ports.ActivityService

	Mongo *mongo.Database
	Redis *redis.Client

	Logger zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics; defaults are the
	// process-wide Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Pre-routing: HTML forms tunnel PUT/DELETE through ?_method= ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Pre(echomiddleware.MethodOverrideWithConfig(echomiddleware.MethodOverrideConfig{
		Getter: echomiddleware.MethodFromQuery("_method"),
	}))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "roster",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))
	e.Use(requestLogger(deps.Logger))

	// --- Dependencies ---
	auth := middleware.Auth(deps.AuthService)
	data := middleware.NewEngineerData(deps.EngineerService)
	authHandler := handler.NewAuthHandler(deps.AuthService)
	engineerHandler := handler.NewEngineerHandler()
	activityHandler := handler.NewActivityHandler(deps.ActivityService)
	engineerViews := handler.NewEngineerViews()
	sessionViews := handler.NewSessionViews(deps.AuthService)

	// --- JSON API ---
	apiGroup := e.Group("/api")

	users := apiGroup.Group("/users")
	users.POST("", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout, auth)
	users.GET("/profile", authHandler.Profile, auth)
	users.PUT("/:id", authHandler.UpdateUser, auth, middleware.SelfOnly())
	users.DELETE("/:id", authHandler.DeleteUser, auth, middleware.SelfOnly())

	engineers := apiGroup.Group("/engineers", auth)
	engineers.GET("", engineerHandler.Index, data.List)
	engineers.POST("", engineerHandler.Create, data.Create)
	engineers.GET("/:id", engineerHandler.Show, data.Show)
	engineers.PUT("/:id", engineerHandler.Update, data.Update)
	engineers.DELETE("/:id", engineerHandler.Destroy, data.Delete)
	engineers.GET("/:id/activity", activityHandler.History)

	// --- Browser UI (token travels as ?token=) ---
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/login")
	})
	e.GET("/login", sessionViews.LoginForm)
	e.POST("/login", sessionViews.Login)
	e.POST("/logout", sessionViews.Logout, auth)

	ui := e.Group("/engineers", auth)
	ui.GET("", engineerViews.Index, data.List)
	ui.GET("/new", engineerViews.New)
	ui.POST("", engineerViews.RedirectHome, data.Create)
	ui.GET("/:id", engineerViews.Show, data.Show)
	ui.GET("/:id/edit", engineerViews.Edit, data.Show)
	ui.PUT("/:id", engineerViews.RedirectShow, data.Update)
	ui.DELETE("/:id", engineerViews.RedirectHome, data.Delete)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

