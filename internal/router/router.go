package router

import (
	"net/http"

	"github.com/anonto42/nano-tube/backend/internal/handlers"
	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options carries what the router needs from main
type Options struct {
	Services  *services.Services
	Sessions  *middleware.SessionManager
	Access    middleware.AccessConfig
	Logger    *logrus.Logger
	StaticDir string  // served at /static, empty disables
	BodyLimit string  // e.g. "100M"
	RateLimit float64 // form posts per second per client, 0 disables
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, opts Options) {
	logger := opts.Logger
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
				"ip":      v.RemoteIP,
			})
			switch {
			case v.Error != nil && v.Status >= http.StatusInternalServerError:
				entry.WithError(v.Error).Error("request failed")
				return nil
			case v.Error != nil:
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	if opts.BodyLimit != "" {
		e.Use(eMiddleware.BodyLimit(opts.BodyLimit))
	}
	e.Use(opts.Sessions.LoadSession())
	e.Use(middleware.AccessControl(opts.Access))
	logger.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, opts Options) {
	logger := opts.Logger
	svc := opts.Services

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	if opts.StaticDir != "" {
		e.Static("/static", opts.StaticDir)
	}

	var limit []echo.MiddlewareFunc
	if opts.RateLimit > 0 {
		limit = append(limit, eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(rate.Limit(opts.RateLimit))))
	}

	public := e.Group("")
	handlers.NewPageHandler(svc.Videos, svc.Accounts).RegisterPageRoutes(public)
	handlers.NewFeedHandler(svc.Videos).RegisterFeedRoutes(public)
	handlers.NewAuthHandler(svc.Accounts, opts.Sessions, logger).RegisterAuthRoutes(public, limit...)
	logger.Info("Public routes configured.")

	// --- Routes that need a signed-in user ---
	// Middleware goes on the routes, not the group, so unknown paths still 404.
	protected := append([]echo.MiddlewareFunc{middleware.RequireUser()}, limit...)
	handlers.NewVideoHandler(svc.Videos).RegisterVideoRoutes(public, protected...)
	handlers.NewReactionHandler(svc.Reactions).RegisterReactionRoutes(public, protected...)
	handlers.NewCommentHandler(svc.Comments).RegisterCommentRoutes(public, protected...)
	handlers.NewSubscriptionHandler(svc.Subscriptions).RegisterSubscriptionRoutes(public, protected...)
	handlers.NewUserHandler(svc.Accounts).RegisterProfileRoutes(public, protected...)
	logger.Info("Protected routes configured.")
}
