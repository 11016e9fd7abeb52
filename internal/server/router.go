// Package server assembles the HTTP router of the API
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	authMiddleware "github.com/magicalwebsite/backend/internal/auth/middleware"
	"github.com/magicalwebsite/backend/internal/handlers"
	loggerMiddleware "github.com/magicalwebsite/backend/internal/logger/middleware"
	"github.com/magicalwebsite/backend/internal/metrics"
	"github.com/magicalwebsite/backend/internal/middlewares"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Handlers groups the route handlers served by the router
type Handlers struct {
	Auth   *handlers.AuthHandler
	User   *handlers.UserHandler
	Admin  *handlers.AdminHandler
	Health *handlers.HealthHandler
}

// Options configures the router middleware stack
type Options struct {
	Logger   *zap.Logger
	Resolver authMiddleware.IdentityResolver
	Metrics  *metrics.Metrics

	AllowedOrigins    []string
	RequestsPerMinute int // 0 disables rate limiting
	MaxRequestSize    int64
	SwaggerURL        string // empty disables the swagger UI
}

// NewRouter builds the router with global middlewares and all API routes
func NewRouter(h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(opts.Logger))
	r.Use(middlewares.RecoveryMiddleware(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.MetricsMiddleware)
	}
	r.Use(middlewares.CORSMiddleware(opts.AllowedOrigins))
	if opts.RequestsPerMinute > 0 {
		r.Use(httprate.Limit(
			opts.RequestsPerMinute,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				middlewares.WriteError(w, http.StatusTooManyRequests, "Too many requests")
			}),
		))
	}
	maxRequestSize := opts.MaxRequestSize
	if maxRequestSize <= 0 {
		maxRequestSize = middlewares.DefaultMaxRequestSize
	}
	r.Use(middlewares.RequestSizeLimitMiddleware(maxRequestSize))

	// Service endpoints
	h.Health.RegisterRoutes(r)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.SwaggerURL != "" {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(opts.SwaggerURL)))
	}

	authenticate := authMiddleware.AuthMiddleware(opts.Resolver, opts.Logger)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		h.Auth.RegisterRoutes(r)

		// Routes of the authenticated user
		r.Route("/user", func(r chi.Router) {
			r.Use(authenticate)
			h.User.RegisterRoutes(r)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(authMiddleware.AdminMiddleware)
			h.Admin.RegisterRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middlewares.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middlewares.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
