package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ixp-backend/infrastructure/config"
	"ixp-backend/infrastructure/observability"
	"ixp-backend/interfaces/http/rest/handlers"
	"ixp-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	config   *config.Config
	render   *handlers.RenderHandler
	registry *handlers.RegistryHandler
	crawler  *handlers.CrawlerHandler
	metrics  *observability.Collector
	limiter  *middleware.RateLimiter
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	render *handlers.RenderHandler,
	registryHandler *handlers.RegistryHandler,
	crawler *handlers.CrawlerHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:   cfg,
		render:   render,
		registry: registryHandler,
		crawler:  crawler,
		metrics:  metrics,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	if rt.config.EnableTracing {
		router.Use(middleware.Tracing("ixp-backend"))
	}
	router.Use(middleware.Logger(rt.logger))
	if rt.config.EnableMetrics && rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	if rt.config.RateLimitPerMinute > 0 {
		rt.limiter = middleware.NewRateLimiter(rt.config.RateLimitPerMinute, rt.logger)
		router.Use(rt.limiter.Handler)
	}

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.config.EnableMetrics && rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/ixp", func(r chi.Router) {
		// Resolution and rendering
		r.Post("/render", rt.render.Resolve)
		r.Get("/render/{component}", rt.render.Page)

		// Registry dumps, no resolution performed
		r.Get("/intents", rt.registry.ListIntents)
		r.Get("/components", rt.registry.ListComponents)

		// Crawler aggregation
		r.Get("/crawler_content", rt.crawler.GetContent)

		// Admin mutations
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(middleware.AdminAuthConfig{
				Secret:         rt.config.AdminJWTSecret,
				Issuer:         rt.config.AdminJWTIssuer,
				AllowAnonymous: rt.config.IsDevelopment(),
			}, rt.logger))

			r.Post("/intents", rt.registry.AddIntent)
			r.Delete("/intents/{name}", rt.registry.RemoveIntent)
			r.Post("/components", rt.registry.AddComponent)
			r.Delete("/components/{name}", rt.registry.RemoveComponent)
			r.Put("/sources/{name}/enabled", rt.registry.SetSourceEnabled)
		})
	})

	return router
}

// Close stops background work started by Setup.
func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.Stop()
	}
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
