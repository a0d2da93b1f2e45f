package di

import (
	"time"

	"go.uber.org/zap"

	"ixp-backend/application/ports"
	"ixp-backend/application/services"
	"ixp-backend/domain/registry"
	"ixp-backend/infrastructure/cache"
	"ixp-backend/infrastructure/config"
	"ixp-backend/infrastructure/observability"
	"ixp-backend/infrastructure/provider"
	"ixp-backend/interfaces/http/rest/handlers"
	pkgerrors "ixp-backend/pkg/errors"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	return observability.NewCollector("ixp")
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideIntentRegistry creates the intent registry
func ProvideIntentRegistry() *registry.IntentRegistry {
	return registry.NewIntentRegistry()
}

// ProvideComponentRegistry creates the component registry
func ProvideComponentRegistry() *registry.ComponentRegistry {
	return registry.NewComponentRegistry()
}

// ProvideSourceRegistry creates the crawler data source registry
func ProvideSourceRegistry() *registry.SourceRegistry {
	return registry.NewSourceRegistry()
}

// ProvideDataProvider creates the data provider client, or nil when no
// provider is configured. The resolver treats a nil provider as "no
// collaborator".
func ProvideDataProvider(cfg *config.Config, logger *zap.Logger) ports.DataProvider {
	if !cfg.HasProvider() {
		return nil
	}
	return provider.NewHTTPProvider(
		cfg.ProviderBaseURL,
		time.Duration(cfg.ProviderTimeoutSeconds)*time.Second,
		logger,
	)
}

// ProvideResolver creates the intent resolver
func ProvideResolver(
	intents *registry.IntentRegistry,
	components *registry.ComponentRegistry,
	dataProvider ports.DataProvider,
	logger *zap.Logger,
) *services.Resolver {
	return services.NewResolver(intents, components, dataProvider, logger)
}

// ProvideResolutionCache creates the bounded resolution cache
func ProvideResolutionCache(cfg *config.Config) (*cache.ResolutionCache, error) {
	return cache.NewResolutionCache(cfg.CacheMaxEntries)
}

// ProvideCachingResolver decorates the resolver with TTL caching
func ProvideCachingResolver(
	resolver *services.Resolver,
	resolutionCache *cache.ResolutionCache,
	metrics *observability.Collector,
	logger *zap.Logger,
) handlers.IntentResolver {
	return cache.NewCachingResolver(resolver, resolutionCache, metrics, logger)
}

// ProvideRenderer creates the component renderer
func ProvideRenderer(components *registry.ComponentRegistry, cfg *config.Config, logger *zap.Logger) *services.Renderer {
	return services.NewRenderer(components, cfg.RuntimeScriptURL, logger)
}

// ProvideCrawler creates the crawler content aggregator
func ProvideCrawler(sources *registry.SourceRegistry, metrics *observability.Collector, logger *zap.Logger) *services.Crawler {
	return services.NewCrawler(sources, metrics, logger)
}

// ProvideRenderHandler creates the render handler
func ProvideRenderHandler(
	resolver handlers.IntentResolver,
	renderer *services.Renderer,
	intents *registry.IntentRegistry,
	components *registry.ComponentRegistry,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *handlers.RenderHandler {
	return handlers.NewRenderHandler(resolver, renderer, intents, components, errorHandler, metrics, logger)
}

// ProvideRegistryHandler creates the registry handler
func ProvideRegistryHandler(
	intents *registry.IntentRegistry,
	components *registry.ComponentRegistry,
	sources *registry.SourceRegistry,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.RegistryHandler {
	return handlers.NewRegistryHandler(intents, components, sources, errorHandler, logger)
}

// ProvideCrawlerHandler creates the crawler handler
func ProvideCrawlerHandler(crawler *services.Crawler, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *handlers.CrawlerHandler {
	return handlers.NewCrawlerHandler(crawler, errorHandler, logger)
}
