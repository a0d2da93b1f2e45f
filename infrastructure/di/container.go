package di

import (
	"go.uber.org/zap"

	"ixp-backend/application/ports"
	"ixp-backend/application/services"
	"ixp-backend/domain/registry"
	"ixp-backend/infrastructure/cache"
	"ixp-backend/infrastructure/config"
	"ixp-backend/infrastructure/datasource"
	"ixp-backend/infrastructure/observability"
	"ixp-backend/interfaces/http/rest/handlers"
	pkgerrors "ixp-backend/pkg/errors"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Metrics         *observability.Collector
	ErrorHandler    *pkgerrors.ErrorHandler
	Intents         *registry.IntentRegistry
	Components      *registry.ComponentRegistry
	Sources         *registry.SourceRegistry
	DataProvider    ports.DataProvider
	Resolver        *services.Resolver
	ResolutionCache *cache.ResolutionCache
	CachingResolver handlers.IntentResolver
	Renderer        *services.Renderer
	Crawler         *services.Crawler
	RenderHandler   *handlers.RenderHandler
	RegistryHandler *handlers.RegistryHandler
	CrawlerHandler  *handlers.CrawlerHandler
}

// ApplyDefinitions registers every intent, component, and static source
// from a definitions payload. Failing fast here is deliberate: a
// misconfigured registry is worse than a server that refuses to start.
func (c *Container) ApplyDefinitions(defs *config.Definitions) error {
	for _, intent := range defs.Intents {
		if err := c.Intents.Add(intent); err != nil {
			return err
		}
	}
	for _, component := range defs.Components {
		if err := c.Components.Add(component); err != nil {
			return err
		}
	}
	for _, static := range defs.StaticSources {
		if err := c.Sources.Register(datasource.NewStaticSource(static)); err != nil {
			return err
		}
	}

	c.Logger.Info("definitions applied",
		zap.Int("intents", c.Intents.Len()),
		zap.Int("components", c.Components.Len()),
		zap.Int("staticSources", len(defs.StaticSources)),
	)
	return nil
}

// ReplaceDefinitions swaps registry contents for hot reload. Entries are
// removed and re-added one by one; concurrent readers observe last-writer-
// wins, which registration traffic tolerates.
func (c *Container) ReplaceDefinitions(defs *config.Definitions) error {
	for _, intent := range c.Intents.GetAll() {
		c.Intents.Remove(intent.Name)
	}
	for _, component := range c.Components.GetAll() {
		c.Components.Remove(component.Name)
	}
	for _, source := range c.Sources.GetAll() {
		c.Sources.Remove(source.Name)
	}
	if err := c.ApplyDefinitions(defs); err != nil {
		return err
	}
	if c.DataProvider != nil {
		c.RegisterProviderSource()
	}
	return nil
}

// RegisterProviderSource exposes the data provider's crawler endpoint as a
// data source when a provider is configured.
func (c *Container) RegisterProviderSource() {
	source := datasource.NewProviderSource("provider", "1.0.0", c.DataProvider, nil)
	if err := c.Sources.Register(source); err != nil {
		c.Logger.Warn("provider crawler source not registered", zap.Error(err))
	}
}
