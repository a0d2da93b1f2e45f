//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"ixp-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideErrorHandler,
	ProvideIntentRegistry,
	ProvideComponentRegistry,
	ProvideSourceRegistry,
	ProvideDataProvider,
	ProvideResolver,
	ProvideResolutionCache,
	ProvideCachingResolver,
	ProvideRenderer,
	ProvideCrawler,
	ProvideRenderHandler,
	ProvideRegistryHandler,
	ProvideCrawlerHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
