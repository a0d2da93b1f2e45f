// Package ports declares the collaborator contracts the application layer
// consumes. Implementations live in infrastructure.
package ports

import (
	"context"

	"ixp-backend/domain/core/entities"
)

// ProviderContentOptions carries pagination for a provider-backed crawl.
type ProviderContentOptions struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProviderContent is one page of crawler records from the data provider.
type ProviderContent struct {
	Contents []map[string]interface{} `json:"contents"`
	HasMore  bool                     `json:"hasMore"`
	Total    int                      `json:"total,omitempty"`
}

// DataProvider is the external collaborator that enriches intent resolution
// with server-side data and can serve crawler content. The core never
// retries a provider call; a failure is wrapped as DATA_PROVIDER_ERROR and
// surfaced as-is.
type DataProvider interface {
	// ResolveIntentData returns provider-side props for an intent. The
	// returned map sits between component defaults and request parameters
	// in merge precedence.
	ResolveIntentData(ctx context.Context, intent *entities.IntentDefinition, requestContext map[string]interface{}) (map[string]interface{}, error)

	// GetCrawlerContent returns one page of crawler records.
	GetCrawlerContent(ctx context.Context, opts ProviderContentOptions) (*ProviderContent, error)
}

// ResolutionCache stores resolution records keyed by request identity.
// Caching is an external concern: the resolver itself never touches a
// cache, a decorator applies TTL semantics around it.
type ResolutionCache interface {
	Get(key string) (*entities.ResolutionRecord, bool)
	Set(key string, record *entities.ResolutionRecord, ttlSeconds int)
}
