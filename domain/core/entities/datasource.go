package entities

import (
	"context"

	"ixp-backend/domain/schema"
)

// FetchOptions carries per-source pagination for one handler invocation.
type FetchOptions struct {
	Offset int
	Limit  int
}

// FetchResult is what a data source handler returns for one page.
type FetchResult struct {
	Records []map[string]interface{} `json:"records"`
	HasMore bool                     `json:"hasMore"`
	Total   int                      `json:"total,omitempty"`
}

// FetchHandler produces one page of records. Handlers own their side
// effects: rate limiting and caching happen here, not in the registry, and
// the registry never assumes a handler is idempotent.
type FetchHandler func(ctx context.Context, opts FetchOptions) (*FetchResult, error)

// SourceConfig carries pagination defaults and advisory handler hints.
type SourceConfig struct {
	DefaultLimit       int `json:"defaultLimit,omitempty" yaml:"defaultLimit,omitempty"`
	MaxLimit           int `json:"maxLimit,omitempty" yaml:"maxLimit,omitempty"`
	CacheTTLSeconds    int `json:"cacheTtlSeconds,omitempty" yaml:"cacheTtlSeconds,omitempty"`
	RateLimitPerMinute int `json:"rateLimitPerMinute,omitempty" yaml:"rateLimitPerMinute,omitempty"`
}

// CrawlerDataSource is a pluggable, paginated content provider for crawler
// consumption, independent of the intent/component model.
type CrawlerDataSource struct {
	Name         string         `json:"name" validate:"required,min=1,max=128"`
	Version      string         `json:"version" validate:"required"`
	Description  string         `json:"description,omitempty"`
	Enabled      bool           `json:"enabled"`
	RecordSchema *schema.Schema `json:"recordSchema" validate:"required"`
	Handler      FetchHandler   `json:"-" validate:"required"`
	Config       SourceConfig   `json:"config"`
}

// EffectiveLimit clamps a requested page size to the source's bounds.
func (s *CrawlerDataSource) EffectiveLimit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = s.Config.DefaultLimit
	}
	if limit <= 0 {
		limit = 20
	}
	if s.Config.MaxLimit > 0 && limit > s.Config.MaxLimit {
		limit = s.Config.MaxLimit
	}
	return limit
}
