package cache

import (
	"context"

	"go.uber.org/zap"

	"ixp-backend/application/ports"
	"ixp-backend/application/services"
	"ixp-backend/domain/core/entities"
)

// CachingResolver decorates the resolver with TTL-based caching. A hit
// returns a copy marked CacheHit so the underlying record stays pristine.
type CachingResolver struct {
	inner   *services.Resolver
	cache   ports.ResolutionCache
	metrics CacheMetrics
	logger  *zap.Logger
}

// CacheMetrics receives hit/miss counts. Implemented by the observability
// collector; a nil-safe no-op default keeps tests lightweight.
type CacheMetrics interface {
	CacheHit()
	CacheMiss()
}

type noopMetrics struct{}

func (noopMetrics) CacheHit()  {}
func (noopMetrics) CacheMiss() {}

// NewCachingResolver wraps a resolver with a resolution cache.
func NewCachingResolver(inner *services.Resolver, cache ports.ResolutionCache, metrics CacheMetrics, logger *zap.Logger) *CachingResolver {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &CachingResolver{inner: inner, cache: cache, metrics: metrics, logger: logger}
}

// ResolveIntent consults the cache before delegating. Records resolved with
// a zero TTL are never stored.
func (r *CachingResolver) ResolveIntent(ctx context.Context, req services.ResolveRequest) (*entities.ResolutionRecord, error) {
	key := Key(req.Name, req.Parameters, req.Context)

	if cached, ok := r.cache.Get(key); ok {
		r.metrics.CacheHit()
		hit := *cached
		hit.Props = cloneProps(cached.Props)
		hit.CacheHit = true
		return &hit, nil
	}
	r.metrics.CacheMiss()

	record, err := r.inner.ResolveIntent(ctx, req)
	if err != nil {
		return nil, err
	}
	if record.TTLSeconds > 0 {
		// Store a private copy so callers mutating the returned props
		// cannot corrupt the cached entry.
		stored := *record
		stored.Props = cloneProps(record.Props)
		r.cache.Set(key, &stored, record.TTLSeconds)
	}
	return record, nil
}

func cloneProps(props map[string]interface{}) map[string]interface{} {
	copied := make(map[string]interface{}, len(props))
	for k, v := range props {
		copied[k] = v
	}
	return copied
}
