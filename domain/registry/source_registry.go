package registry

import (
	"fmt"
	"sync"

	"ixp-backend/domain/core/entities"
	pkgerrors "ixp-backend/pkg/errors"
)

// SourceRegistry is the keyed store of crawler data sources. Sources can be
// disabled without removal, e.g. while an upstream is misbehaving.
type SourceRegistry struct {
	mu      sync.RWMutex
	sources map[string]*entities.CrawlerDataSource
	order   []string
}

// NewSourceRegistry creates an empty data source registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]*entities.CrawlerDataSource),
	}
}

// Register adds a data source, failing with INVALID_SOURCE when name,
// version, record schema, or handler is missing, and DUPLICATE_NAME when the
// name is taken.
func (r *SourceRegistry) Register(source *entities.CrawlerDataSource) error {
	if source == nil {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidSource, "data source is nil")
	}
	if source.Name == "" {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidSource, "data source name is required")
	}
	if source.Version == "" {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidSource,
			fmt.Sprintf("data source %q: version is required", source.Name))
	}
	if source.RecordSchema == nil {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidSource,
			fmt.Sprintf("data source %q: record schema is required", source.Name))
	}
	if err := source.RecordSchema.IsValid(); err != nil {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidSource,
			fmt.Sprintf("data source %q: invalid record schema: %v", source.Name, err))
	}
	if source.Handler == nil {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidSource,
			fmt.Sprintf("data source %q: fetch handler is required", source.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[source.Name]; exists {
		return pkgerrors.NewConflictError(
			pkgerrors.CodeDuplicateName,
			fmt.Sprintf("data source %q is already registered", source.Name),
		)
	}
	r.sources[source.Name] = source
	r.order = append(r.order, source.Name)
	return nil
}

// Get returns the source with the given name, or false.
func (r *SourceRegistry) Get(name string) (*entities.CrawlerDataSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source, ok := r.sources[name]
	return source, ok
}

// GetAll returns every registered source in insertion order.
func (r *SourceRegistry) GetAll() []*entities.CrawlerDataSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*entities.CrawlerDataSource, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.sources[name])
	}
	return all
}

// Select resolves the targets of a content request: every enabled source
// when names is empty, otherwise the named sources that exist and are
// enabled. Unknown names are silently ignored, not errors.
func (r *SourceRegistry) Select(names []string) []*entities.CrawlerDataSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var selected []*entities.CrawlerDataSource
	if len(names) == 0 {
		for _, name := range r.order {
			if source := r.sources[name]; source.Enabled {
				selected = append(selected, source)
			}
		}
		return selected
	}
	for _, name := range names {
		if source, ok := r.sources[name]; ok && source.Enabled {
			selected = append(selected, source)
		}
	}
	return selected
}

// SetEnabled toggles a source without removing it, reporting whether the
// source exists.
func (r *SourceRegistry) SetEnabled(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	source, ok := r.sources[name]
	if !ok {
		return false
	}
	source.Enabled = enabled
	return true
}

// Remove deletes a source and reports whether it existed.
func (r *SourceRegistry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[name]; !exists {
		return false
	}
	delete(r.sources, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
