package registry

import (
	"fmt"
	"sync"

	"ixp-backend/domain/core/entities"
	pkgerrors "ixp-backend/pkg/errors"
	"ixp-backend/pkg/utils"
)

// ComponentRegistry is the keyed store of component definitions.
type ComponentRegistry struct {
	mu         sync.RWMutex
	components map[string]*entities.ComponentDefinition
	order      []string
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*entities.ComponentDefinition),
	}
}

// Add registers a component definition, failing with DUPLICATE_NAME or
// INVALID_DEFINITION.
func (r *ComponentRegistry) Add(def *entities.ComponentDefinition) error {
	if def == nil {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidDefinition, "component definition is nil")
	}
	if err := utils.ValidateStruct(def); err != nil {
		return pkgerrors.NewValidationError(
			pkgerrors.CodeInvalidDefinition,
			fmt.Sprintf("invalid component definition: %v", err),
		)
	}
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[def.Name]; exists {
		return pkgerrors.NewConflictError(
			pkgerrors.CodeDuplicateName,
			fmt.Sprintf("component %q is already registered", def.Name),
		)
	}
	r.components[def.Name] = def.Clone()
	r.order = append(r.order, def.Name)
	return nil
}

// Get returns the component with the given name, or false.
func (r *ComponentRegistry) Get(name string) (*entities.ComponentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.components[name]
	if !ok {
		return nil, false
	}
	return def.Clone(), true
}

// GetAll returns every registered component in insertion order.
func (r *ComponentRegistry) GetAll() []*entities.ComponentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*entities.ComponentDefinition, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.components[name].Clone())
	}
	return all
}

// Remove deletes a component and reports whether it existed.
func (r *ComponentRegistry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; !exists {
		return false
	}
	delete(r.components, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// IsOriginAllowed reports whether the origin may embed the named component.
// An unknown component answers false, never an error: origin checks sit on
// hot request paths and absence is simply "not allowed".
func (r *ComponentRegistry) IsOriginAllowed(name, origin string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.components[name]
	if !ok {
		return false
	}
	return def.Origins().Allows(origin)
}

// Len returns the number of registered components.
func (r *ComponentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
