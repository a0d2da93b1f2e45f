// Package registry holds the owned, in-process stores for intent,
// component, and crawler data source definitions. Registries are constructed
// per server instance; there is no package-level state.
package registry

import (
	"fmt"
	"sync"

	"ixp-backend/domain/core/entities"
	pkgerrors "ixp-backend/pkg/errors"
	"ixp-backend/pkg/utils"
)

// IntentCriteria filters intents with AND semantics across provided fields.
// A nil Crawlable matches both crawlable and non-crawlable intents; an
// intent matches Tags only when it carries every requested tag.
type IntentCriteria struct {
	Crawlable *bool
	Category  string
	Tags      []string
}

// IntentRegistry is the keyed store of intent definitions. Registration is
// an administrative, low-frequency operation; the RWMutex keeps rare
// mutations safe against concurrent resolve-time reads.
type IntentRegistry struct {
	mu      sync.RWMutex
	intents map[string]*entities.IntentDefinition
	order   []string
}

// NewIntentRegistry creates an empty intent registry.
func NewIntentRegistry() *IntentRegistry {
	return &IntentRegistry{
		intents: make(map[string]*entities.IntentDefinition),
	}
}

// Add registers an intent definition. It fails with DUPLICATE_NAME when the
// name is taken and INVALID_DEFINITION when the definition is malformed.
// The mapped component is deliberately not checked here: forward
// declarations are allowed and resolved lazily at resolve time.
func (r *IntentRegistry) Add(def *entities.IntentDefinition) error {
	if def == nil {
		return pkgerrors.NewValidationError(pkgerrors.CodeInvalidDefinition, "intent definition is nil")
	}
	if err := utils.ValidateStruct(def); err != nil {
		return pkgerrors.NewValidationError(
			pkgerrors.CodeInvalidDefinition,
			fmt.Sprintf("invalid intent definition: %v", err),
		)
	}
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.intents[def.Name]; exists {
		return pkgerrors.NewConflictError(
			pkgerrors.CodeDuplicateName,
			fmt.Sprintf("intent %q is already registered", def.Name),
		)
	}
	r.intents[def.Name] = def.Clone()
	r.order = append(r.order, def.Name)
	return nil
}

// Get returns the intent with the given name, or false.
func (r *IntentRegistry) Get(name string) (*entities.IntentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.intents[name]
	if !ok {
		return nil, false
	}
	return def.Clone(), true
}

// GetAll returns every registered intent in insertion order.
func (r *IntentRegistry) GetAll() []*entities.IntentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*entities.IntentDefinition, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.intents[name].Clone())
	}
	return all
}

// Remove deletes an intent and reports whether it existed.
func (r *IntentRegistry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.intents[name]; !exists {
		return false
	}
	delete(r.intents, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// FindByCriteria returns all intents matching every provided filter, in
// insertion order.
func (r *IntentRegistry) FindByCriteria(criteria IntentCriteria) []*entities.IntentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entities.IntentDefinition
	for _, name := range r.order {
		def := r.intents[name]
		if criteria.Crawlable != nil && def.Crawlable != *criteria.Crawlable {
			continue
		}
		if criteria.Category != "" && def.Category != criteria.Category {
			continue
		}
		if !hasAllTags(def, criteria.Tags) {
			continue
		}
		matched = append(matched, def.Clone())
	}
	return matched
}

// Len returns the number of registered intents.
func (r *IntentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.intents)
}

func hasAllTags(def *entities.IntentDefinition, tags []string) bool {
	for _, tag := range tags {
		if !def.HasTag(tag) {
			return false
		}
	}
	return true
}
