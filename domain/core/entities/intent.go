package entities

import (
	"ixp-backend/domain/schema"
	pkgerrors "ixp-backend/pkg/errors"
)

// IntentDefinition describes a named user goal: the parameters it accepts
// and the component it maps to. The component name is resolved lazily at
// resolve time, so an intent may be registered before its component
// (forward declaration).
type IntentDefinition struct {
	Name            string         `json:"name" yaml:"name" validate:"required,min=1,max=128"`
	Description     string         `json:"description,omitempty" yaml:"description,omitempty"`
	ParameterSchema *schema.Schema `json:"parameterSchema,omitempty" yaml:"parameterSchema,omitempty"`
	Component       string         `json:"component" yaml:"component" validate:"required"`
	Version         string         `json:"version" yaml:"version" validate:"required"`
	Crawlable       bool           `json:"crawlable" yaml:"crawlable"`
	Category        string         `json:"category,omitempty" yaml:"category,omitempty"`
	Tags            []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated      bool           `json:"deprecated" yaml:"deprecated"`

	// TTLSeconds overrides the server-wide resolution TTL for this intent.
	// Zero means "use the default"; a negative value means "do not cache".
	TTLSeconds int `json:"ttlSeconds,omitempty" yaml:"ttlSeconds,omitempty"`
}

// Validate checks structural invariants beyond the struct tags.
func (d *IntentDefinition) Validate() error {
	if d.ParameterSchema != nil {
		if err := d.ParameterSchema.IsValid(); err != nil {
			return pkgerrors.NewValidationError(
				pkgerrors.CodeInvalidDefinition,
				"intent "+d.Name+": invalid parameter schema: "+err.Error(),
			)
		}
	}
	return nil
}

// HasTag reports whether the intent carries the given tag.
func (d *IntentDefinition) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep-enough copy for safe hand-out from the registry.
// Schemas are immutable after registration and shared by reference.
func (d *IntentDefinition) Clone() *IntentDefinition {
	copied := *d
	if d.Tags != nil {
		copied.Tags = make([]string, len(d.Tags))
		copy(copied.Tags, d.Tags)
	}
	return &copied
}
