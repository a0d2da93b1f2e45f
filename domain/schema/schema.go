// Package schema implements the subset of JSON Schema used by intent
// parameter schemas, component props schemas, and crawler record schemas.
package schema

import (
	"fmt"
)

// Type identifies a schema node kind.
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	// TypeAny accepts every value. Used for passthrough props.
	TypeAny Type = "any"
)

// Schema is a recursive schema node. A node describes exactly one of the
// supported kinds; object and array nodes recurse through Properties and
// Items respectively.
type Schema struct {
	Type        Type   `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Object vocabulary
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array vocabulary
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Scalar vocabulary
	Enum      []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`
	Minimum   *float64      `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum   *float64      `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MinLength *int          `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int          `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string        `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Default feeds the resolver's props merge; it is not a constraint.
	Default interface{} `json:"default,omitempty" yaml:"default,omitempty"`
}

// Object is a convenience constructor for an object schema.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

// String is a convenience constructor for a string schema.
func String() *Schema { return &Schema{Type: TypeString} }

// Number is a convenience constructor for a number schema.
func Number() *Schema { return &Schema{Type: TypeNumber} }

// Boolean is a convenience constructor for a boolean schema.
func Boolean() *Schema { return &Schema{Type: TypeBoolean} }

// Array is a convenience constructor for an array schema.
func Array(items *Schema) *Schema { return &Schema{Type: TypeArray, Items: items} }

// WithDefault sets the node's default value.
func (s *Schema) WithDefault(v interface{}) *Schema {
	s.Default = v
	return s
}

// IsValid checks the schema definition itself: every node must carry a known
// type and recurse through well-formed children. Registries use this to
// reject malformed definitions at registration time.
func (s *Schema) IsValid() error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case TypeObject:
		for name, prop := range s.Properties {
			if prop == nil {
				return fmt.Errorf("property %q: nil schema", name)
			}
			if err := prop.IsValid(); err != nil {
				return fmt.Errorf("property %q: %w", name, err)
			}
		}
		for _, req := range s.Required {
			if len(s.Properties) > 0 {
				if _, ok := s.Properties[req]; !ok {
					return fmt.Errorf("required property %q is not declared", req)
				}
			}
		}
	case TypeArray:
		if s.Items != nil {
			if err := s.Items.IsValid(); err != nil {
				return fmt.Errorf("items: %w", err)
			}
		}
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeAny:
	case "":
		return fmt.Errorf("missing schema type")
	default:
		return fmt.Errorf("unknown schema type %q", s.Type)
	}
	return nil
}

// Defaults collects the default values declared on an object schema's
// immediate properties. Non-object schemas yield an empty map.
func (s *Schema) Defaults() map[string]interface{} {
	defaults := make(map[string]interface{})
	if s == nil || s.Type != TypeObject {
		return defaults
	}
	for name, prop := range s.Properties {
		if prop != nil && prop.Default != nil {
			defaults[name] = prop.Default
		}
	}
	return defaults
}
