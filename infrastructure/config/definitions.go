package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/schema"
)

// StaticSourceDefinition declares a crawler data source whose records ship
// inside the definitions file. Useful for small curated datasets and as the
// reference paging behavior for source authors.
type StaticSourceDefinition struct {
	Name         string                   `json:"name" yaml:"name"`
	Version      string                   `json:"version" yaml:"version"`
	Description  string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled      *bool                    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	RecordSchema *schema.Schema           `json:"recordSchema" yaml:"recordSchema"`
	Records      []map[string]interface{} `json:"records" yaml:"records"`
	Config       entities.SourceConfig    `json:"config,omitempty" yaml:"config,omitempty"`
}

// IsEnabled defaults to true when the flag is omitted.
func (d *StaticSourceDefinition) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// Definitions is the startup registration payload: every intent, component,
// and static data source the server owns.
type Definitions struct {
	Intents       []*entities.IntentDefinition    `json:"intents" yaml:"intents"`
	Components    []*entities.ComponentDefinition `json:"components" yaml:"components"`
	StaticSources []*StaticSourceDefinition       `json:"staticSources" yaml:"staticSources"`
}

// LoadDefinitions reads a definitions file. YAML and JSON are both
// supported, chosen by extension.
func LoadDefinitions(path string) (*Definitions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions file %s: %w", path, err)
	}

	var defs Definitions
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, &defs); err != nil {
			return nil, fmt.Errorf("failed to parse definitions file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(raw, &defs); err != nil {
			return nil, fmt.Errorf("failed to parse definitions file %s: %w", path, err)
		}
	}

	return &defs, nil
}
