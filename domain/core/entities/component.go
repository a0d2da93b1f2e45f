package entities

import (
	"ixp-backend/domain/core/valueobjects"
	"ixp-backend/domain/schema"
	pkgerrors "ixp-backend/pkg/errors"
)

// SecurityPolicy constrains how a client-side loader may treat the bundle.
// MaxBundleSizeBytes is advisory: a declared size above it is logged, never
// rejected.
type SecurityPolicy struct {
	AllowEval          bool  `json:"allowEval" yaml:"allowEval"`
	MaxBundleSizeBytes int64 `json:"maxBundleSizeBytes,omitempty" yaml:"maxBundleSizeBytes,omitempty"`
	Sandboxed          bool  `json:"sandboxed" yaml:"sandboxed"`
}

// PerformanceBudget carries declared performance metadata for operators.
type PerformanceBudget struct {
	TimeToInteractiveMs int64 `json:"timeToInteractiveMs,omitempty" yaml:"timeToInteractiveMs,omitempty"`
	GzippedSizeBytes    int64 `json:"gzippedSizeBytes,omitempty" yaml:"gzippedSizeBytes,omitempty"`
}

// Fallback references an alternative bundle the loader may fall back to.
type Fallback struct {
	RemoteURL  string `json:"remoteUrl" yaml:"remoteUrl" validate:"required,url"`
	ExportName string `json:"exportName" yaml:"exportName" validate:"required"`
}

// ComponentDefinition describes a remote, framework-tagged UI bundle and the
// metadata a client needs to load it safely. The server never fetches or
// executes the bundle; it only hands out references.
type ComponentDefinition struct {
	Name            string             `json:"name" yaml:"name" validate:"required,min=1,max=128"`
	Framework       string             `json:"framework" yaml:"framework" validate:"required"`
	RemoteURL       string             `json:"remoteUrl" yaml:"remoteUrl" validate:"required,url"`
	ExportName      string             `json:"exportName" yaml:"exportName" validate:"required"`
	PropsSchema     *schema.Schema     `json:"propsSchema,omitempty" yaml:"propsSchema,omitempty"`
	Version         string             `json:"version" yaml:"version" validate:"required"`
	AllowedOrigins  []string           `json:"allowedOrigins" yaml:"allowedOrigins" validate:"required,min=1"`
	BundleSizeBytes int64              `json:"bundleSizeBytes,omitempty" yaml:"bundleSizeBytes,omitempty"`
	Performance     *PerformanceBudget `json:"performance,omitempty" yaml:"performance,omitempty"`
	Security        SecurityPolicy     `json:"security" yaml:"security"`
	Fallback        *Fallback          `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Validate checks structural invariants beyond the struct tags.
func (d *ComponentDefinition) Validate() error {
	if _, err := valueobjects.NewAllowedOrigins(d.AllowedOrigins); err != nil {
		return pkgerrors.NewValidationError(
			pkgerrors.CodeInvalidDefinition,
			"component "+d.Name+": "+err.Error(),
		)
	}
	if d.PropsSchema != nil {
		if err := d.PropsSchema.IsValid(); err != nil {
			return pkgerrors.NewValidationError(
				pkgerrors.CodeInvalidDefinition,
				"component "+d.Name+": invalid props schema: "+err.Error(),
			)
		}
	}
	return nil
}

// Origins returns the component's allow-list as a value object. The
// definition is validated at registration, so construction cannot fail here.
func (d *ComponentDefinition) Origins() valueobjects.AllowedOrigins {
	origins, _ := valueobjects.NewAllowedOrigins(d.AllowedOrigins)
	return origins
}

// DefaultProps extracts the default values declared on the props schema.
func (d *ComponentDefinition) DefaultProps() map[string]interface{} {
	if d.PropsSchema == nil {
		return map[string]interface{}{}
	}
	return d.PropsSchema.Defaults()
}

// Clone returns a copy safe to hand out from the registry.
func (d *ComponentDefinition) Clone() *ComponentDefinition {
	copied := *d
	copied.AllowedOrigins = make([]string, len(d.AllowedOrigins))
	copy(copied.AllowedOrigins, d.AllowedOrigins)
	if d.Performance != nil {
		perf := *d.Performance
		copied.Performance = &perf
	}
	if d.Fallback != nil {
		fb := *d.Fallback
		copied.Fallback = &fb
	}
	return &copied
}
