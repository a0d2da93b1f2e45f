package entities

import "time"

// ResolutionRecord is the ephemeral output of resolving an intent request:
// a component reference plus merged render props. It is never persisted;
// caching, when any, is applied by an outer decorator using TTLSeconds.
type ResolutionRecord struct {
	IntentName    string                 `json:"intentName"`
	ComponentName string                 `json:"componentName"`
	Framework     string                 `json:"framework"`
	ModuleURL     string                 `json:"moduleUrl"`
	ExportName    string                 `json:"exportName"`
	Props         map[string]interface{} `json:"props"`
	Version       string                 `json:"version"`
	ResolvedAt    time.Time              `json:"resolvedAt"`

	// TTLSeconds is a caller-facing cache hint. Zero means "do not cache".
	TTLSeconds int  `json:"ttlSeconds"`
	CacheHit   bool `json:"cacheHit"`
}

// RenderContext identifies one render for client-side bootstrap and tracing.
type RenderContext struct {
	ContainerID string `json:"containerId"`
	RequestID   string `json:"requestId,omitempty"`
}

// RenderArtifact is the ephemeral output of rendering a component reference:
// an HTML fragment whose loading and error states are baked in, since the
// server cannot observe client-side load failures.
type RenderArtifact struct {
	HTML       string        `json:"html"`
	BundleURL  string        `json:"bundleUrl"`
	ExportName string        `json:"exportName"`
	Context    RenderContext `json:"context"`
	Duration   time.Duration `json:"duration"`
}
