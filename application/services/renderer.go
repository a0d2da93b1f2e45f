package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	pkgerrors "ixp-backend/pkg/errors"
)

// RenderRequest asks for an HTML artifact referencing one component.
type RenderRequest struct {
	ComponentName string                 `json:"componentName"`
	Props         map[string]interface{} `json:"props"`
	RequestID     string                 `json:"requestId,omitempty"`
}

// PageOptions configures the full document shell around an artifact.
type PageOptions struct {
	Title string
	Lang  string
}

// Renderer turns component references into HTML artifacts. The emitted HTML
// never interpolates props as executable source: props travel as an escaped
// JSON blob that a separate client-side runtime reads, so the server side is
// injection-free by construction and never executes remote code.
type Renderer struct {
	components *registry.ComponentRegistry
	runtimeURL string
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewRenderer creates a renderer. runtimeURL locates the client-side loader
// script referenced from generated pages.
func NewRenderer(components *registry.ComponentRegistry, runtimeURL string, logger *zap.Logger) *Renderer {
	if runtimeURL == "" {
		runtimeURL = "/ixp/runtime.js"
	}
	return &Renderer{
		components: components,
		runtimeURL: runtimeURL,
		tracer:     otel.Tracer("ixp-backend/services"),
		logger:     logger,
	}
}

// Render produces an HTML fragment for the named component: a mount
// container with a declarative loading indicator and error fallback, the
// props JSON blob, a bootstrap config blob, and a module script tag for the
// remote bundle. Failures: COMPONENT_NOT_FOUND, RENDER_FAILED.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) (*entities.RenderArtifact, error) {
	_, span := r.tracer.Start(ctx, "Renderer.Render",
		trace.WithAttributes(attribute.String("ixp.component", req.ComponentName)),
	)
	defer span.End()

	artifact, err := r.render(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return artifact, nil
}

func (r *Renderer) render(req RenderRequest) (*entities.RenderArtifact, error) {
	start := time.Now()

	component, ok := r.components.Get(req.ComponentName)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(
			pkgerrors.CodeComponentNotFound,
			fmt.Sprintf("component %q is not registered", req.ComponentName),
		)
	}

	r.checkBundleBudget(component)

	props := req.Props
	if props == nil {
		props = map[string]interface{}{}
	}
	propsJSON, err := marshalForHTML(props)
	if err != nil {
		return nil, pkgerrors.NewInternalError(
			fmt.Sprintf("failed to serialize props for component %q", component.Name), err,
		).WithCode(pkgerrors.CodeRenderFailed)
	}

	containerID := "ixp-root-" + uuid.NewString()[:8]
	bootstrap := bootstrapConfig{
		ContainerID: containerID,
		ModuleURL:   component.RemoteURL,
		ExportName:  component.ExportName,
		Framework:   component.Framework,
		Sandboxed:   component.Security.Sandboxed,
	}
	if component.Fallback != nil {
		bootstrap.FallbackURL = component.Fallback.RemoteURL
		bootstrap.FallbackExport = component.Fallback.ExportName
	}
	configJSON, err := marshalForHTML(bootstrap)
	if err != nil {
		return nil, pkgerrors.NewInternalError(
			fmt.Sprintf("failed to serialize bootstrap config for component %q", component.Name), err,
		).WithCode(pkgerrors.CodeRenderFailed)
	}

	displayName := html.EscapeString(component.Name)

	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="ixp-component" data-component="%s" data-framework="%s">`,
		containerID, displayName, html.EscapeString(component.Framework))
	b.WriteString("\n")
	fmt.Fprintf(&b, `  <div class="ixp-loading" role="status" aria-live="polite">Loading %s&hellip;</div>`, displayName)
	b.WriteString("\n")
	fmt.Fprintf(&b, `  <template class="ixp-error"><div class="ixp-error-message" role="alert">Failed to load %s. <button type="button" data-ixp-retry>Retry</button></div></template>`, displayName)
	b.WriteString("\n</div>\n")
	fmt.Fprintf(&b, `<script type="application/json" id="%s-props">%s</script>`, containerID, propsJSON)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<script type="application/json" id="%s-config">%s</script>`, containerID, configJSON)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<script src="%s" type="module" defer></script>`, html.EscapeString(component.RemoteURL))
	b.WriteString("\n")

	return &entities.RenderArtifact{
		HTML:       b.String(),
		BundleURL:  component.RemoteURL,
		ExportName: component.ExportName,
		Context: entities.RenderContext{
			ContainerID: containerID,
			RequestID:   req.RequestID,
		},
		Duration: time.Since(start),
	}, nil
}

// GeneratePage wraps a render artifact in a full document shell: doctype,
// meta, a CSP derived from the component's allowed origins, and the runtime
// bootstrap script that mounts the named export into the container.
func (r *Renderer) GeneratePage(ctx context.Context, req RenderRequest, opts PageOptions) (string, *entities.RenderArtifact, error) {
	component, ok := r.components.Get(req.ComponentName)
	if !ok {
		return "", nil, pkgerrors.NewNotFoundError(
			pkgerrors.CodeComponentNotFound,
			fmt.Sprintf("component %q is not registered", req.ComponentName),
		)
	}

	artifact, err := r.Render(ctx, req)
	if err != nil {
		return "", nil, err
	}

	title := opts.Title
	if title == "" {
		title = component.Name
	}
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}

	page := fmt.Sprintf(`<!doctype html>
<html lang="%s">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <meta http-equiv="Content-Security-Policy" content="%s" />
    <title>%s</title>
  </head>
  <body>
%s    <script src="%s" type="module" defer></script>
  </body>
</html>
`, lang, contentSecurityPolicy(component), html.EscapeString(title), indent(artifact.HTML, "    "), html.EscapeString(r.runtimeURL))

	return page, artifact, nil
}

// checkBundleBudget logs, never rejects. Whether the budget should be
// enforced is an open product question; until then it stays advisory.
func (r *Renderer) checkBundleBudget(component *entities.ComponentDefinition) {
	max := component.Security.MaxBundleSizeBytes
	if max > 0 && component.BundleSizeBytes > max {
		r.logger.Warn("component bundle exceeds declared size budget",
			zap.String("component", component.Name),
			zap.Int64("bundleSizeBytes", component.BundleSizeBytes),
			zap.Int64("maxBundleSizeBytes", max),
		)
	}
}

// bootstrapConfig is the declarative handoff to the client-side loader.
type bootstrapConfig struct {
	ContainerID    string `json:"containerId"`
	ModuleURL      string `json:"moduleUrl"`
	ExportName     string `json:"exportName"`
	Framework      string `json:"framework"`
	Sandboxed      bool   `json:"sandboxed"`
	FallbackURL    string `json:"fallbackUrl,omitempty"`
	FallbackExport string `json:"fallbackExport,omitempty"`
}

// marshalForHTML serializes a value for embedding inside a script tag.
// Escaping "</" keeps a hostile string prop from closing the tag early.
func marshalForHTML(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(raw), "</", `<\/`), nil
}

// contentSecurityPolicy derives a CSP from the component's allowed origins
// and bundle origin. Inline eval is excluded unless the policy opts in.
func contentSecurityPolicy(component *entities.ComponentDefinition) string {
	scriptSrc := []string{"'self'"}

	origins := component.Origins()
	if origins.IsWildcard() {
		scriptSrc = append(scriptSrc, "*")
	} else {
		for _, origin := range origins.Values() {
			scriptSrc = append(scriptSrc, origin)
		}
	}
	if bundleOrigin := originOf(component.RemoteURL); bundleOrigin != "" && !origins.IsWildcard() {
		scriptSrc = appendUnique(scriptSrc, bundleOrigin)
	}
	if component.Fallback != nil && !origins.IsWildcard() {
		if fallbackOrigin := originOf(component.Fallback.RemoteURL); fallbackOrigin != "" {
			scriptSrc = appendUnique(scriptSrc, fallbackOrigin)
		}
	}
	if component.Security.AllowEval {
		scriptSrc = append(scriptSrc, "'unsafe-eval'")
	}

	return fmt.Sprintf("default-src 'self'; script-src %s; connect-src %s",
		strings.Join(scriptSrc, " "), strings.Join(scriptSrc, " "))
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
