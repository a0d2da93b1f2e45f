package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	pkgerrors "ixp-backend/pkg/errors"
)

func newRendererFixture(t *testing.T, defs ...*entities.ComponentDefinition) *Renderer {
	t.Helper()

	components := registry.NewComponentRegistry()
	for _, def := range defs {
		require.NoError(t, components.Add(def))
	}
	return NewRenderer(components, "/ixp/runtime.js", zap.NewNop())
}

func cardComponent() *entities.ComponentDefinition {
	return &entities.ComponentDefinition{
		Name:           "ProductCard",
		Framework:      "react",
		RemoteURL:      "https://cdn.example.com/product-card.js",
		ExportName:     "ProductCard",
		Version:        "2.1.0",
		AllowedOrigins: []string{"https://app.example.com"},
	}
}

func TestRenderer_Render_ProducesArtifact(t *testing.T) {
	renderer := newRendererFixture(t, cardComponent())

	artifact, err := renderer.Render(context.Background(), RenderRequest{
		ComponentName: "ProductCard",
		Props:         map[string]interface{}{"title": "Widget", "price": 9.99},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/product-card.js", artifact.BundleURL)
	assert.Equal(t, "ProductCard", artifact.ExportName)
	assert.True(t, strings.HasPrefix(artifact.Context.ContainerID, "ixp-root-"))

	html := artifact.HTML
	assert.Contains(t, html, `id="`+artifact.Context.ContainerID+`"`)
	assert.Contains(t, html, `class="ixp-loading"`)
	assert.Contains(t, html, `class="ixp-error"`)
	assert.Contains(t, html, `data-ixp-retry`)
	assert.Contains(t, html, `<script type="application/json" id="`+artifact.Context.ContainerID+`-props">`)
	assert.Contains(t, html, `"title":"Widget"`)
	assert.Contains(t, html, `<script src="https://cdn.example.com/product-card.js" type="module" defer>`)
}

func TestRenderer_Render_UniqueContainerIDs(t *testing.T) {
	renderer := newRendererFixture(t, cardComponent())
	req := RenderRequest{ComponentName: "ProductCard"}

	first, err := renderer.Render(context.Background(), req)
	require.NoError(t, err)
	second, err := renderer.Render(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Context.ContainerID, second.Context.ContainerID)
}

func TestRenderer_Render_EscapesScriptBreakout(t *testing.T) {
	renderer := newRendererFixture(t, cardComponent())

	artifact, err := renderer.Render(context.Background(), RenderRequest{
		ComponentName: "ProductCard",
		Props: map[string]interface{}{
			"title": `</script><script>alert("xss")</script>`,
		},
	})

	require.NoError(t, err)
	// The hostile payload must not be able to close the props script tag.
	assert.NotContains(t, artifact.HTML, `</script><script>`)
	assert.Contains(t, artifact.HTML, `</script>`)
}

func TestRenderer_Render_ComponentNotFound(t *testing.T) {
	renderer := newRendererFixture(t)

	_, err := renderer.Render(context.Background(), RenderRequest{ComponentName: "Ghost"})

	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeComponentNotFound))
}

func TestRenderer_Render_NilPropsBecomeEmptyObject(t *testing.T) {
	renderer := newRendererFixture(t, cardComponent())

	artifact, err := renderer.Render(context.Background(), RenderRequest{ComponentName: "ProductCard"})

	require.NoError(t, err)
	assert.Contains(t, artifact.HTML, `-props">{}</script>`)
}

func TestRenderer_Render_FallbackInBootstrapConfig(t *testing.T) {
	def := cardComponent()
	def.Fallback = &entities.Fallback{
		RemoteURL:  "https://backup.example.com/product-card.js",
		ExportName: "LegacyCard",
	}
	renderer := newRendererFixture(t, def)

	artifact, err := renderer.Render(context.Background(), RenderRequest{ComponentName: "ProductCard"})

	require.NoError(t, err)
	assert.Contains(t, artifact.HTML, `"fallbackUrl":"https://backup.example.com/product-card.js"`)
	assert.Contains(t, artifact.HTML, `"fallbackExport":"LegacyCard"`)
}

func TestRenderer_GeneratePage_FullShell(t *testing.T) {
	renderer := newRendererFixture(t, cardComponent())

	page, artifact, err := renderer.GeneratePage(context.Background(),
		RenderRequest{ComponentName: "ProductCard"},
		PageOptions{Title: "Product <Preview>"},
	)

	require.NoError(t, err)
	require.NotNil(t, artifact)
	assert.True(t, strings.HasPrefix(page, "<!doctype html>"))
	assert.Contains(t, page, `<html lang="en">`)
	assert.Contains(t, page, "<title>Product &lt;Preview&gt;</title>")
	assert.Contains(t, page, artifact.Context.ContainerID)
	assert.Contains(t, page, `<script src="/ixp/runtime.js" type="module" defer>`)
}

func TestRenderer_GeneratePage_CSPFromAllowedOrigins(t *testing.T) {
	renderer := newRendererFixture(t, cardComponent())

	page, _, err := renderer.GeneratePage(context.Background(),
		RenderRequest{ComponentName: "ProductCard"}, PageOptions{})

	require.NoError(t, err)
	assert.Contains(t, page, `http-equiv="Content-Security-Policy"`)
	assert.Contains(t, page, "script-src 'self' https://app.example.com https://cdn.example.com")
	assert.NotContains(t, page, "'unsafe-eval'")
}

func TestRenderer_GeneratePage_CSPWildcardAndEval(t *testing.T) {
	def := cardComponent()
	def.AllowedOrigins = []string{"*"}
	def.Security.AllowEval = true
	renderer := newRendererFixture(t, def)

	page, _, err := renderer.GeneratePage(context.Background(),
		RenderRequest{ComponentName: "ProductCard"}, PageOptions{})

	require.NoError(t, err)
	assert.Contains(t, page, "script-src 'self' * 'unsafe-eval'")
}

func TestRenderer_GeneratePage_ComponentNotFound(t *testing.T) {
	renderer := newRendererFixture(t)

	_, _, err := renderer.GeneratePage(context.Background(),
		RenderRequest{ComponentName: "Ghost"}, PageOptions{})

	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeComponentNotFound))
}
