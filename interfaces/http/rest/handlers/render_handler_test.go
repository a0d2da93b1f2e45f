package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ixp-backend/application/services"
	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	"ixp-backend/domain/schema"
	pkgerrors "ixp-backend/pkg/errors"
)

type renderFixture struct {
	handler    *RenderHandler
	intents    *registry.IntentRegistry
	components *registry.ComponentRegistry
	router     chi.Router
}

func newRenderFixture(t *testing.T) *renderFixture {
	t.Helper()

	logger := zap.NewNop()
	intents := registry.NewIntentRegistry()
	components := registry.NewComponentRegistry()

	require.NoError(t, components.Add(&entities.ComponentDefinition{
		Name:           "Greeter",
		Framework:      "react",
		RemoteURL:      "https://cdn.example.com/greeter.js",
		ExportName:     "Greeter",
		Version:        "1.0.0",
		AllowedOrigins: []string{"https://app.example.com"},
		PropsSchema: schema.Object(map[string]*schema.Schema{
			"greeting": schema.String().WithDefault("hello"),
			"name":     schema.String(),
		}),
	}))
	require.NoError(t, intents.Add(&entities.IntentDefinition{
		Name:      "greet",
		Component: "Greeter",
		Version:   "1.0.0",
		ParameterSchema: schema.Object(map[string]*schema.Schema{
			"name": schema.String(),
		}, "name"),
	}))

	resolver := services.NewResolver(intents, components, nil, logger)
	renderer := services.NewRenderer(components, "/ixp/runtime.js", logger)
	handler := NewRenderHandler(resolver, renderer, intents, components,
		pkgerrors.NewErrorHandler(logger, false), nil, logger)

	router := chi.NewRouter()
	router.Post("/ixp/render", handler.Resolve)
	router.Get("/ixp/render/{component}", handler.Page)

	return &renderFixture{
		handler:    handler,
		intents:    intents,
		components: components,
		router:     router,
	}
}

func postRender(t *testing.T, fixture *renderFixture, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/ixp/render", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, r)
	return w
}

func TestRenderHandler_Resolve_Success(t *testing.T) {
	fixture := newRenderFixture(t)

	w := postRender(t, fixture, `{"intent":{"name":"greet","parameters":{"name":"Ada"}}}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Greeter", resp.Component.Name)
	assert.Equal(t, "https://cdn.example.com/greeter.js", resp.Component.RemoteURL)
	assert.Equal(t, "Greeter", resp.Component.ExportName)
	assert.Equal(t, map[string]interface{}{"name": "Ada", "greeting": "hello"}, resp.Component.Props)
	assert.Greater(t, resp.TTL, 0)
	assert.False(t, resp.CacheHit)
}

func TestRenderHandler_Resolve_IntentNotFound(t *testing.T) {
	fixture := newRenderFixture(t)

	w := postRender(t, fixture, `{"intent":{"name":"nonexistent"}}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), pkgerrors.CodeIntentNotFound)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRenderHandler_Resolve_ValidationFailureListsViolations(t *testing.T) {
	fixture := newRenderFixture(t)

	w := postRender(t, fixture, `{"intent":{"name":"greet","parameters":{"name":123}}}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, pkgerrors.CodeParameterInvalid, resp.Error.Code)

	// Details is the violation array itself, not an object wrapping it.
	violations, ok := resp.Error.Details.([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, violations)
	entry, ok := violations[0].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, entry, "path")
	assert.Contains(t, entry, "keyword")
}

func TestRenderHandler_Resolve_UnmappedComponentIs404(t *testing.T) {
	fixture := newRenderFixture(t)
	require.NoError(t, fixture.intents.Add(&entities.IntentDefinition{
		Name:      "orphaned",
		Component: "MissingComponent",
		Version:   "1.0.0",
	}))

	w := postRender(t, fixture, `{"intent":{"name":"orphaned"}}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), pkgerrors.CodeComponentNotFound)
}

func TestRenderHandler_Resolve_OriginEnforced(t *testing.T) {
	fixture := newRenderFixture(t)

	allowed := postRender(t, fixture, `{"intent":{"name":"greet","parameters":{"name":"Ada"}}}`,
		map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, http.StatusOK, allowed.Code)

	denied := postRender(t, fixture, `{"intent":{"name":"greet","parameters":{"name":"Ada"}}}`,
		map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Contains(t, denied.Body.String(), "ORIGIN_NOT_ALLOWED")
}

func TestRenderHandler_Resolve_UnknownIntentBeatsOriginCheck(t *testing.T) {
	fixture := newRenderFixture(t)

	// A 403 would mislead here; the precise failure is the unknown intent.
	w := postRender(t, fixture, `{"intent":{"name":"nonexistent"}}`,
		map[string]string{"Origin": "https://evil.example.com"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), pkgerrors.CodeIntentNotFound)
}

func TestRenderHandler_Resolve_BadBody(t *testing.T) {
	fixture := newRenderFixture(t)

	malformed := postRender(t, fixture, `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, malformed.Code)

	missingName := postRender(t, fixture, `{"intent":{}}`, nil)
	assert.Equal(t, http.StatusBadRequest, missingName.Code)
	assert.Contains(t, missingName.Body.String(), "intent.name is required")
}

func TestRenderHandler_Page_ServesHTML(t *testing.T) {
	fixture := newRenderFixture(t)

	r := httptest.NewRequest(http.MethodGet,
		"/ixp/render/Greeter?props=%7B%22name%22%3A%22Ada%22%7D&title=Greeter+Preview", nil)
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "<title>Greeter Preview</title>")
	assert.Contains(t, body, `"name":"Ada"`)
	assert.Contains(t, body, "Content-Security-Policy")
}

func TestRenderHandler_Page_UnknownComponent(t *testing.T) {
	fixture := newRenderFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/ixp/render/Ghost", nil)
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), pkgerrors.CodeComponentNotFound)
}

func TestRenderHandler_Page_InvalidPropsParam(t *testing.T) {
	fixture := newRenderFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/ixp/render/Greeter?props=not-json", nil)
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
