// Package handlers implements the REST endpoints of the IXP surface.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ixp-backend/application/services"
	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	"ixp-backend/infrastructure/observability"
	"ixp-backend/pkg/common"
	pkgerrors "ixp-backend/pkg/errors"
)

// IntentResolver is what the render endpoint needs from the resolution
// pipeline. Satisfied by the plain resolver and its caching decorator.
type IntentResolver interface {
	ResolveIntent(ctx context.Context, req services.ResolveRequest) (*entities.ResolutionRecord, error)
}

// RenderHandler serves intent resolution and component page rendering.
type RenderHandler struct {
	resolver   IntentResolver
	renderer   *services.Renderer
	intents    *registry.IntentRegistry
	components *registry.ComponentRegistry
	errors     *pkgerrors.ErrorHandler
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewRenderHandler creates a new render handler. metrics may be nil.
func NewRenderHandler(
	resolver IntentResolver,
	renderer *services.Renderer,
	intents *registry.IntentRegistry,
	components *registry.ComponentRegistry,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *RenderHandler {
	return &RenderHandler{
		resolver:   resolver,
		renderer:   renderer,
		intents:    intents,
		components: components,
		errors:     errorHandler,
		metrics:    metrics,
		logger:     logger,
	}
}

// RenderRequestBody is the body of POST /ixp/render.
type RenderRequestBody struct {
	Intent struct {
		Name       string                 `json:"name"`
		Parameters map[string]interface{} `json:"parameters"`
	} `json:"intent"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// RenderResponse is the success envelope of POST /ixp/render.
type RenderResponse struct {
	Success   bool              `json:"success"`
	Component ComponentResponse `json:"component"`
	TTL       int               `json:"ttl"`
	CacheHit  bool              `json:"cacheHit"`
}

// ComponentResponse is the resolved component reference on the wire.
type ComponentResponse struct {
	Name       string                 `json:"name"`
	Framework  string                 `json:"framework"`
	RemoteURL  string                 `json:"remoteUrl"`
	ExportName string                 `json:"exportName"`
	Props      map[string]interface{} `json:"props"`
	Version    string                 `json:"version"`
}

// Resolve handles POST /ixp/render
func (h *RenderHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var body RenderRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	if body.Intent.Name == "" {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "intent.name is required")
		return
	}

	if origin := r.Header.Get("Origin"); origin != "" {
		if !h.originAllowedForIntent(body.Intent.Name, origin) {
			common.RespondError(w, http.StatusForbidden, "ORIGIN_NOT_ALLOWED",
				"origin is not allowed to embed this component")
			return
		}
	}

	record, err := h.resolver.ResolveIntent(r.Context(), services.ResolveRequest{
		Name:       body.Intent.Name,
		Parameters: body.Intent.Parameters,
		Context:    body.Context,
	})
	if err != nil {
		h.metrics.ObserveResolution("error")
		h.errors.Handle(w, r, err)
		return
	}
	h.metrics.ObserveResolution("success")

	common.RespondJSON(w, http.StatusOK, RenderResponse{
		Success: true,
		Component: ComponentResponse{
			Name:       record.ComponentName,
			Framework:  record.Framework,
			RemoteURL:  record.ModuleURL,
			ExportName: record.ExportName,
			Props:      record.Props,
			Version:    record.Version,
		},
		TTL:      record.TTLSeconds,
		CacheHit: record.CacheHit,
	})
}

// Page handles GET /ixp/render/{component}: a full HTML preview page for a
// component, props passed as a JSON "props" query parameter.
func (h *RenderHandler) Page(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "component")

	if origin := r.Header.Get("Origin"); origin != "" {
		if !h.components.IsOriginAllowed(name, origin) {
			common.RespondError(w, http.StatusForbidden, "ORIGIN_NOT_ALLOWED",
				"origin is not allowed to embed this component")
			return
		}
	}

	props := map[string]interface{}{}
	if raw := r.URL.Query().Get("props"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &props); err != nil {
			common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "props must be a JSON object")
			return
		}
	}

	page, artifact, err := h.renderer.GeneratePage(r.Context(), services.RenderRequest{
		ComponentName: name,
		Props:         props,
		RequestID:     chimiddleware.GetReqID(r.Context()),
	}, services.PageOptions{Title: r.URL.Query().Get("title")})
	if err != nil {
		h.metrics.ObserveRender("error")
		h.errors.Handle(w, r, err)
		return
	}
	h.metrics.ObserveRender("success")

	h.logger.Debug("rendered component page",
		zap.String("component", name),
		zap.String("containerID", artifact.Context.ContainerID),
		zap.Duration("duration", artifact.Duration),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

// originAllowedForIntent maps an intent to its component before the origin
// check. Unknown intents and unmapped components pass through so resolution
// reports the precise INTENT_NOT_FOUND or COMPONENT_NOT_FOUND instead of a
// misleading 403.
func (h *RenderHandler) originAllowedForIntent(intentName, origin string) bool {
	intent, ok := h.intents.Get(intentName)
	if !ok {
		return true
	}
	if _, ok := h.components.Get(intent.Component); !ok {
		return true
	}
	return h.components.IsOriginAllowed(intent.Component, origin)
}
