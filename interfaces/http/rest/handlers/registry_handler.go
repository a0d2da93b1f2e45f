package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	"ixp-backend/pkg/common"
	pkgerrors "ixp-backend/pkg/errors"
)

// RegistryHandler serves registry dumps and the admin mutation API.
type RegistryHandler struct {
	intents    *registry.IntentRegistry
	components *registry.ComponentRegistry
	sources    *registry.SourceRegistry
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(
	intents *registry.IntentRegistry,
	components *registry.ComponentRegistry,
	sources *registry.SourceRegistry,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *RegistryHandler {
	return &RegistryHandler{
		intents:    intents,
		components: components,
		sources:    sources,
		errors:     errorHandler,
		logger:     logger,
	}
}

// ListIntents handles GET /ixp/intents. Optional query filters: crawlable,
// category, tags (comma-separated), combined with AND semantics.
func (h *RegistryHandler) ListIntents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria := registry.IntentCriteria{Category: query.Get("category")}
	if raw := query.Get("crawlable"); raw != "" {
		crawlable, err := strconv.ParseBool(raw)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "INVALID_QUERY", "crawlable must be a boolean")
			return
		}
		criteria.Crawlable = &crawlable
	}
	if raw := query.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				criteria.Tags = append(criteria.Tags, trimmed)
			}
		}
	}

	var intents []*entities.IntentDefinition
	if criteria.Crawlable == nil && criteria.Category == "" && len(criteria.Tags) == 0 {
		intents = h.intents.GetAll()
	} else {
		intents = h.intents.FindByCriteria(criteria)
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"intents": intents,
		"total":   len(intents),
	})
}

// ListComponents handles GET /ixp/components
func (h *RegistryHandler) ListComponents(w http.ResponseWriter, r *http.Request) {
	components := h.components.GetAll()
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"components": components,
		"total":      len(components),
	})
}

// AddIntent handles POST /ixp/admin/intents
func (h *RegistryHandler) AddIntent(w http.ResponseWriter, r *http.Request) {
	var def entities.IntentDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	if err := h.intents.Add(&def); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.logger.Info("intent registered", zap.String("intent", def.Name), zap.String("version", def.Version))
	common.RespondJSON(w, http.StatusCreated, common.APIResponse{Success: true, Data: &def})
}

// RemoveIntent handles DELETE /ixp/admin/intents/{name}
func (h *RegistryHandler) RemoveIntent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.intents.Remove(name) {
		common.RespondError(w, http.StatusNotFound, pkgerrors.CodeIntentNotFound, "intent "+name+" is not registered")
		return
	}
	h.logger.Info("intent removed", zap.String("intent", name))
	common.RespondJSON(w, http.StatusOK, common.APIResponse{Success: true})
}

// AddComponent handles POST /ixp/admin/components
func (h *RegistryHandler) AddComponent(w http.ResponseWriter, r *http.Request) {
	var def entities.ComponentDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	if err := h.components.Add(&def); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.logger.Info("component registered", zap.String("component", def.Name), zap.String("version", def.Version))
	common.RespondJSON(w, http.StatusCreated, common.APIResponse{Success: true, Data: &def})
}

// RemoveComponent handles DELETE /ixp/admin/components/{name}
func (h *RegistryHandler) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.components.Remove(name) {
		common.RespondError(w, http.StatusNotFound, pkgerrors.CodeComponentNotFound, "component "+name+" is not registered")
		return
	}
	h.logger.Info("component removed", zap.String("component", name))
	common.RespondJSON(w, http.StatusOK, common.APIResponse{Success: true})
}

// SetSourceEnabled handles PUT /ixp/admin/sources/{name}/enabled
func (h *RegistryHandler) SetSourceEnabled(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	if !h.sources.SetEnabled(name, body.Enabled) {
		common.RespondError(w, http.StatusNotFound, pkgerrors.CodeInvalidSource, "data source "+name+" is not registered")
		return
	}
	h.logger.Info("data source toggled", zap.String("source", name), zap.Bool("enabled", body.Enabled))
	common.RespondJSON(w, http.StatusOK, common.APIResponse{Success: true})
}
