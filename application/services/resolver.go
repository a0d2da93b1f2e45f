// Package services implements the core orchestration of the server: intent
// resolution, component rendering, and crawler content aggregation.
package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ixp-backend/application/ports"
	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	"ixp-backend/domain/schema"
	pkgerrors "ixp-backend/pkg/errors"
)

// DefaultResolutionTTLSeconds applies when neither the intent nor the
// request override the cache hint.
const DefaultResolutionTTLSeconds = 300

// ResolveRequest is one intent resolution request.
type ResolveRequest struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
	Context    map[string]interface{} `json:"context,omitempty"`

	// TTLOverrideSeconds, when set, wins over the intent's TTL and the
	// default. Zero means "do not cache".
	TTLOverrideSeconds *int `json:"ttlOverrideSeconds,omitempty"`
}

// Resolver maps validated intent requests onto component references with
// merged render props. It is a pure function of the two registries plus at
// most one data provider call: no retries, no hidden mutable state.
type Resolver struct {
	intents    *registry.IntentRegistry
	components *registry.ComponentRegistry
	provider   ports.DataProvider
	defaultTTL int
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewResolver creates a resolver. provider may be nil when no data provider
// collaborator is configured.
func NewResolver(
	intents *registry.IntentRegistry,
	components *registry.ComponentRegistry,
	provider ports.DataProvider,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		intents:    intents,
		components: components,
		provider:   provider,
		defaultTTL: DefaultResolutionTTLSeconds,
		tracer:     otel.Tracer("ixp-backend/services"),
		logger:     logger,
	}
}

// ResolveIntent resolves a single intent request into a ResolutionRecord.
//
// Failure modes, in evaluation order: INTENT_NOT_FOUND for an unknown intent
// name, PARAMETER_VALIDATION_FAILED carrying every violation,
// COMPONENT_NOT_FOUND when the intent maps to an unregistered component (a
// server misconfiguration, distinct from a bad intent name), and
// DATA_PROVIDER_ERROR wrapping a collaborator failure verbatim.
func (s *Resolver) ResolveIntent(ctx context.Context, req ResolveRequest) (*entities.ResolutionRecord, error) {
	ctx, span := s.tracer.Start(ctx, "Resolver.ResolveIntent",
		trace.WithAttributes(attribute.String("ixp.intent", req.Name)),
	)
	defer span.End()

	record, err := s.resolve(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolution failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("ixp.component", record.ComponentName))
	span.SetStatus(codes.Ok, "")
	return record, nil
}

func (s *Resolver) resolve(ctx context.Context, req ResolveRequest) (*entities.ResolutionRecord, error) {
	intent, ok := s.intents.Get(req.Name)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(
			pkgerrors.CodeIntentNotFound,
			fmt.Sprintf("intent %q is not registered", req.Name),
		)
	}

	if intent.Deprecated {
		s.logger.Warn("resolving deprecated intent",
			zap.String("intent", intent.Name),
			zap.String("version", intent.Version),
		)
	}

	params := req.Parameters
	if params == nil {
		params = map[string]interface{}{}
	}
	if result := schema.Validate(params, intent.ParameterSchema); !result.Valid {
		return nil, newParameterValidationError(intent.Name, result.Violations)
	}

	component, ok := s.components.Get(intent.Component)
	if !ok {
		// The intent exists but points at nothing: an intent-author or
		// deployment bug, not a client mistake.
		return nil, pkgerrors.NewConfigurationError(
			pkgerrors.CodeComponentNotFound,
			fmt.Sprintf("intent %q maps to unregistered component %q", intent.Name, intent.Component),
		)
	}

	var providerData map[string]interface{}
	if s.provider != nil {
		data, err := s.provider.ResolveIntentData(ctx, intent, req.Context)
		if err != nil {
			// Never reclassified as a validation problem: operators need to
			// tell platform failures apart from intent-author mistakes.
			return nil, pkgerrors.NewProviderError(
				fmt.Sprintf("data provider failed for intent %q", intent.Name), err,
			)
		}
		providerData = data
	}

	props := mergeProps(component.DefaultProps(), providerData, params)

	return &entities.ResolutionRecord{
		IntentName:    intent.Name,
		ComponentName: component.Name,
		Framework:     component.Framework,
		ModuleURL:     component.RemoteURL,
		ExportName:    component.ExportName,
		Props:         props,
		Version:       component.Version,
		ResolvedAt:    time.Now().UTC(),
		TTLSeconds:    s.resolveTTL(intent, req),
		CacheHit:      false,
	}, nil
}

// resolveTTL picks the cache hint: request override, then the intent's TTL,
// then the default. Zero means "do not cache"; intents opt out with a
// negative TTL since zero is their "unset".
func (s *Resolver) resolveTTL(intent *entities.IntentDefinition, req ResolveRequest) int {
	if req.TTLOverrideSeconds != nil {
		if *req.TTLOverrideSeconds <= 0 {
			return 0
		}
		return *req.TTLOverrideSeconds
	}
	if intent.TTLSeconds < 0 {
		return 0
	}
	if intent.TTLSeconds > 0 {
		return intent.TTLSeconds
	}
	return s.defaultTTL
}

// mergeProps applies precedence defaults < provider data < request
// parameters. Caller-supplied values always win over stale provider
// defaults.
func mergeProps(defaults, providerData, params map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(defaults)+len(providerData)+len(params))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range providerData {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

func newParameterValidationError(intentName string, violations []schema.Violation) error {
	details := make([]map[string]interface{}, 0, len(violations))
	for _, v := range violations {
		details = append(details, map[string]interface{}{
			"path":    v.Path,
			"keyword": v.Keyword,
			"message": v.Message,
		})
	}
	return pkgerrors.NewValidationError(
		pkgerrors.CodeParameterInvalid,
		fmt.Sprintf("parameters for intent %q failed validation", intentName),
	).WithDetails(details)
}
