// Package provider implements the DataProvider port against a remote HTTP
// collaborator. The circuit breaker lives here, outside the resolver's
// semantics: the core still makes exactly one call and never retries.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ixp-backend/application/ports"
	"ixp-backend/domain/core/entities"
)

// HTTPProvider talks to an external data provider service.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewHTTPProvider creates a provider client with a circuit breaker sized
// for an administrative collaborator: trip on sustained failure, probe
// again after a minute.
func NewHTTPProvider(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPProvider {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "data-provider",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("data provider circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger,
	}
}

var _ ports.DataProvider = (*HTTPProvider)(nil)

type resolveDataRequest struct {
	Intent  string                 `json:"intent"`
	Version string                 `json:"version"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// ResolveIntentData fetches provider-side props for an intent.
func (p *HTTPProvider) ResolveIntentData(ctx context.Context, intent *entities.IntentDefinition, requestContext map[string]interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(resolveDataRequest{
		Intent:  intent.Name,
		Version: intent.Version,
		Context: requestContext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider request: %w", err)
	}

	raw, err := p.execute(ctx, http.MethodPost, p.baseURL+"/resolve-intent-data", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid provider response: %w", err)
	}
	return data, nil
}

// GetCrawlerContent fetches one page of crawler records from the provider.
func (p *HTTPProvider) GetCrawlerContent(ctx context.Context, opts ports.ProviderContentOptions) (*ports.ProviderContent, error) {
	endpoint, err := url.Parse(p.baseURL + "/crawler-content")
	if err != nil {
		return nil, fmt.Errorf("invalid provider URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("offset", strconv.Itoa(opts.Offset))
	query.Set("limit", strconv.Itoa(opts.Limit))
	endpoint.RawQuery = query.Encode()

	raw, err := p.execute(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	var content ports.ProviderContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("invalid provider response: %w", err)
	}
	return &content, nil
}

func (p *HTTPProvider) execute(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
