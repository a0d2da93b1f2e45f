package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	"ixp-backend/domain/schema"
	"ixp-backend/pkg/common"
	pkgerrors "ixp-backend/pkg/errors"
)

// ContentRequest selects and pages crawler data sources.
type ContentRequest struct {
	Sources         []string
	Cursor          string
	Limit           int
	IncludeMetadata bool
}

// SourceContent is one source's contribution to an aggregated response.
type SourceContent struct {
	Source   string                   `json:"source"`
	Records  []map[string]interface{} `json:"records"`
	Metadata *SourceMetadata          `json:"metadata,omitempty"`
}

// SourceMetadata describes a source when includeMetadata is requested.
type SourceMetadata struct {
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Total       int    `json:"total,omitempty"`
}

// Pagination is the merged pagination state of an aggregated response.
type Pagination struct {
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// ContentResponse is an aggregated page of crawler content.
type ContentResponse struct {
	Contents    []SourceContent `json:"contents"`
	Pagination  Pagination      `json:"pagination"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Crawler aggregates paginated content across registered data sources. It
// enforces neither rate limits nor caching; handlers own their side effects
// and are never assumed idempotent.
type Crawler struct {
	sources *registry.SourceRegistry
	metrics FetchMetrics
	tracer  trace.Tracer
	logger  *zap.Logger
}

// FetchMetrics receives per-source fetch outcomes. Implemented by the
// observability collector; nil falls back to a no-op.
type FetchMetrics interface {
	ObserveCrawlerFetch(source, outcome string)
}

type noopFetchMetrics struct{}

func (noopFetchMetrics) ObserveCrawlerFetch(string, string) {}

// NewCrawler creates the aggregator on top of a source registry.
func NewCrawler(sources *registry.SourceRegistry, metrics FetchMetrics, logger *zap.Logger) *Crawler {
	if metrics == nil {
		metrics = noopFetchMetrics{}
	}
	return &Crawler{
		sources: sources,
		metrics: metrics,
		tracer:  otel.Tracer("ixp-backend/services"),
		logger:  logger,
	}
}

// Register adds a data source to the underlying registry.
func (c *Crawler) Register(source *entities.CrawlerDataSource) error {
	return c.sources.Register(source)
}

// GetContent fetches one page from every selected source and merges the
// per-source pagination into a single opaque cursor.
//
// Unknown source names are silently skipped. A failing handler is logged at
// Error and contributes nothing: partial content beats a broken crawl.
// Record schema violations are advisory and the record is kept. All
// selected sources are fanned out concurrently without a cap; acceptable
// while source counts stay small.
func (c *Crawler) GetContent(ctx context.Context, req ContentRequest) (*ContentResponse, error) {
	ctx, span := c.tracer.Start(ctx, "Crawler.GetContent")
	defer span.End()

	cursor, err := common.DecodeCursor(req.Cursor)
	if err != nil {
		span.SetStatus(codes.Error, "invalid cursor")
		return nil, pkgerrors.NewValidationError(pkgerrors.CodeInvalidCursor, err.Error())
	}

	selected := c.sources.Select(req.Sources)
	span.SetAttributes(attribute.Int("ixp.sources_selected", len(selected)))

	type sourcePage struct {
		source  *entities.CrawlerDataSource
		offset  int
		result  *entities.FetchResult
		skipped bool
	}

	pages := make([]sourcePage, len(selected))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range selected {
		i, source := i, source
		g.Go(func() error {
			offset := cursor.Offset(source.Name)
			limit := source.EffectiveLimit(req.Limit)

			fetchCtx, fetchSpan := c.tracer.Start(gctx, "Crawler.fetchSource",
				trace.WithAttributes(
					attribute.String("ixp.source", source.Name),
					attribute.Int("ixp.offset", offset),
					attribute.Int("ixp.limit", limit),
				),
			)
			result, err := source.Handler(fetchCtx, entities.FetchOptions{Offset: offset, Limit: limit})
			if err != nil {
				fetchSpan.RecordError(err)
				fetchSpan.SetStatus(codes.Error, "fetch failed")
			}
			fetchSpan.End()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Error("crawler source fetch failed",
					zap.String("source", source.Name),
					zap.Int("offset", offset),
					zap.Error(err),
				)
				c.metrics.ObserveCrawlerFetch(source.Name, "error")
				pages[i] = sourcePage{source: source, offset: offset, skipped: true}
				return nil
			}
			c.metrics.ObserveCrawlerFetch(source.Name, "success")
			if result == nil {
				result = &entities.FetchResult{}
			}
			pages[i] = sourcePage{source: source, offset: offset, result: result}
			return nil
		})
	}
	// Handlers never propagate errors into the group; Wait only observes
	// context cancellation.
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.NewInternalError("crawler aggregation aborted", err)
	}

	// Start from the incoming cursor so positions of sources outside this
	// request's filter survive into the next one.
	next := common.Cursor{}
	for name, offset := range cursor {
		next[name] = offset
	}
	response := &ContentResponse{
		Contents:    make([]SourceContent, 0, len(selected)),
		LastUpdated: time.Now().UTC(),
	}

	for _, page := range pages {
		if page.source == nil {
			continue
		}
		if page.skipped {
			// Keep the failed source's position so a retry resumes it.
			next[page.source.Name] = page.offset
			continue
		}

		records := c.checkRecords(page.source, page.result.Records)

		content := SourceContent{Source: page.source.Name, Records: records}
		if req.IncludeMetadata {
			content.Metadata = &SourceMetadata{
				Version:     page.source.Version,
				Description: page.source.Description,
				Total:       page.result.Total,
			}
		}
		response.Contents = append(response.Contents, content)

		next[page.source.Name] = page.offset + len(records)
		if page.result.HasMore {
			response.Pagination.HasMore = true
		}
	}

	// Deterministic ordering regardless of goroutine completion order.
	sort.Slice(response.Contents, func(i, j int) bool {
		return response.Contents[i].Source < response.Contents[j].Source
	})

	if response.Pagination.HasMore {
		response.Pagination.NextCursor = common.EncodeCursor(next)
	}

	return response, nil
}

// checkRecords validates records against the source schema in advisory
// mode: violations are logged and the record is still returned.
func (c *Crawler) checkRecords(source *entities.CrawlerDataSource, records []map[string]interface{}) []map[string]interface{} {
	if records == nil {
		return []map[string]interface{}{}
	}
	for i, record := range records {
		result := schema.Validate(record, source.RecordSchema)
		if !result.Valid {
			c.logger.Warn("crawler record failed schema check",
				zap.String("source", source.Name),
				zap.Int("recordIndex", i),
				zap.Any("violations", result.Violations),
			)
		}
	}
	return records
}
