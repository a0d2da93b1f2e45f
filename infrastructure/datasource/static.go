// Package datasource ships the built-in crawler data sources: one backed by
// records declared in the definitions file, one backed by the external data
// provider.
package datasource

import (
	"context"

	"ixp-backend/domain/core/entities"
	"ixp-backend/infrastructure/config"
)

// NewStaticSource builds a data source over an in-memory record slice with
// deterministic offset paging. It backs definitions-file sources and is the
// reference paging behavior for handler authors.
func NewStaticSource(def *config.StaticSourceDefinition) *entities.CrawlerDataSource {
	records := def.Records

	handler := func(ctx context.Context, opts entities.FetchOptions) (*entities.FetchResult, error) {
		total := len(records)
		start := opts.Offset
		if start > total {
			start = total
		}
		end := start + opts.Limit
		if opts.Limit <= 0 || end > total {
			end = total
		}

		page := make([]map[string]interface{}, end-start)
		copy(page, records[start:end])

		return &entities.FetchResult{
			Records: page,
			HasMore: end < total,
			Total:   total,
		}, nil
	}

	return &entities.CrawlerDataSource{
		Name:         def.Name,
		Version:      def.Version,
		Description:  def.Description,
		Enabled:      def.IsEnabled(),
		RecordSchema: def.RecordSchema,
		Handler:      handler,
		Config:       def.Config,
	}
}
