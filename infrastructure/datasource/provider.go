package datasource

import (
	"context"

	"ixp-backend/application/ports"
	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/schema"
)

// NewProviderSource adapts the data provider's crawler endpoint into a
// registrable source. Rate limiting and caching stay on the provider side,
// per the handler contract.
func NewProviderSource(name, version string, provider ports.DataProvider, recordSchema *schema.Schema) *entities.CrawlerDataSource {
	if recordSchema == nil {
		recordSchema = &schema.Schema{Type: schema.TypeObject}
	}

	handler := func(ctx context.Context, opts entities.FetchOptions) (*entities.FetchResult, error) {
		content, err := provider.GetCrawlerContent(ctx, ports.ProviderContentOptions{
			Offset: opts.Offset,
			Limit:  opts.Limit,
		})
		if err != nil {
			return nil, err
		}
		return &entities.FetchResult{
			Records: content.Contents,
			HasMore: content.HasMore,
			Total:   content.Total,
		}, nil
	}

	return &entities.CrawlerDataSource{
		Name:         name,
		Version:      version,
		Description:  "content aggregated from the external data provider",
		Enabled:      true,
		RecordSchema: recordSchema,
		Handler:      handler,
	}
}
