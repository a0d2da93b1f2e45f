package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ixp-backend/application/services"
	"ixp-backend/domain/core/entities"
	"ixp-backend/domain/registry"
	"ixp-backend/domain/schema"
	pkgerrors "ixp-backend/pkg/errors"
)

func newCrawlerHandlerFixture(t *testing.T, totals map[string]int) *CrawlerHandler {
	t.Helper()

	logger := zap.NewNop()
	crawler := services.NewCrawler(registry.NewSourceRegistry(), nil, logger)

	for name, total := range totals {
		name, total := name, total
		require.NoError(t, crawler.Register(&entities.CrawlerDataSource{
			Name:    name,
			Version: "1.0.0",
			Enabled: true,
			RecordSchema: schema.Object(map[string]*schema.Schema{
				"id": schema.String(),
			}, "id"),
			Handler: func(ctx context.Context, opts entities.FetchOptions) (*entities.FetchResult, error) {
				records := make([]map[string]interface{}, 0, opts.Limit)
				for i := opts.Offset; i < total && len(records) < opts.Limit; i++ {
					records = append(records, map[string]interface{}{
						"id": fmt.Sprintf("%s-%d", name, i),
					})
				}
				return &entities.FetchResult{
					Records: records,
					HasMore: opts.Offset+len(records) < total,
					Total:   total,
				}, nil
			},
		}))
	}

	return NewCrawlerHandler(crawler, pkgerrors.NewErrorHandler(logger, false), logger)
}

func getContent(t *testing.T, handler *CrawlerHandler, target string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler.GetContent(w, r)
	return w
}

func TestCrawlerHandler_GetContent(t *testing.T) {
	handler := newCrawlerHandlerFixture(t, map[string]int{"articles": 3})

	w := getContent(t, handler, "/ixp/crawler_content")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CrawlerContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Contents, 1)
	assert.Equal(t, "articles", resp.Contents[0].Source)
	assert.Len(t, resp.Contents[0].Records, 3)
	assert.False(t, resp.Pagination.HasMore)
	assert.Empty(t, resp.Pagination.NextCursor)
	assert.False(t, resp.LastUpdated.IsZero())
}

func TestCrawlerHandler_GetContent_PaginatesViaCursor(t *testing.T) {
	handler := newCrawlerHandlerFixture(t, map[string]int{"articles": 3})

	first := getContent(t, handler, "/ixp/crawler_content?limit=2")
	require.Equal(t, http.StatusOK, first.Code)

	var page1 CrawlerContentResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &page1))
	require.True(t, page1.Pagination.HasMore)
	require.NotEmpty(t, page1.Pagination.NextCursor)

	second := getContent(t, handler, "/ixp/crawler_content?limit=2&cursor="+page1.Pagination.NextCursor)
	require.Equal(t, http.StatusOK, second.Code)

	var page2 CrawlerContentResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &page2))
	require.Len(t, page2.Contents, 1)
	require.Len(t, page2.Contents[0].Records, 1)
	assert.Equal(t, "articles-2", page2.Contents[0].Records[0]["id"])
	assert.False(t, page2.Pagination.HasMore)
}

func TestCrawlerHandler_GetContent_SourceFilterAndMetadata(t *testing.T) {
	handler := newCrawlerHandlerFixture(t, map[string]int{"articles": 2, "products": 2})

	w := getContent(t, handler, "/ixp/crawler_content?sources=articles&includeMetadata=true")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp CrawlerContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Contents, 1)
	assert.Equal(t, "articles", resp.Contents[0].Source)
	require.NotNil(t, resp.Contents[0].Metadata)
	assert.Equal(t, 2, resp.Contents[0].Metadata.Total)
}

func TestCrawlerHandler_GetContent_InvalidCursor(t *testing.T) {
	handler := newCrawlerHandlerFixture(t, map[string]int{"articles": 2})

	w := getContent(t, handler, "/ixp/crawler_content?cursor=%21%21%21")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), pkgerrors.CodeInvalidCursor)
}
