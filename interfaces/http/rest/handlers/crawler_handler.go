package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"ixp-backend/application/services"
	"ixp-backend/pkg/common"
	pkgerrors "ixp-backend/pkg/errors"
)

// CrawlerHandler serves aggregated crawler content.
type CrawlerHandler struct {
	crawler *services.Crawler
	errors  *pkgerrors.ErrorHandler
	logger  *zap.Logger
}

// NewCrawlerHandler creates a new crawler handler
func NewCrawlerHandler(crawler *services.Crawler, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *CrawlerHandler {
	return &CrawlerHandler{crawler: crawler, errors: errorHandler, logger: logger}
}

// CrawlerContentResponse is the wire shape of GET /ixp/crawler_content.
type CrawlerContentResponse struct {
	Contents    []services.SourceContent `json:"contents"`
	Pagination  services.Pagination      `json:"pagination"`
	LastUpdated time.Time                `json:"lastUpdated"`
}

// GetContent handles GET /ixp/crawler_content
func (h *CrawlerHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractContentParams(r)

	response, err := h.crawler.GetContent(r.Context(), services.ContentRequest{
		Sources:         params.Sources,
		Cursor:          params.CursorToken,
		Limit:           params.Limit,
		IncludeMetadata: params.IncludeMetadata,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, CrawlerContentResponse{
		Contents:    response.Contents,
		Pagination:  response.Pagination,
		LastUpdated: response.LastUpdated,
	})
}
