package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IgnacyBerent/biomed-kb-api/internal/dto"
	"github.com/IgnacyBerent/biomed-kb-api/internal/service"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, format string, opts service.ListOptions) (*service.ExportResult, error)
}

type externalLister interface {
	ExternalList(ctx context.Context) ([]dto.ExternalArticle, error)
}

// ExportHandler serves listing downloads and the external read API.
type ExportHandler struct {
	exports  exportService
	articles externalLister
}

// NewExportHandler builds a new handler.
func NewExportHandler(exports exportService, articles externalLister) *ExportHandler {
	return &ExportHandler{exports: exports, articles: articles}
}

// Download godoc
// @Summary Export the listing
// @Description Renders the article listing as a CSV or PDF download
// @Tags Articles
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format" Enums(csv, pdf)
// @Param sort_by query string false "Sort key" Enums(addition_date, year, title)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Param category query string false "Category filter"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /articles/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	opts := service.ListOptions{
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Category: c.Query("category"),
	}

	result, err := h.exports.Render(c.Request.Context(), c.Query("format"), opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// ExternalList godoc
// @Summary Read API: list all records
// @Description Full record list for external consumers, gated by the Auth-Key header
// @Tags Read API
// @Produce json
// @Param Auth-Key header string true "API key"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /export/articles [get]
func (h *ExportHandler) ExternalList(c *gin.Context) {
	articles, err := h.articles.ExternalList(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, articles, map[string]interface{}{"count": len(articles)})
}
