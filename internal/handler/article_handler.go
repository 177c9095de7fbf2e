package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IgnacyBerent/biomed-kb-api/internal/dto"
	"github.com/IgnacyBerent/biomed-kb-api/internal/middleware"
	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	"github.com/IgnacyBerent/biomed-kb-api/internal/service"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/response"
)

type articleService interface {
	Create(ctx context.Context, req dto.CreateArticleRequest, submittedBy string) (*models.Article, error)
	List(ctx context.Context, opts service.ListOptions) ([]models.Article, error)
	CheckDuplicate(ctx context.Context, req dto.CheckArticleRequest) (*dto.CheckArticleResponse, error)
}

// ArticleHandler exposes the record lifecycle endpoints.
type ArticleHandler struct {
	service articleService
	metrics *service.MetricsService
}

// NewArticleHandler builds a new handler.
func NewArticleHandler(svc articleService, metrics *service.MetricsService) *ArticleHandler {
	return &ArticleHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Submit an article
// @Description Validates and stores a new immutable article record
// @Tags Articles
// @Accept json
// @Produce json
// @Param payload body dto.CreateArticleRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /articles [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	claims := middleware.SessionClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	article, err := h.service.Create(c.Request.Context(), req, claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ArticleCreated()
	}
	response.Created(c, article)
}

// List godoc
// @Summary List articles
// @Description Full listing, sorted and optionally filtered by category
// @Tags Articles
// @Produce json
// @Param sort_by query string false "Sort key" Enums(addition_date, year, title)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /articles [get]
func (h *ArticleHandler) List(c *gin.Context) {
	opts := service.ListOptions{
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Category: c.Query("category"),
	}

	articles, err := h.service.List(c.Request.Context(), opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, articles, map[string]interface{}{"count": len(articles)})
}

// Check godoc
// @Summary Check for a duplicate
// @Description Probes the store by exactly one identifier (doi, link, or title)
// @Tags Articles
// @Accept json
// @Produce json
// @Param payload body dto.CheckArticleRequest true "Identifier payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /articles/check [post]
func (h *ArticleHandler) Check(c *gin.Context) {
	var req dto.CheckArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check payload"))
		return
	}

	result, err := h.service.CheckDuplicate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		outcome := "not_found"
		if result.Exists {
			outcome = "exists"
		}
		h.metrics.DuplicateProbe(outcome)
	}
	response.JSON(c, http.StatusOK, result)
}
