package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IgnacyBerent/biomed-kb-api/internal/dto"
	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	"github.com/IgnacyBerent/biomed-kb-api/internal/repository"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

type articleStore interface {
	Create(ctx context.Context, article *models.Article) error
	ListAll(ctx context.Context) ([]models.Article, error)
	FindByDOI(ctx context.Context, doi string) (*models.Article, error)
	FindByLink(ctx context.Context, link string) (*models.Article, error)
	FindByTitle(ctx context.Context, title string) (*models.Article, error)
}

// ArticleService owns the record lifecycle: validation, creation, listing
// and duplicate probing.
type ArticleService struct {
	store     articleStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewArticleService constructs an ArticleService.
func NewArticleService(store articleStore, validate *validator.Validate, logger *zap.Logger) *ArticleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{store: store, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates a submission and persists it. The addition date is
// stamped server-side; the submitter name comes from the session, never the
// payload.
func (s *ArticleService) Create(ctx context.Context, req dto.CreateArticleRequest, submittedBy string) (*models.Article, error) {
	if err := s.validateSubmission(req); err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:                  uuid.NewString(),
		DOI:                 strings.TrimSpace(req.DOI),
		Link:                strings.TrimSpace(req.Link),
		Title:               strings.TrimSpace(req.Title),
		Year:                req.Year,
		Categories:          models.StringList(req.Category),
		ProblemDescription:  req.ProblemDescription,
		SolutionDescription: req.SolutionDescription,
		Result:              req.Result,
		Problems:            req.Problems,
		AdditionalNotes:     req.AdditionalNotes,
		AdditionDate:        s.now(),
		SubmittedBy:         submittedBy,
	}

	if err := s.store.Create(ctx, article); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to store article")
	}

	s.logger.Info("article created",
		zap.String("doi", article.DOI),
		zap.String("submitted_by", article.SubmittedBy),
	)
	return article, nil
}

// List returns the full listing ordered and filtered per the options.
func (s *ArticleService) List(ctx context.Context, opts ListOptions) ([]models.Article, error) {
	key, descending, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	articles, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list articles")
	}

	if opts.Category != "" {
		articles, err = FilterByCategory(articles, opts.Category)
		if err != nil {
			return nil, err
		}
	}

	return SortArticles(articles, key, descending)
}

// CheckDuplicate probes the store by exactly one identifier and reports
// whether a matching record exists. Comparison is exact string equality.
func (s *ArticleService) CheckDuplicate(ctx context.Context, req dto.CheckArticleRequest) (*dto.CheckArticleResponse, error) {
	type probe struct {
		name  string
		value string
		find  func(context.Context, string) (*models.Article, error)
	}
	probes := []probe{
		{"doi", strings.TrimSpace(req.DOI), s.store.FindByDOI},
		{"link", strings.TrimSpace(req.Link), s.store.FindByLink},
		{"title", strings.TrimSpace(req.Title), s.store.FindByTitle},
	}

	var selected *probe
	for i := range probes {
		if probes[i].value == "" {
			continue
		}
		if selected != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "provide exactly one identifier, not several")
		}
		selected = &probes[i]
	}
	if selected == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "an identifier is required")
	}

	_, err := selected.find(ctx, selected.value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &dto.CheckArticleResponse{Exists: false, Identifier: selected.name}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to query articles")
	}
	return &dto.CheckArticleResponse{Exists: true, Identifier: selected.name}, nil
}

// ExternalList projects the full listing into the read-API shape with
// ISO-8601 addition dates.
func (s *ArticleService) ExternalList(ctx context.Context) ([]dto.ExternalArticle, error) {
	articles, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list articles")
	}

	out := make([]dto.ExternalArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, dto.ExternalArticle{
			Identifier:          a.DOI,
			Link:                a.Link,
			Year:                a.Year,
			Category:            append([]string(nil), a.Categories...),
			Title:               a.Title,
			ProblemDescription:  a.ProblemDescription,
			SolutionDescription: a.SolutionDescription,
			Result:              a.Result,
			Problems:            a.Problems,
			AdditionalNotes:     a.AdditionalNotes,
			AdditionDate:        a.AdditionDate.Format(time.RFC3339),
			SubmittedBy:         a.SubmittedBy,
		})
	}
	return out, nil
}

// validateSubmission enforces the submission contract, reporting the first
// missing or invalid field.
func (s *ArticleService) validateSubmission(req dto.CreateArticleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("field %s is missing or invalid", jsonFieldName(first.Field())))
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	seen := make(map[string]struct{}, len(req.Category))
	for _, tag := range req.Category {
		if !models.IsKnownCategory(tag) {
			return appErrors.Clone(appErrors.ErrValidation, "field category holds an unknown tag: "+tag)
		}
		if _, dup := seen[tag]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "field category holds a repeated tag: "+tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// jsonFieldName maps exported struct field names onto their JSON form so
// validation messages match the wire contract.
func jsonFieldName(field string) string {
	switch field {
	case "DOI":
		return "doi"
	case "ProblemDescription":
		return "problem_description"
	case "SolutionDescription":
		return "solution_description"
	case "AdditionalNotes":
		return "additional_notes"
	default:
		return strings.ToLower(field)
	}
}
