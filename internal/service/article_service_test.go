package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgnacyBerent/biomed-kb-api/internal/dto"
	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	"github.com/IgnacyBerent/biomed-kb-api/internal/repository"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

type articleStoreStub struct {
	byDOI   map[string]models.Article
	byLink  map[string]models.Article
	byTitle map[string]models.Article
	order   []string
	err     error
}

func newArticleStoreStub() *articleStoreStub {
	return &articleStoreStub{
		byDOI:   make(map[string]models.Article),
		byLink:  make(map[string]models.Article),
		byTitle: make(map[string]models.Article),
	}
}

func (s *articleStoreStub) Create(ctx context.Context, article *models.Article) error {
	if s.err != nil {
		return s.err
	}
	if _, exists := s.byDOI[article.DOI]; exists {
		return appErrors.Clone(appErrors.ErrDuplicateIdentifier, "")
	}
	if _, exists := s.byTitle[article.Title]; exists {
		return appErrors.Clone(appErrors.ErrDuplicateIdentifier, "")
	}
	s.byDOI[article.DOI] = *article
	s.byLink[article.Link] = *article
	s.byTitle[article.Title] = *article
	s.order = append(s.order, article.DOI)
	return nil
}

func (s *articleStoreStub) ListAll(ctx context.Context) ([]models.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Article, 0, len(s.order))
	for _, doi := range s.order {
		out = append(out, s.byDOI[doi])
	}
	return out, nil
}

func (s *articleStoreStub) FindByDOI(ctx context.Context, doi string) (*models.Article, error) {
	return stubLookup(s.byDOI, doi, s.err)
}

func (s *articleStoreStub) FindByLink(ctx context.Context, link string) (*models.Article, error) {
	return stubLookup(s.byLink, link, s.err)
}

func (s *articleStoreStub) FindByTitle(ctx context.Context, title string) (*models.Article, error) {
	return stubLookup(s.byTitle, title, s.err)
}

func stubLookup(m map[string]models.Article, key string, err error) (*models.Article, error) {
	if err != nil {
		return nil, err
	}
	if article, ok := m[key]; ok {
		return &article, nil
	}
	return nil, repository.ErrNotFound
}

func validSubmission() dto.CreateArticleRequest {
	return dto.CreateArticleRequest{
		DOI:                 "10.1/x",
		Link:                "https://doi.org/10.1/x",
		Title:               "Printed scaffolds for cartilage repair",
		Year:                2022,
		Category:            []string{"scaffolds", "cartilage"},
		ProblemDescription:  "Cartilage defects heal poorly",
		SolutionDescription: "Printed PCL scaffold seeded with chondrocytes",
		Result:              "Improved regeneration in vivo",
		Problems:            "Small sample size",
	}
}

func TestArticleServiceCreateStampsAndStores(t *testing.T) {
	store := newArticleStoreStub()
	svc := NewArticleService(store, validator.New(), nil)
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.Create(context.Background(), validSubmission(), "Jan Kowalski")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixed, created.AdditionDate)
	assert.Equal(t, "Jan Kowalski", created.SubmittedBy)

	found, err := store.FindByDOI(context.Background(), "10.1/x")
	require.NoError(t, err)
	assert.Equal(t, *created, *found)
}

func TestArticleServiceCreateRejectsDuplicateDOI(t *testing.T) {
	store := newArticleStoreStub()
	svc := NewArticleService(store, validator.New(), nil)

	_, err := svc.Create(context.Background(), validSubmission(), "Jan Kowalski")
	require.NoError(t, err)

	second := validSubmission()
	second.Title = "A different title"
	second.Link = "https://doi.org/10.1/other"
	_, err = svc.Create(context.Background(), second, "Anna Nowak")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateIdentifier.Code, appErrors.FromError(err).Code)
	assert.Len(t, store.order, 1)
}

func TestArticleServiceCreateNamesFirstInvalidField(t *testing.T) {
	svc := NewArticleService(newArticleStoreStub(), validator.New(), nil)

	req := validSubmission()
	req.ProblemDescription = ""
	_, err := svc.Create(context.Background(), req, "Jan Kowalski")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "problem_description")
}

func TestArticleServiceCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewArticleService(newArticleStoreStub(), validator.New(), nil)

	req := validSubmission()
	req.Category = []string{"astrology"}
	_, err := svc.Create(context.Background(), req, "Jan Kowalski")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "astrology")
}

func TestArticleServiceCreateRejectsThreeCategories(t *testing.T) {
	svc := NewArticleService(newArticleStoreStub(), validator.New(), nil)

	req := validSubmission()
	req.Category = []string{"scaffolds", "cartilage", "implants"}
	_, err := svc.Create(context.Background(), req, "Jan Kowalski")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestArticleServiceCreateMapsStoreFailure(t *testing.T) {
	store := newArticleStoreStub()
	store.err = errors.New("connection refused")
	svc := NewArticleService(store, validator.New(), nil)

	_, err := svc.Create(context.Background(), validSubmission(), "Jan Kowalski")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErrors.FromError(err).Code)
}

func TestArticleServiceListSortsAndFilters(t *testing.T) {
	store := newArticleStoreStub()
	svc := NewArticleService(store, validator.New(), nil)

	first := validSubmission()
	second := validSubmission()
	second.DOI = "10.1/y"
	second.Link = "https://doi.org/10.1/y"
	second.Title = "Hydrogel carriers"
	second.Year = 2018
	second.Category = []string{"hydrogels"}

	_, err := svc.Create(context.Background(), first, "Jan Kowalski")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), second, "Jan Kowalski")
	require.NoError(t, err)

	byYear, err := svc.List(context.Background(), ListOptions{SortBy: "year", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, byYear, 2)
	assert.Equal(t, 2018, byYear[0].Year)

	filtered, err := svc.List(context.Background(), ListOptions{Category: "hydrogels"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "10.1/y", filtered[0].DOI)
}

func TestArticleServiceListRejectsUnknownSortKey(t *testing.T) {
	svc := NewArticleService(newArticleStoreStub(), validator.New(), nil)
	_, err := svc.List(context.Background(), ListOptions{SortBy: "category"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidSortKey.Code, appErrors.FromError(err).Code)
}

func TestArticleServiceCheckDuplicateOutcomes(t *testing.T) {
	store := newArticleStoreStub()
	svc := NewArticleService(store, validator.New(), nil)
	_, err := svc.Create(context.Background(), validSubmission(), "Jan Kowalski")
	require.NoError(t, err)

	hit, err := svc.CheckDuplicate(context.Background(), dto.CheckArticleRequest{DOI: "10.1/x"})
	require.NoError(t, err)
	assert.True(t, hit.Exists)
	assert.Equal(t, "doi", hit.Identifier)

	miss, err := svc.CheckDuplicate(context.Background(), dto.CheckArticleRequest{Title: "Unknown title"})
	require.NoError(t, err)
	assert.False(t, miss.Exists)
}

func TestArticleServiceCheckDuplicateRejectsAmbiguousInput(t *testing.T) {
	svc := NewArticleService(newArticleStoreStub(), validator.New(), nil)

	_, err := svc.CheckDuplicate(context.Background(), dto.CheckArticleRequest{DOI: "10.1/x", Title: "A"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CheckDuplicate(context.Background(), dto.CheckArticleRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestArticleServiceExternalListShape(t *testing.T) {
	store := newArticleStoreStub()
	svc := NewArticleService(store, validator.New(), nil)
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Create(context.Background(), validSubmission(), "Jan Kowalski")
	require.NoError(t, err)

	out, err := svc.ExternalList(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "10.1/x", out[0].Identifier)
	assert.Equal(t, "2024-06-01T10:00:00Z", out[0].AdditionDate)
	assert.Equal(t, []string{"scaffolds", "cartilage"}, out[0].Category)
}
