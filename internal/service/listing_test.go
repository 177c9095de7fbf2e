package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

func listingFixture() []models.Article {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.Article{
		{ID: "a", DOI: "10.1/a", Title: "Gamma", Year: 2020, Categories: models.StringList{"scaffolds", "hydrogels"}, AdditionDate: base.Add(2 * time.Hour)},
		{ID: "b", DOI: "10.1/b", Title: "alpha", Year: 2019, Categories: models.StringList{"bioprinting"}, AdditionDate: base},
		{ID: "c", DOI: "10.1/c", Title: "Beta", Year: 2021, Categories: models.StringList{"scaffolds"}, AdditionDate: base.Add(time.Hour)},
		{ID: "d", DOI: "10.1/d", Title: "Delta", Year: 2019, Categories: models.StringList{"implants"}, AdditionDate: base.Add(3 * time.Hour)},
	}
}

func TestSortArticlesByYearAscending(t *testing.T) {
	sorted, err := SortArticles(listingFixture(), SortByYear, false)
	require.NoError(t, err)

	years := make([]int, 0, len(sorted))
	for _, a := range sorted {
		years = append(years, a.Year)
	}
	assert.Equal(t, []int{2019, 2019, 2020, 2021}, years)
}

func TestSortArticlesStableOnTies(t *testing.T) {
	sorted, err := SortArticles(listingFixture(), SortByYear, false)
	require.NoError(t, err)

	// b and d share 2019; b came first in the input and must stay first.
	assert.Equal(t, "b", sorted[0].ID)
	assert.Equal(t, "d", sorted[1].ID)

	descending, err := SortArticles(listingFixture(), SortByYear, true)
	require.NoError(t, err)
	assert.Equal(t, "b", descending[2].ID)
	assert.Equal(t, "d", descending[3].ID)
}

func TestSortArticlesByTitleIsCaseInsensitive(t *testing.T) {
	sorted, err := SortArticles(listingFixture(), SortByTitle, false)
	require.NoError(t, err)

	titles := make([]string, 0, len(sorted))
	for _, a := range sorted {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"alpha", "Beta", "Delta", "Gamma"}, titles)
}

func TestSortArticlesByAdditionDateDescending(t *testing.T) {
	sorted, err := SortArticles(listingFixture(), SortByAdditionDate, true)
	require.NoError(t, err)
	assert.Equal(t, "d", sorted[0].ID)
	assert.Equal(t, "b", sorted[3].ID)
}

func TestSortArticlesDoesNotMutateInput(t *testing.T) {
	input := listingFixture()
	_, err := SortArticles(input, SortByTitle, false)
	require.NoError(t, err)
	assert.Equal(t, "a", input[0].ID)
}

func TestSortArticlesRejectsUnknownKey(t *testing.T) {
	_, err := SortArticles(listingFixture(), SortKey("category"), false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidSortKey.Code, appErrors.FromError(err).Code)
}

func TestFilterByCategoryUsesContainment(t *testing.T) {
	filtered, err := FilterByCategory(listingFixture(), "scaffolds")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, a := range filtered {
		assert.True(t, a.Categories.Contains("scaffolds"))
	}
}

func TestFilterByCategoryRejectsUnknownValue(t *testing.T) {
	_, err := FilterByCategory(listingFixture(), "underwater basket weaving")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidFilter.Code, appErrors.FromError(err).Code)
}

func TestListOptionsNormalizeDefaults(t *testing.T) {
	key, descending, err := ListOptions{}.normalize()
	require.NoError(t, err)
	assert.Equal(t, SortByAdditionDate, key)
	assert.False(t, descending)
}

func TestListOptionsNormalizeRejectsBadOrder(t *testing.T) {
	_, _, err := ListOptions{Order: "sideways"}.normalize()
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
