package service

import (
	"sort"
	"strings"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

// SortKey enumerates the listing sort keys. Category was a sort key in an
// early revision of the app; it survives only as a filter.
type SortKey string

const (
	SortByAdditionDate SortKey = "addition_date"
	SortByYear         SortKey = "year"
	SortByTitle        SortKey = "title"
)

// Sort directions.
const (
	OrderAscending  = "asc"
	OrderDescending = "desc"
)

// ListOptions control ordering and filtering of the article listing. Empty
// fields fall back to addition_date ascending with no filter; anything
// outside the enumerated sets is rejected, never silently defaulted.
type ListOptions struct {
	SortBy   string
	Order    string
	Category string
}

// SortArticles returns a new slice ordered by the given key and direction.
// The sort is stable: articles with equal keys keep their incoming order, so
// the guarantee holds regardless of which store backend produced the input.
func SortArticles(articles []models.Article, key SortKey, descending bool) ([]models.Article, error) {
	var less func(a, b *models.Article) bool
	switch key {
	case SortByAdditionDate:
		less = func(a, b *models.Article) bool { return a.AdditionDate.Before(b.AdditionDate) }
	case SortByYear:
		less = func(a, b *models.Article) bool { return a.Year < b.Year }
	case SortByTitle:
		less = func(a, b *models.Article) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidSortKey, "unsupported sort key: "+string(key))
	}

	sorted := make([]models.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			// Swapped operands keep ties in incoming order; reversing the
			// ascending result would not.
			return less(&sorted[j], &sorted[i])
		}
		return less(&sorted[i], &sorted[j])
	})
	return sorted, nil
}

// FilterByCategory keeps articles whose tag set contains the given value.
// Containment, not equality: a record may carry up to two tags.
func FilterByCategory(articles []models.Article, category string) ([]models.Article, error) {
	if !models.IsKnownCategory(category) {
		return nil, appErrors.Clone(appErrors.ErrInvalidFilter, "unsupported category filter: "+category)
	}
	filtered := make([]models.Article, 0, len(articles))
	for _, article := range articles {
		if article.Categories.Contains(category) {
			filtered = append(filtered, article)
		}
	}
	return filtered, nil
}

func (o ListOptions) normalize() (SortKey, bool, error) {
	key := SortKey(o.SortBy)
	if o.SortBy == "" {
		key = SortByAdditionDate
	}

	switch o.Order {
	case "", OrderAscending:
		return key, false, nil
	case OrderDescending:
		return key, true, nil
	default:
		return "", false, appErrors.Clone(appErrors.ErrValidation, "order must be asc or desc")
	}
}
