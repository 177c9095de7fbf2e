package repository

import (
	"context"
	"errors"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
)

// ErrNotFound is returned by lookups that miss, regardless of backend.
// A miss is a normal outcome, not a failure.
var ErrNotFound = errors.New("record not found")

// Store is the backend-agnostic record store contract. Two implementations
// exist: a relational one (Postgres or SQLite via sqlx) and a Redis document
// store. The backend is chosen at configuration time.
//
// Create must enforce DOI uniqueness atomically at the storage layer, never
// as a check-then-write in application code.
type Store interface {
	Create(ctx context.Context, article *models.Article) error
	ListAll(ctx context.Context) ([]models.Article, error)
	FindByDOI(ctx context.Context, doi string) (*models.Article, error)
	FindByLink(ctx context.Context, link string) (*models.Article, error)
	FindByTitle(ctx context.Context, title string) (*models.Article, error)

	GetCredential(ctx context.Context) (string, error)
	SetCredential(ctx context.Context, hash string) error
}
