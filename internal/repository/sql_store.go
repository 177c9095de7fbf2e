package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

const articleColumns = `id, doi, link, title, year, categories, problem_description, solution_description, result, problems, additional_notes, addition_date, submitted_by`

// SQLStore persists articles and the shared credential in a relational
// table. It works against Postgres (lib/pq) and SQLite (modernc) alike;
// both accept $n placeholders.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore constructs the store.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Create inserts a new article. The UNIQUE constraints on doi and title make
// the uniqueness check atomic; a violation maps to DUPLICATE_IDENTIFIER.
func (s *SQLStore) Create(ctx context.Context, article *models.Article) error {
	const query = `INSERT INTO articles (` + articleColumns + `)
VALUES (:id, :doi, :link, :title, :year, :categories, :problem_description, :solution_description, :result, :problems, :additional_notes, :addition_date, :submitted_by)`
	if _, err := s.db.NamedExecContext(ctx, query, article); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrDuplicateIdentifier, "")
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// ListAll returns every stored article in insertion order.
func (s *SQLStore) ListAll(ctx context.Context) ([]models.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM articles ORDER BY addition_date ASC, id ASC`
	var articles []models.Article
	if err := s.db.SelectContext(ctx, &articles, query); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// FindByDOI returns the article with the given DOI.
func (s *SQLStore) FindByDOI(ctx context.Context, doi string) (*models.Article, error) {
	return s.findBy(ctx, "doi", doi)
}

// FindByLink returns the article with the given link.
func (s *SQLStore) FindByLink(ctx context.Context, link string) (*models.Article, error) {
	return s.findBy(ctx, "link", link)
}

// FindByTitle returns the article with the given title.
func (s *SQLStore) FindByTitle(ctx context.Context, title string) (*models.Article, error) {
	return s.findBy(ctx, "title", title)
}

func (s *SQLStore) findBy(ctx context.Context, column, value string) (*models.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE %s = $1 LIMIT 1`, articleColumns, column)
	var article models.Article
	if err := s.db.GetContext(ctx, &article, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find article by %s: %w", column, err)
	}
	return &article, nil
}

// GetCredential returns the stored credential hash.
func (s *SQLStore) GetCredential(ctx context.Context) (string, error) {
	const query = `SELECT hash FROM credential WHERE id = 0`
	var hash string
	if err := s.db.GetContext(ctx, &hash, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get credential: %w", err)
	}
	return hash, nil
}

// SetCredential stores the credential hash once. The fixed primary key makes
// a second insert fail instead of overwriting the first.
func (s *SQLStore) SetCredential(ctx context.Context, hash string) error {
	const query = `INSERT INTO credential (id, hash) VALUES (0, $1)`
	if _, err := s.db.ExecContext(ctx, query, hash); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrCredentialExists, "")
		}
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc/sqlite surfaces constraint violations as plain error strings.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: articles") ||
		strings.Contains(msg, "constraint failed: credential")
}
