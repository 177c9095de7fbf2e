package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(sqlx.NewDb(db, "postgres")), mock
}

func sampleArticle() *models.Article {
	return &models.Article{
		ID:                  "a1",
		DOI:                 "10.1/x",
		Link:                "https://doi.org/10.1/x",
		Title:               "Printed scaffolds for cartilage repair",
		Year:                2022,
		Categories:          models.StringList{"scaffolds", "cartilage"},
		ProblemDescription:  "Cartilage defects heal poorly",
		SolutionDescription: "Printed PCL scaffold",
		Result:              "Improved regeneration",
		Problems:            "Small sample size",
		AdditionDate:        time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		SubmittedBy:         "Jan Kowalski",
	}
}

func TestSQLStoreCreate(t *testing.T) {
	store, mock := newMockStore(t)
	article := sampleArticle()

	mock.ExpectExec("INSERT INTO articles").
		WithArgs(
			article.ID, article.DOI, article.Link, article.Title, article.Year,
			`["scaffolds","cartilage"]`,
			article.ProblemDescription, article.SolutionDescription,
			article.Result, article.Problems, article.AdditionalNotes,
			article.AdditionDate, article.SubmittedBy,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Create(context.Background(), article))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreCreateUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO articles").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "articles_doi_key"})

	err := store.Create(context.Background(), sampleArticle())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateIdentifier.Code, appErrors.FromError(err).Code)
}

func TestSQLStoreCreateSQLiteUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO articles").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: articles.doi (2067)"))

	err := store.Create(context.Background(), sampleArticle())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateIdentifier.Code, appErrors.FromError(err).Code)
}

func TestSQLStoreListAll(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "doi", "link", "title", "year", "categories",
		"problem_description", "solution_description", "result", "problems",
		"additional_notes", "addition_date", "submitted_by",
	}).AddRow(
		"a1", "10.1/x", "https://doi.org/10.1/x", "Printed scaffolds", 2022,
		`["scaffolds","cartilage"]`,
		"p", "s", "r", "pr", "",
		time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), "Jan Kowalski",
	)
	mock.ExpectQuery("SELECT (.+) FROM articles ORDER BY addition_date ASC, id ASC").
		WillReturnRows(rows)

	articles, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, models.StringList{"scaffolds", "cartilage"}, articles[0].Categories)
	assert.Equal(t, 2022, articles[0].Year)
}

func TestSQLStoreFindByDOINotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM articles WHERE doi = \\$1").
		WithArgs("10.1/missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByDOI(context.Background(), "10.1/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStoreFindByTitle(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "doi", "link", "title", "year", "categories",
		"problem_description", "solution_description", "result", "problems",
		"additional_notes", "addition_date", "submitted_by",
	}).AddRow(
		"a1", "10.1/x", "https://doi.org/10.1/x", "Printed scaffolds", 2022,
		`["scaffolds"]`, "p", "s", "r", "pr", "",
		time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), "Jan Kowalski",
	)
	mock.ExpectQuery("SELECT (.+) FROM articles WHERE title = \\$1").
		WithArgs("Printed scaffolds").
		WillReturnRows(rows)

	article, err := store.FindByTitle(context.Background(), "Printed scaffolds")
	require.NoError(t, err)
	assert.Equal(t, "10.1/x", article.DOI)
}

func TestSQLStoreCredentialRoundTrip(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO credential").
		WithArgs("hashed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT hash FROM credential WHERE id = 0").
		WillReturnRows(sqlmock.NewRows([]string{"hash"}).AddRow("hashed"))

	require.NoError(t, store.SetCredential(context.Background(), "hashed"))
	hash, err := store.GetCredential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hashed", hash)
}

func TestSQLStoreSetCredentialTwice(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO credential").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "credential_pkey"})

	err := store.SetCredential(context.Background(), "hashed")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCredentialExists.Code, appErrors.FromError(err).Code)
}

func TestSQLStoreGetCredentialMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT hash FROM credential WHERE id = 0").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetCredential(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
