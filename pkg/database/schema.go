package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Portable DDL shared by the Postgres and SQLite backends. Categories are
// stored as a JSON-encoded TEXT column so the same statements run on both.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS articles (
	id                   TEXT PRIMARY KEY,
	doi                  TEXT NOT NULL UNIQUE,
	link                 TEXT NOT NULL,
	title                TEXT NOT NULL UNIQUE,
	year                 INTEGER NOT NULL,
	categories           TEXT NOT NULL,
	problem_description  TEXT NOT NULL,
	solution_description TEXT NOT NULL,
	result               TEXT NOT NULL,
	problems             TEXT NOT NULL,
	additional_notes     TEXT NOT NULL DEFAULT '',
	addition_date        TIMESTAMP NOT NULL,
	submitted_by         TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS credential (
	id   INTEGER PRIMARY KEY CHECK (id = 0),
	hash TEXT NOT NULL
)`,
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
