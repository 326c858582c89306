package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/madridistaai/madridista/internal/core/ports"
)

// Repository persists settings, chat memory, subscriptions and the
// tool-call audit log in a single DuckDB file.
type Repository struct {
	db *sql.DB
}

var _ ports.Repository = (*Repository)(nil)

// NewRepository opens (or creates) the database at path and runs the
// schema migration. An empty path opens an in-memory database.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	r := &Repository{db: db}
	if err := r.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key   VARCHAR PRIMARY KEY,
			value VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id         VARCHAR PRIMARY KEY,
			chat_id    BIGINT NOT NULL,
			role       VARCHAR NOT NULL,
			content    VARCHAR NOT NULL,
			username   VARCHAR,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			chat_id BIGINT PRIMARY KEY,
			summary VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			chat_id    BIGINT NOT NULL,
			kind       VARCHAR NOT NULL,
			team       VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (chat_id, kind)
		)`,
		`CREATE TABLE IF NOT EXISTS tool_calls (
			id         VARCHAR PRIMARY KEY,
			chat_id    BIGINT,
			tool       VARCHAR NOT NULL,
			args       VARCHAR,
			ok         BOOLEAN NOT NULL,
			source     VARCHAR,
			latency_ms BIGINT,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
