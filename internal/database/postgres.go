// Package database implements the submission store on PostgreSQL.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations creates the schema if it does not exist. The version row is
// a plain counter; every mutation bumps it inside the same transaction.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS feedback_submissions (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			meal_preference TEXT,
			taste SMALLINT,
			service SMALLINT,
			wait_time SMALLINT,
			overall SMALLINT,
			favourite_item TEXT NOT NULL DEFAULT '',
			improvements TEXT NOT NULL DEFAULT '',
			experience_index DOUBLE PRECISION,
			sentiment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			sentiment_label TEXT NOT NULL DEFAULT 'neutral'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_submissions_created_at
			ON feedback_submissions (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS store_version (
			id SMALLINT PRIMARY KEY CHECK (id = 1),
			version BIGINT NOT NULL
		)`,
		`INSERT INTO store_version (id, version) VALUES (1, 0)
			ON CONFLICT (id) DO NOTHING`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
