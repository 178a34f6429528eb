// Package db provides PostgreSQL storage for users, placement predictions and
// career recommendation runs. The sqlite subpackage implements the same
// operations on an embedded database.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/placement-advisor/internal/metrics"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Observe records the duration and outcome of a storage operation.
// Use it as the first deferred call of a method with a named error result.
func Observe(operation string, start time.Time, err *error) {
	metrics.RecordDBQuery(operation, time.Since(start), *err)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		gender TEXT NOT NULL,
		ssc_p DOUBLE PRECISION NOT NULL,
		ssc_b TEXT NOT NULL,
		hsc_p DOUBLE PRECISION NOT NULL,
		hsc_b TEXT NOT NULL,
		hsc_s TEXT NOT NULL,
		degree_p DOUBLE PRECISION NOT NULL,
		degree_t TEXT NOT NULL,
		workex TEXT NOT NULL,
		etest_p DOUBLE PRECISION NOT NULL,
		domain TEXT NOT NULL,
		label TEXT NOT NULL,
		placed BOOLEAN NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		tier TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_user_created ON predictions (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS career_recommendations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		course TEXT NOT NULL,
		skills TEXT NOT NULL,
		interest TEXT NOT NULL,
		results JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_career_recommendations_user_created ON career_recommendations (user_id, created_at DESC)`,
}

// Migrate creates the tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) (err error) {
	defer Observe("migrate", time.Now(), &err)
	for _, stmt := range schema {
		if _, err = db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
