package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/config"
	"github.com/jonathan/placement-advisor/internal/db"
	"github.com/jonathan/placement-advisor/internal/db/sqlite"
	"github.com/jonathan/placement-advisor/internal/logging"
)

// DBClient is the storage surface the server needs. Both the PostgreSQL
// pool and the embedded SQLite store implement it.
type DBClient interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	CheckUsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, username, passwordHash, role string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	CountUsers(ctx context.Context) (int, error)

	InsertPrediction(ctx context.Context, p *db.Prediction) error
	ListUserPredictions(ctx context.Context, userID uuid.UUID, limit int) ([]db.Prediction, error)
	ListAllPredictions(ctx context.Context, limit int) ([]db.PredictionWithUser, error)
	PredictionStats(ctx context.Context) (*db.PredictionStats, error)

	SaveRecommendationRun(ctx context.Context, run *db.RecommendationRun) error
	ListUserRecommendationRuns(ctx context.Context, userID uuid.UUID, limit int) ([]db.RecommendationRun, error)
	CountRecommendationRuns(ctx context.Context) (int, error)
}

var (
	_ DBClient = (*db.DB)(nil)
	_ DBClient = (*sqlite.Store)(nil)
)

// OpenStore connects to the backend selected by cfg and applies the schema.
// SQLite is used when SQLitePath is set or no DatabaseURL is configured.
func OpenStore(ctx context.Context, cfg *config.Config) (DBClient, error) {
	var (
		store DBClient
		err   error
	)
	if cfg.UseSQLite() {
		path := cfg.SQLitePath
		if path == "" {
			path = config.DefaultSQLitePath
		}
		logging.Info().Str("backend", "sqlite").Str("path", path).Msg("opening store")
		store, err = sqlite.Open(path)
	} else {
		logging.Info().Str("backend", "postgres").Msg("opening store")
		store, err = db.Connect(ctx, cfg.DatabaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return store, nil
}
