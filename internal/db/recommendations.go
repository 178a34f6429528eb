package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveRecommendationRun stores run, filling its ID and CreatedAt.
func (db *DB) SaveRecommendationRun(ctx context.Context, run *RecommendationRun) (err error) {
	defer Observe("save_recommendation_run", time.Now(), &err)

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO career_recommendations (user_id, course, skills, interest, results)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		run.UserID, run.Course, run.Skills, run.Interest, results,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save recommendation run: %w", err)
	}
	return nil
}

// ListUserRecommendationRuns returns a user's recommendation runs, newest first.
func (db *DB) ListUserRecommendationRuns(ctx context.Context, userID uuid.UUID, limit int) (runs []RecommendationRun, err error) {
	defer Observe("list_recommendation_runs", time.Now(), &err)
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, course, skills, interest, results, created_at
		 FROM career_recommendations
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, HistoryLimit(limit, DefaultUserHistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation runs: %w", err)
	}
	defer rows.Close()

	runs = []RecommendationRun{}
	for rows.Next() {
		var run RecommendationRun
		var results []byte
		if err = rows.Scan(&run.ID, &run.UserID, &run.Course, &run.Skills, &run.Interest, &results, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation run: %w", err)
		}
		if err = json.Unmarshal(results, &run.Results); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list recommendation runs: %w", err)
	}
	return runs, nil
}

// CountRecommendationRuns returns the number of stored recommendation runs.
func (db *DB) CountRecommendationRuns(ctx context.Context) (n int, err error) {
	defer Observe("count_recommendation_runs", time.Now(), &err)
	if err = db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM career_recommendations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recommendation runs: %w", err)
	}
	return n, nil
}
