package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/db"
)

// SaveRecommendationRun stores run, filling its ID and CreatedAt.
func (s *Store) SaveRecommendationRun(ctx context.Context, run *db.RecommendationRun) (err error) {
	defer db.Observe("save_recommendation_run", time.Now(), &err)

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	id := uuid.New()
	createdAt := now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO career_recommendations (id, user_id, course, skills, interest, results, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), run.UserID.String(), run.Course, run.Skills, run.Interest, string(results), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation run: %w", err)
	}

	run.ID = id
	run.CreatedAt, err = parseTime(createdAt)
	return err
}

// ListUserRecommendationRuns returns a user's recommendation runs, newest first.
func (s *Store) ListUserRecommendationRuns(ctx context.Context, userID uuid.UUID, limit int) (runs []db.RecommendationRun, err error) {
	defer db.Observe("list_recommendation_runs", time.Now(), &err)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, course, skills, interest, results, created_at
		 FROM career_recommendations
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		userID.String(), db.HistoryLimit(limit, db.DefaultUserHistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation runs: %w", err)
	}
	defer rows.Close()

	runs = []db.RecommendationRun{}
	for rows.Next() {
		var run db.RecommendationRun
		var results, createdAt string
		if err = rows.Scan(&run.ID, &run.UserID, &run.Course, &run.Skills, &run.Interest, &results, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation run: %w", err)
		}
		if err = json.Unmarshal([]byte(results), &run.Results); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
		if run.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list recommendation runs: %w", err)
	}
	return runs, nil
}

// CountRecommendationRuns returns the number of stored recommendation runs.
func (s *Store) CountRecommendationRuns(ctx context.Context) (n int, err error) {
	defer db.Observe("count_recommendation_runs", time.Now(), &err)
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM career_recommendations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recommendation runs: %w", err)
	}
	return n, nil
}
