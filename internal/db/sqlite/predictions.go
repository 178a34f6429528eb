package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/db"
)

const predictionColumns = `p.id, p.user_id, p.gender, p.ssc_p, p.ssc_b, p.hsc_p, p.hsc_b, p.hsc_s,
	p.degree_p, p.degree_t, p.workex, p.etest_p, p.domain,
	p.label, p.placed, p.probability, p.tier, p.created_at`

// InsertPrediction stores p, filling its ID and CreatedAt.
func (s *Store) InsertPrediction(ctx context.Context, p *db.Prediction) (err error) {
	defer db.Observe("insert_prediction", time.Now(), &err)

	id := uuid.New()
	createdAt := now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO predictions (id, user_id, gender, ssc_p, ssc_b, hsc_p, hsc_b, hsc_s,
			degree_p, degree_t, workex, etest_p, domain, label, placed, probability, tier, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), p.UserID.String(), p.Gender, p.SSCPercent, p.SSCBoard, p.HSCPercent, p.HSCBoard, p.HSCStream,
		p.DegreePercent, p.DegreeType, p.WorkExperience, p.AptitudePercent, p.Domain,
		p.Label, p.Placed, p.Probability, p.Tier, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	p.ID = id
	p.CreatedAt, err = parseTime(createdAt)
	return err
}

// scanPrediction reads predictionColumns plus any extra destinations.
func scanPrediction(rows *sql.Rows, p *db.Prediction, extra ...any) error {
	var createdAt string
	dest := []any{
		&p.ID, &p.UserID, &p.Gender, &p.SSCPercent, &p.SSCBoard, &p.HSCPercent, &p.HSCBoard, &p.HSCStream,
		&p.DegreePercent, &p.DegreeType, &p.WorkExperience, &p.AptitudePercent, &p.Domain,
		&p.Label, &p.Placed, &p.Probability, &p.Tier, &createdAt,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return fmt.Errorf("failed to scan prediction: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return fmt.Errorf("failed to scan prediction: %w", err)
	}
	p.CreatedAt = t
	return nil
}

// ListUserPredictions returns a user's predictions, newest first.
func (s *Store) ListUserPredictions(ctx context.Context, userID uuid.UUID, limit int) (preds []db.Prediction, err error) {
	defer db.Observe("list_user_predictions", time.Now(), &err)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+predictionColumns+`
		 FROM predictions p
		 WHERE p.user_id = ?
		 ORDER BY p.created_at DESC, p.rowid DESC
		 LIMIT ?`,
		userID.String(), db.HistoryLimit(limit, db.DefaultUserHistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	preds = []db.Prediction{}
	for rows.Next() {
		var p db.Prediction
		if err = scanPrediction(rows, &p); err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return preds, nil
}

// ListAllPredictions returns predictions across all users, newest first.
func (s *Store) ListAllPredictions(ctx context.Context, limit int) (preds []db.PredictionWithUser, err error) {
	defer db.Observe("list_all_predictions", time.Now(), &err)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+predictionColumns+`, u.username
		 FROM predictions p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC, p.rowid DESC
		 LIMIT ?`,
		db.HistoryLimit(limit, db.DefaultAdminHistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	preds = []db.PredictionWithUser{}
	for rows.Next() {
		var p db.PredictionWithUser
		if err = scanPrediction(rows, &p.Prediction, &p.Username); err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return preds, nil
}

// PredictionStats aggregates all stored predictions.
func (s *Store) PredictionStats(ctx context.Context) (stats *db.PredictionStats, err error) {
	defer db.Observe("prediction_stats", time.Now(), &err)

	var total, placed int
	var avg float64
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(placed), 0), COALESCE(AVG(probability), 0.0) FROM predictions`,
	).Scan(&total, &placed, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate predictions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tier, COUNT(*) FROM predictions WHERE tier <> '' GROUP BY tier`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tiers: %w", err)
	}
	defer rows.Close()

	tiers := map[string]int{}
	for rows.Next() {
		var tier string
		var count int
		if err = rows.Scan(&tier, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tier counts: %w", err)
		}
		tiers[tier] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate tiers: %w", err)
	}
	return db.NewPredictionStats(total, placed, avg, tiers), nil
}
