package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const predictionColumns = `p.id, p.user_id, p.gender, p.ssc_p, p.ssc_b, p.hsc_p, p.hsc_b, p.hsc_s,
	p.degree_p, p.degree_t, p.workex, p.etest_p, p.domain,
	p.label, p.placed, p.probability, p.tier, p.created_at`

func predictionDest(p *Prediction) []any {
	return []any{
		&p.ID, &p.UserID, &p.Gender, &p.SSCPercent, &p.SSCBoard, &p.HSCPercent, &p.HSCBoard, &p.HSCStream,
		&p.DegreePercent, &p.DegreeType, &p.WorkExperience, &p.AptitudePercent, &p.Domain,
		&p.Label, &p.Placed, &p.Probability, &p.Tier, &p.CreatedAt,
	}
}

// InsertPrediction stores p, filling its ID and CreatedAt.
func (db *DB) InsertPrediction(ctx context.Context, p *Prediction) (err error) {
	defer Observe("insert_prediction", time.Now(), &err)
	err = db.pool.QueryRow(ctx,
		`INSERT INTO predictions (user_id, gender, ssc_p, ssc_b, hsc_p, hsc_b, hsc_s,
			degree_p, degree_t, workex, etest_p, domain, label, placed, probability, tier)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at`,
		p.UserID, p.Gender, p.SSCPercent, p.SSCBoard, p.HSCPercent, p.HSCBoard, p.HSCStream,
		p.DegreePercent, p.DegreeType, p.WorkExperience, p.AptitudePercent, p.Domain,
		p.Label, p.Placed, p.Probability, p.Tier,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// ListUserPredictions returns a user's predictions, newest first.
func (db *DB) ListUserPredictions(ctx context.Context, userID uuid.UUID, limit int) (preds []Prediction, err error) {
	defer Observe("list_user_predictions", time.Now(), &err)
	rows, err := db.pool.Query(ctx,
		`SELECT `+predictionColumns+`
		 FROM predictions p
		 WHERE p.user_id = $1
		 ORDER BY p.created_at DESC
		 LIMIT $2`,
		userID, HistoryLimit(limit, DefaultUserHistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	preds = []Prediction{}
	for rows.Next() {
		var p Prediction
		if err = rows.Scan(predictionDest(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return preds, nil
}

// ListAllPredictions returns predictions across all users, newest first.
func (db *DB) ListAllPredictions(ctx context.Context, limit int) (preds []PredictionWithUser, err error) {
	defer Observe("list_all_predictions", time.Now(), &err)
	rows, err := db.pool.Query(ctx,
		`SELECT `+predictionColumns+`, u.username
		 FROM predictions p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC
		 LIMIT $1`,
		HistoryLimit(limit, DefaultAdminHistoryLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	preds = []PredictionWithUser{}
	for rows.Next() {
		var p PredictionWithUser
		dest := append(predictionDest(&p.Prediction), &p.Username)
		if err = rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return preds, nil
}

// PredictionStats aggregates all stored predictions.
func (db *DB) PredictionStats(ctx context.Context) (stats *PredictionStats, err error) {
	defer Observe("prediction_stats", time.Now(), &err)

	var total, placed int
	var avg float64
	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN placed THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(probability), 0)
		 FROM predictions`,
	).Scan(&total, &placed, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate predictions: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT tier, COUNT(*) FROM predictions WHERE tier <> '' GROUP BY tier`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tiers: %w", err)
	}
	byTier, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (tierCount, error) {
		var tc tierCount
		err := row.Scan(&tc.tier, &tc.count)
		return tc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tier counts: %w", err)
	}

	tiers := make(map[string]int, len(byTier))
	for _, tc := range byTier {
		tiers[tc.tier] = tc.count
	}
	return NewPredictionStats(total, placed, avg, tiers), nil
}

type tierCount struct {
	tier  string
	count int
}
