package history

import (
	"context"
	"fmt"
	"time"

	"backend-roadcover/internal/db"
)

// Repository mirrors coverage events into postgres so the in-memory store
// can be rebuilt and audited across restarts. It satisfies the pass and
// mark sink interfaces of the tracking and coverage packages.
type Repository struct {
	db db.Querier
}

func NewRepository(db db.Querier) *Repository {
	return &Repository{db: db}
}

// PassRow is one persisted coverage_history entry.
type PassRow struct {
	ID        int64     `json:"id"`
	FeatureID string    `json:"feature_id"`
	CoveredAt time.Time `json:"covered_at"`
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
}

// PassFilter narrows Passes queries; zero fields are ignored.
type PassFilter struct {
	FeatureID string
	Start     time.Time
	End       time.Time
	Limit     int
}

// RecordPass upserts the covered-roads row and appends the pass to the
// history log. Duplicate passes are expected and simply append.
func (r *Repository) RecordPass(ctx context.Context, segmentID string, at time.Time, lat, lon, accuracy float64, first bool) error {
	if first {
		_, err := r.db.Exec(ctx, `
			INSERT INTO covered_roads (feature_id) VALUES ($1)
			ON CONFLICT (feature_id) DO NOTHING
		`, segmentID)
		if err != nil {
			return err
		}
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO coverage_history (feature_id, covered_at, latitude, longitude, accuracy)
		VALUES ($1,$2,$3,$4,$5)
	`, segmentID, at, lat, lon, accuracy)
	return err
}

// SaveManualMark stores the operator's latest explicit choice. Incomplete is
// persisted like any other status, not deleted.
func (r *Repository) SaveManualMark(ctx context.Context, segmentID, status string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO manual_marks (feature_id, status, marked_at)
		VALUES ($1,$2,now())
		ON CONFLICT (feature_id) DO UPDATE SET status=EXCLUDED.status, marked_at=now()
	`, segmentID, status)
	return err
}

// Passes queries the history log newest-first.
func (r *Repository) Passes(ctx context.Context, filter PassFilter) ([]PassRow, error) {
	query := `
		SELECT id, feature_id, covered_at, COALESCE(latitude,0), COALESCE(longitude,0), COALESCE(accuracy,0)
		FROM coverage_history WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.FeatureID != "" {
		query += " AND feature_id = " + arg(filter.FeatureID)
	}
	if !filter.Start.IsZero() {
		query += " AND covered_at >= " + arg(filter.Start)
	}
	if !filter.End.IsZero() {
		query += " AND covered_at <= " + arg(filter.End)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " ORDER BY covered_at DESC LIMIT " + arg(limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passes []PassRow
	for rows.Next() {
		var p PassRow
		if err := rows.Scan(&p.ID, &p.FeatureID, &p.CoveredAt, &p.Lat, &p.Lon, &p.Accuracy); err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, rows.Err()
}
