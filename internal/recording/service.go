package recording

import (
	"context"
	"time"

	"backend-roadcover/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Start opens a recording session for a segment.
func (s *Service) Start(ctx context.Context, featureID, videoFile string) (Recording, error) {
	rec := Recording{
		ID:        uuid.NewString(),
		FeatureID: featureID,
		VideoFile: videoFile,
		StartedAt: time.Now().UTC(),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO road_recordings (id, feature_id, video_file, started_at)
		VALUES ($1,$2,$3,$4)
		RETURNING started_at
	`, rec.ID, rec.FeatureID, rec.VideoFile, rec.StartedAt)
	if err := row.Scan(&rec.StartedAt); err != nil {
		return Recording{}, err
	}
	return rec, nil
}

// Close ends the session and stores the coverage reached during it.
func (s *Service) Close(ctx context.Context, id string, coveragePercent float64) (Recording, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE road_recordings
		SET ended_at=now(), coverage_percent=$2
		WHERE id=$1
		RETURNING id, feature_id, COALESCE(video_file,''), started_at, ended_at, COALESCE(coverage_percent,0)
	`, id, coveragePercent)

	var rec Recording
	if err := row.Scan(&rec.ID, &rec.FeatureID, &rec.VideoFile, &rec.StartedAt, &rec.EndedAt, &rec.CoveragePercent); err != nil {
		return Recording{}, err
	}
	return rec, nil
}

// Recent returns the newest sessions by start time.
func (s *Service) Recent(ctx context.Context, n int) ([]Recording, error) {
	if n <= 0 {
		n = 5
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, feature_id, COALESCE(video_file,''), started_at, COALESCE(ended_at, 'epoch'::timestamptz), COALESCE(coverage_percent,0)
		FROM road_recordings
		ORDER BY started_at DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []Recording
	for rows.Next() {
		var rec Recording
		if err := rows.Scan(&rec.ID, &rec.FeatureID, &rec.VideoFile, &rec.StartedAt, &rec.EndedAt, &rec.CoveragePercent); err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}
	return recordings, rows.Err()
}
