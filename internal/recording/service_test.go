package recording

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var errRecording = errors.New("recording error")

func TestStartRecording(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	startedAt := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO road_recordings`).
		WithArgs(pgxmock.AnyArg(), "S1", "road_S1.mp4", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"started_at"}).AddRow(startedAt))

	svc := NewService(mock)
	rec, err := svc.Start(context.Background(), "S1", "road_S1.mp4")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec.ID == "" || rec.FeatureID != "S1" {
		t.Fatalf("unexpected recording: %+v", rec)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStartRecordingError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO road_recordings`).
		WithArgs(pgxmock.AnyArg(), "S1", "", pgxmock.AnyArg()).
		WillReturnError(errRecording)

	svc := NewService(mock)
	if _, err := svc.Start(context.Background(), "S1", ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCloseRecording(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE road_recordings`).
		WithArgs("rec-1", 87.5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "feature_id", "video_file", "started_at", "ended_at", "coverage_percent"}).
			AddRow("rec-1", "S1", "road_S1.mp4", now.Add(-time.Hour), now, 87.5))

	svc := NewService(mock)
	rec, err := svc.Close(context.Background(), "rec-1", 87.5)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if rec.CoveragePercent != 87.5 || rec.EndedAt.IsZero() {
		t.Fatalf("unexpected recording: %+v", rec)
	}
}

func TestRecentRecordings(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, feature_id`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "feature_id", "video_file", "started_at", "ended_at", "coverage_percent"}).
			AddRow("rec-2", "S2", "", now, now, 50.0).
			AddRow("rec-1", "S1", "road_S1.mp4", now.Add(-time.Hour), now, 100.0))

	svc := NewService(mock)
	recordings, err := svc.Recent(context.Background(), 0)
	if err != nil || len(recordings) != 2 {
		t.Fatalf("recent: %v %v", recordings, err)
	}
	if recordings[0].ID != "rec-2" {
		t.Fatalf("expected newest first")
	}
}

func TestRecentRecordingsQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, feature_id`).
		WithArgs(5).
		WillReturnError(errRecording)

	svc := NewService(mock)
	if _, err := svc.Recent(context.Background(), 5); err == nil {
		t.Fatalf("expected error")
	}
}
