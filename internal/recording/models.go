package recording

import "time"

// Recording is one bounded tracking session against a segment. Rows are
// append-only; Close fills the end state, nothing is deleted.
type Recording struct {
	ID              string    `json:"id"`
	FeatureID       string    `json:"feature_id"`
	VideoFile       string    `json:"video_file,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at,omitempty"`
	CoveragePercent float64   `json:"coverage_percent"`
}
