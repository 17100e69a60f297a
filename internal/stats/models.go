package stats

import "backend-roadcover/internal/recording"

type DailyBucket struct {
	Date         string `json:"date"`
	RoadsCovered int    `json:"roads_covered"`
	TotalPasses  int    `json:"total_passes"`
}

type SegmentPasses struct {
	FeatureID     string `json:"feature_id"`
	CoverageCount int    `json:"coverage_count"`
}

type Summary struct {
	TotalCovered     int                   `json:"total_covered"`
	DailyCoverage    []DailyBucket         `json:"daily_coverage"`
	MostCoveredRoads []SegmentPasses       `json:"most_covered_roads"`
	RecentRecordings []recording.Recording `json:"recent_recordings"`
}
