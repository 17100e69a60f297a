package stats

import (
	"context"
	"log"
	"sort"

	"backend-roadcover/internal/coverage"
	"backend-roadcover/internal/recording"
)

const (
	dailyLimit       = 30
	mostCoveredLimit = 10
	recordingsLimit  = 5
)

// RecordingSource supplies recent recording sessions. May be nil when the
// backend runs without a database.
type RecordingSource interface {
	Recent(ctx context.Context, n int) ([]recording.Recording, error)
}

// Service derives read-only summaries from the coverage store. It never
// mutates store state and tolerates an empty store.
type Service struct {
	store      *coverage.Store
	recordings RecordingSource
}

func NewService(store *coverage.Store, recordings RecordingSource) *Service {
	return &Service{store: store, recordings: recordings}
}

// TotalCovered counts segments displayed as covered or complete.
func TotalCovered(snapshot map[string]coverage.Record) int {
	total := 0
	for _, rec := range snapshot {
		if st := rec.Display(); st == coverage.StatusCovered || st == coverage.StatusComplete {
			total++
		}
	}
	return total
}

// Daily buckets pass events by UTC calendar date, newest date first, capped
// at 30 days. roads_covered counts distinct segments passed that day,
// total_passes counts every accepted pass.
func Daily(history []coverage.PassEvent) []DailyBucket {
	type dayAgg struct {
		roads  map[string]struct{}
		passes int
	}
	days := map[string]*dayAgg{}
	for _, ev := range history {
		date := ev.At.UTC().Format("2006-01-02")
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{roads: map[string]struct{}{}}
			days[date] = agg
		}
		agg.roads[ev.SegmentID] = struct{}{}
		agg.passes++
	}

	buckets := make([]DailyBucket, 0, len(days))
	for date, agg := range days {
		buckets = append(buckets, DailyBucket{
			Date:         date,
			RoadsCovered: len(agg.roads),
			TotalPasses:  agg.passes,
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date > buckets[j].Date })
	if len(buckets) > dailyLimit {
		buckets = buckets[:dailyLimit]
	}
	return buckets
}

// MostCovered ranks segments by pass count descending. Ties break on
// segment id ascending so the ranking is deterministic.
func MostCovered(snapshot map[string]coverage.Record, n int) []SegmentPasses {
	ranked := make([]SegmentPasses, 0, len(snapshot))
	for id, rec := range snapshot {
		if rec.PassCount == 0 {
			continue
		}
		ranked = append(ranked, SegmentPasses{FeatureID: id, CoverageCount: rec.PassCount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CoverageCount != ranked[j].CoverageCount {
			return ranked[i].CoverageCount > ranked[j].CoverageCount
		}
		return ranked[i].FeatureID < ranked[j].FeatureID
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Summary assembles the dashboard stats payload. Recording lookups are
// best-effort: a database failure degrades to an empty list.
func (s *Service) Summary(ctx context.Context) Summary {
	snapshot := s.store.Snapshot()

	recent := []recording.Recording{}
	if s.recordings != nil {
		recordings, err := s.recordings.Recent(ctx, recordingsLimit)
		if err != nil {
			log.Printf("recent recordings lookup failed: %v", err)
		} else if recordings != nil {
			recent = recordings
		}
	}

	return Summary{
		TotalCovered:     TotalCovered(snapshot),
		DailyCoverage:    Daily(s.store.History()),
		MostCoveredRoads: MostCovered(snapshot, mostCoveredLimit),
		RecentRecordings: recent,
	}
}
