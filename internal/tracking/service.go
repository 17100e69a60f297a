package tracking

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"backend-roadcover/internal/coverage"
	"backend-roadcover/internal/network"
	"backend-roadcover/internal/stream"
)

// CoverageTopic is the stream hub topic coverage events are published on.
const CoverageTopic = "coverage"

// PassSink receives accepted pass events for durable storage. May be nil
// when the backend runs without a database.
type PassSink interface {
	RecordPass(ctx context.Context, segmentID string, at time.Time, lat, lon, accuracy float64, first bool) error
}

type Service struct {
	index      *network.Index
	store      *coverage.Store
	sink       PassSink
	hub        *stream.Hub
	thresholdM float64

	stateMu sync.RWMutex
	state   *RecorderState
}

func NewService(index *network.Index, store *coverage.Store, sink PassSink, hub *stream.Hub, thresholdM float64) *Service {
	return &Service{
		index:      index,
		store:      store,
		sink:       sink,
		hub:        hub,
		thresholdM: thresholdM,
	}
}

// HandleFix runs one fix through the matcher, refreshes the recorder
// readout, mirrors pass events to the sink and broadcasts new coverage.
// Sink failures are logged, never fatal: the in-memory store is the
// authority and duplicate resubmission is safe.
func (s *Service) HandleFix(ctx context.Context, fix PositionFix) ([]string, error) {
	if fix.Ts.IsZero() {
		fix.Ts = time.Now().UTC()
	}

	matches, err := matchFix(ctx, s.index, s.store, fix, s.thresholdM)
	if err != nil {
		return nil, err
	}

	s.SetRecorderState(RecorderState{
		Lat:         fix.Lat,
		Lon:         fix.Lon,
		Heading:     fix.Heading,
		Orientation: fix.Orientation,
		Ts:          fix.Ts,
	})

	if s.sink != nil {
		for _, m := range matches {
			if err := s.sink.RecordPass(ctx, m.segmentID, fix.Ts, fix.Lat, fix.Lon, fix.Accuracy, m.first); err != nil {
				log.Printf("pass persist failed for %s: %v", m.segmentID, err)
			}
		}
	}

	covered := newlyCovered(matches)
	if s.hub != nil && len(covered) > 0 {
		payload, _ := json.Marshal(CoverageEvent{
			SegmentIDs: covered,
			Lat:        fix.Lat,
			Lon:        fix.Lon,
			Ts:         fix.Ts,
		})
		s.hub.Broadcast(CoverageTopic, payload)
	}

	return covered, nil
}

// SetRecorderState replaces the live readout.
func (s *Service) SetRecorderState(state RecorderState) {
	if state.Ts.IsZero() {
		state.Ts = time.Now().UTC()
	}
	s.stateMu.Lock()
	s.state = &state
	s.stateMu.Unlock()
}

// RecorderState returns the latest readout, or false when no fix or state
// post has arrived yet.
func (s *Service) RecorderState() (RecorderState, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.state == nil {
		return RecorderState{}, false
	}
	return *s.state, true
}

// Threshold returns the configured matching threshold in meters.
func (s *Service) Threshold() float64 {
	return s.thresholdM
}
