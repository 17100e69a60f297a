package coverage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"backend-roadcover/internal/network"
)

// ErrUnknownSegment is returned for marks against ids absent from the
// network catalog. The store is otherwise untouched.
var ErrUnknownSegment = errors.New("unknown segment")

// Store holds the mutable coverage state for every segment in the network.
//
// Mutation is serialized per segment id: each record carries its own mutex,
// so concurrent updates to distinct segments never block each other while
// pass counts and first-covered detection on a single segment stay race-free.
// The outer RWMutex only guards the record map itself.
type Store struct {
	index *network.Index

	mu      sync.RWMutex
	records map[string]*entry

	histMu  sync.Mutex
	history []PassEvent
}

type entry struct {
	mu  sync.Mutex
	rec Record
}

func NewStore(index *network.Index) *Store {
	return &Store{
		index:   index,
		records: make(map[string]*entry),
	}
}

// record returns the entry for id, creating it lazily on first use.
func (s *Store) record(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.records[id]
	s.mu.RUnlock()
	if ok {
		return e, nil
	}

	if _, known := s.index.Get(id); !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSegment, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.records[id]; ok {
		return e, nil
	}
	e = &entry{rec: Record{SegmentID: id}}
	s.records[id] = e
	return e, nil
}

// MarkAutoCovered applies one accepted in-range fix to the segment: the
// segment becomes (and stays) auto-covered, the pass count increments and
// the timestamps track the fix. The returned flag is true only when this
// call performed the uncovered -> covered transition, so callers can tell
// new coverage from a routine repeat pass.
func (s *Store) MarkAutoCovered(id string, at time.Time, lat, lon, accuracy float64) (bool, error) {
	e, err := s.record(id)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	first := !e.rec.AutoCovered
	e.rec.AutoCovered = true
	e.rec.PassCount++
	e.rec.LastCoveredAt = at
	if e.rec.FirstCoveredAt.IsZero() {
		e.rec.FirstCoveredAt = at
	}
	e.mu.Unlock()

	s.histMu.Lock()
	s.history = append(s.history, PassEvent{
		SegmentID: id,
		At:        at,
		Lat:       lat,
		Lon:       lon,
		Accuracy:  accuracy,
		First:     first,
	})
	s.histMu.Unlock()

	return first, nil
}

// SetManual records the operator's explicit choice for the segment. Both
// complete and incomplete are remembered; incomplete is not an erase.
func (s *Store) SetManual(id string, status ManualStatus) error {
	if status != ManualComplete && status != ManualIncomplete {
		return fmt.Errorf("invalid manual status %q", status)
	}
	e, err := s.record(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.rec.Manual = status
	e.mu.Unlock()
	return nil
}

// DisplayStatus resolves the segment's derived status. Segments without a
// record yet are uncovered.
func (s *Store) DisplayStatus(id string) (DisplayStatus, error) {
	if _, known := s.index.Get(id); !known {
		return "", fmt.Errorf("%w: %s", ErrUnknownSegment, id)
	}

	s.mu.RLock()
	e, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return StatusUncovered, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Display(), nil
}

// Snapshot returns a point-in-time copy of every touched record. Each record
// is copied under its own lock, so a record is never observed mid-update.
func (s *Store) Snapshot() map[string]Record {
	s.mu.RLock()
	entries := make(map[string]*entry, len(s.records))
	for id, e := range s.records {
		entries[id] = e
	}
	s.mu.RUnlock()

	out := make(map[string]Record, len(entries))
	for id, e := range entries {
		e.mu.Lock()
		out[id] = e.rec
		e.mu.Unlock()
	}
	return out
}

// History returns a copy of the pass-event log in append order.
func (s *Store) History() []PassEvent {
	s.histMu.Lock()
	defer s.histMu.Unlock()
	out := make([]PassEvent, len(s.history))
	copy(out, s.history)
	return out
}

// ManualMarks returns every segment the operator has explicitly marked.
func (s *Store) ManualMarks() map[string]ManualStatus {
	marks := make(map[string]ManualStatus)
	for id, rec := range s.Snapshot() {
		if rec.Manual != ManualNone {
			marks[id] = rec.Manual
		}
	}
	return marks
}
