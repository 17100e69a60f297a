package coverage

import "time"

// ManualStatus is an explicit operator override. The zero value means the
// operator never touched the segment and display falls back to automatic
// state. An explicit "incomplete" is remembered, it is not the same as
// never marked.
type ManualStatus string

const (
	ManualNone       ManualStatus = ""
	ManualComplete   ManualStatus = "complete"
	ManualIncomplete ManualStatus = "incomplete"
)

// DisplayStatus is the derived per-segment status: manual override first,
// then automatic coverage.
type DisplayStatus string

const (
	StatusCovered    DisplayStatus = "covered"
	StatusUncovered  DisplayStatus = "uncovered"
	StatusComplete   DisplayStatus = "complete"
	StatusIncomplete DisplayStatus = "incomplete"
)

// Record is the mutable coverage state of one segment.
type Record struct {
	SegmentID      string       `json:"segment_id"`
	AutoCovered    bool         `json:"auto_covered"`
	Manual         ManualStatus `json:"manual_status,omitempty"`
	PassCount      int          `json:"pass_count"`
	FirstCoveredAt time.Time    `json:"first_covered_at,omitempty"`
	LastCoveredAt  time.Time    `json:"last_covered_at,omitempty"`
}

// Display resolves the precedence invariant: manual wins, else auto.
func (r Record) Display() DisplayStatus {
	switch r.Manual {
	case ManualComplete:
		return StatusComplete
	case ManualIncomplete:
		return StatusIncomplete
	}
	if r.AutoCovered {
		return StatusCovered
	}
	return StatusUncovered
}

// PassEvent is one accepted in-range fix against a segment. First is true
// only for the event that transitioned the segment to covered.
type PassEvent struct {
	SegmentID string    `json:"segment_id"`
	At        time.Time `json:"at"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Accuracy  float64   `json:"accuracy"`
	First     bool      `json:"first"`
}
