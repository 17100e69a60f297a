package tracking

import "time"

// PositionFix is one observation from the position source. Heading and
// orientation are optional extras carried through to the recorder readout.
type PositionFix struct {
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Accuracy    float64   `json:"accuracy"`
	Heading     float64   `json:"heading,omitempty"`
	Orientation string    `json:"orientation,omitempty"`
	Ts          time.Time `json:"ts"`
}

// RecorderState is the latest-known-position readout, independent of the
// coverage computation.
type RecorderState struct {
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Heading     float64   `json:"heading"`
	Orientation string    `json:"orientation,omitempty"`
	Ts          time.Time `json:"ts"`
}

// CoverageEvent is broadcast on the stream hub when a fix transitions
// segments to covered.
type CoverageEvent struct {
	SegmentIDs []string  `json:"segment_ids"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Ts         time.Time `json:"ts"`
}
