package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"backend-roadcover/internal/shared/geo"
)

// ErrLoad marks any structural problem with the road network source. Load
// errors are fatal at startup; the index never partially loads.
var ErrLoad = errors.New("road network load error")

// Index is the read-only segment catalog. It is built once by Load/Parse and
// is safe for concurrent reads afterwards.
type Index struct {
	segments []*Segment
	byID     map[string]*Segment
	polygons []string
	highways []string
	statuses []string
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   featureGeometry `json:"geometry"`
}

type featureGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Load reads and parses the GeoJSON segment catalog at path.
func Load(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}
	return Parse(raw)
}

// Parse builds an Index from a GeoJSON FeatureCollection of LineString
// features. Every feature must carry an id property and at least one
// coordinate; segment status defaults to "allowed".
func Parse(raw []byte) (*Index, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("%w: invalid geojson: %v", ErrLoad, err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%w: no features in collection", ErrLoad)
	}

	idx := &Index{byID: make(map[string]*Segment, len(fc.Features))}
	polygons := map[string]struct{}{}
	highways := map[string]struct{}{}
	statuses := map[string]struct{}{}

	for i, f := range fc.Features {
		seg, err := parseFeature(i, f)
		if err != nil {
			return nil, err
		}
		if _, dup := idx.byID[seg.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate segment id %q", ErrLoad, seg.ID)
		}
		idx.byID[seg.ID] = seg
		idx.segments = append(idx.segments, seg)
		if seg.Polygon != "" {
			polygons[seg.Polygon] = struct{}{}
		}
		if seg.Highway != "" {
			highways[seg.Highway] = struct{}{}
		}
		statuses[seg.Status] = struct{}{}
	}

	idx.polygons = sortedKeys(polygons)
	idx.highways = sortedKeys(highways)
	idx.statuses = sortedKeys(statuses)
	return idx, nil
}

func parseFeature(i int, f feature) (*Segment, error) {
	id := stringProp(f.Properties, "id")
	if id == "" {
		return nil, fmt.Errorf("%w: feature %d has no id", ErrLoad, i)
	}

	var coords [][]float64
	switch f.Geometry.Type {
	case "LineString":
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("%w: segment %s: bad coordinates: %v", ErrLoad, id, err)
		}
	case "Point":
		var pt []float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &pt); err != nil {
			return nil, fmt.Errorf("%w: segment %s: bad coordinates: %v", ErrLoad, id, err)
		}
		coords = [][]float64{pt}
	default:
		return nil, fmt.Errorf("%w: segment %s: unsupported geometry %q", ErrLoad, id, f.Geometry.Type)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: segment %s has no geometry", ErrLoad, id)
	}

	geometry := make([]geo.Point, len(coords))
	for j, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: segment %s: coordinate %d is not a lon/lat pair", ErrLoad, id, j)
		}
		geometry[j] = geo.Point{Lon: c[0], Lat: c[1]}
	}

	status := stringProp(f.Properties, "status")
	if status == "" {
		status = "allowed"
	}

	return &Segment{
		ID:       id,
		Polygon:  stringProp(f.Properties, "polygon"),
		Highway:  stringProp(f.Properties, "highway"),
		Status:   status,
		Geometry: geometry,
	}, nil
}

func stringProp(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		// Some extracts carry numeric ids.
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the segment for id, or false when the id is unknown.
func (idx *Index) Get(id string) (*Segment, bool) {
	seg, ok := idx.byID[id]
	return seg, ok
}

// All returns every segment in load order. Callers must not mutate the slice
// or the segments.
func (idx *Index) All() []*Segment {
	return idx.segments
}

// Len returns the segment count.
func (idx *Index) Len() int {
	return len(idx.segments)
}

// Polygons returns the distinct polygon tags, sorted.
func (idx *Index) Polygons() []string { return idx.polygons }

// Highways returns the distinct highway tags, sorted.
func (idx *Index) Highways() []string { return idx.highways }

// Statuses returns the distinct status values, sorted.
func (idx *Index) Statuses() []string { return idx.statuses }
