package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"backend-roadcover/internal/coverage"
	"backend-roadcover/internal/network"
)

// ErrUnsupportedFormat is returned for export formats the backend does not
// know. No state changes.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
)

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   geoJSONGeometry `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type featureCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// Export serializes every covered-or-complete segment in the given format.
// GeoJSON geometry keeps the catalog's original (lon, lat) ordering.
func Export(snapshot map[string]coverage.Record, index *network.Index, format string) ([]byte, string, error) {
	ids := coveredIDs(snapshot)

	switch format {
	case FormatJSON:
		payload, err := json.Marshal(map[string][]string{"covered_roads": ids})
		return payload, "application/json", err

	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"feature_id", "status"})
		for _, id := range ids {
			_ = w.Write([]string{id, string(snapshot[id].Display())})
		}
		w.Flush()
		return buf.Bytes(), "text/csv", w.Error()

	case FormatGeoJSON:
		fc := featureCollection{Type: "FeatureCollection", Features: []geoJSONFeature{}}
		for _, id := range ids {
			seg, ok := index.Get(id)
			if !ok {
				continue
			}
			fc.Features = append(fc.Features, geoJSONFeature{
				Type: "Feature",
				Properties: map[string]any{
					"id":      seg.ID,
					"polygon": seg.Polygon,
					"highway": seg.Highway,
					"status":  string(snapshot[id].Display()),
				},
				Geometry: geoJSONGeometry{
					Type:        "LineString",
					Coordinates: seg.Coordinates(),
				},
			})
		}
		payload, err := json.Marshal(fc)
		return payload, "application/geo+json", err

	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func coveredIDs(snapshot map[string]coverage.Record) []string {
	var ids []string
	for id, rec := range snapshot {
		if st := rec.Display(); st == coverage.StatusCovered || st == coverage.StatusComplete {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
