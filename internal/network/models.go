package network

import "backend-roadcover/internal/shared/geo"

// Segment is one immutable stretch of road geometry from the catalog.
type Segment struct {
	ID       string      `json:"id"`
	Polygon  string      `json:"polygon,omitempty"`
	Highway  string      `json:"highway,omitempty"`
	Status   string      `json:"status"`
	Geometry []geo.Point `json:"-"`
}

// Coordinates returns the geometry in GeoJSON (lon, lat) pair order.
func (s *Segment) Coordinates() [][2]float64 {
	coords := make([][2]float64, len(s.Geometry))
	for i, p := range s.Geometry {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return coords
}
