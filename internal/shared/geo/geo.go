package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a single coordinate in (lon, lat) order, matching GeoJSON.
type Point struct {
	Lon float64
	Lat float64
}

// HaversineKm returns the great-circle distance between two positions in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// HaversineM returns the great-circle distance between two positions in meters.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// DistancePointToPolylineM returns the minimum distance in meters from a
// position to a polyline, treating each consecutive vertex pair as a finite
// sub-segment. A single-point polyline falls back to point-to-point distance.
// Returns +Inf for an empty polyline.
//
// Sub-segment distances use an equirectangular projection around the query
// point, which is accurate to well under a meter at the sub-kilometer ranges
// coverage matching operates on.
func DistancePointToPolylineM(lat, lon float64, line []Point) float64 {
	switch len(line) {
	case 0:
		return math.Inf(1)
	case 1:
		return HaversineM(lat, lon, line[0].Lat, line[0].Lon)
	}

	min := math.Inf(1)
	for i := 0; i < len(line)-1; i++ {
		d := distanceToSubSegmentM(lat, lon, line[i], line[i+1])
		if d < min {
			min = d
		}
	}
	return min
}

// distanceToSubSegmentM projects the query point onto the finite segment a-b
// in a local planar frame and measures the haversine distance to the closest
// point on the segment.
func distanceToSubSegmentM(lat, lon float64, a, b Point) float64 {
	cosLat := math.Cos(lat * math.Pi / 180)

	ax := (a.Lon - lon) * cosLat
	ay := a.Lat - lat
	bx := (b.Lon - lon) * cosLat
	by := b.Lat - lat

	dx := bx - ax
	dy := by - ay

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// Degenerate sub-segment, both vertices coincide.
		return HaversineM(lat, lon, a.Lat, a.Lon)
	}

	// Fraction along a-b of the perpendicular foot, clamped to the segment.
	t := -(ax*dx + ay*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closestLat := a.Lat + t*(b.Lat-a.Lat)
	closestLon := a.Lon + t*(b.Lon-a.Lon)
	return HaversineM(lat, lon, closestLat, closestLon)
}

// FinitePosition reports whether lat/lon are finite, plausible coordinates.
func FinitePosition(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
