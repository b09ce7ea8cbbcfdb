package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the WGS 84 coordinate range.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// RoutePath is an ordered driving polyline plus the totals reported by the
// routing provider. It is built once per discovery request and read-only
// afterwards.
type RoutePath struct {
	Points          []GeoPoint `json:"points"`
	DurationSeconds float64    `json:"duration_seconds"`
	DistanceMeters  float64    `json:"distance_meters"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsAround returns the bounding box enveloping two points, expanded by
// bufferDeg degrees on every side. A buffer of 0.5 is roughly 50 km and is
// used to pre-narrow station candidates before corridor filtering.
func BoundsAround(a, b GeoPoint, bufferDeg float64) Bounds {
	return Bounds{
		MinLat: min(a.Lat, b.Lat) - bufferDeg,
		MaxLat: max(a.Lat, b.Lat) + bufferDeg,
		MinLng: min(a.Lng, b.Lng) - bufferDeg,
		MaxLng: max(a.Lng, b.Lng) + bufferDeg,
	}
}
