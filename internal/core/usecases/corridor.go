package usecases

import (
	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/pkg/geospatial"
)

// FilterByCorridor keeps the candidates within maxDistanceKm of the route
// polyline. Membership is tested against every stride-th vertex rather
// than the full polyline; this trades a little accuracy for a large cut
// in haversine evaluations on long routes. A candidate is kept as soon as
// one sampled vertex is close enough.
//
// The result is an order-preserving subsequence of candidates. Empty
// candidates or an empty path yield an empty result.
func FilterByCorridor(candidates []domain.Station, path []domain.GeoPoint, maxDistanceKm float64, stride int) []domain.Station {
	if len(candidates) == 0 || len(path) == 0 {
		return nil
	}
	if stride <= 0 {
		stride = 1
	}

	kept := make([]domain.Station, 0, len(candidates))
	for _, st := range candidates {
		if nearPath(st.Location.Point(), path, maxDistanceKm, stride) {
			kept = append(kept, st)
		}
	}
	return kept
}

// nearPath short-circuits on the first sampled vertex within maxDistanceKm.
func nearPath(p domain.GeoPoint, path []domain.GeoPoint, maxDistanceKm float64, stride int) bool {
	for i := 0; i < len(path); i += stride {
		if geospatial.HaversineKm(p.Lat, p.Lng, path[i].Lat, path[i].Lng) <= maxDistanceKm {
			return true
		}
	}
	return false
}
