package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/ports"
)

// DiscoveryOptions tunes the route-constrained station discovery pipeline.
type DiscoveryOptions struct {
	// CorridorKm is the maximum lateral distance from the route polyline.
	CorridorKm float64
	// SampleStride is the polyline sampling interval for corridor checks.
	SampleStride int
	// MinStations is the minimum station count below which synthetic
	// stations are generated.
	MinStations int
	// BBoxBufferDeg expands the start/destination envelope for the
	// coarse repository query. 0.5 deg is roughly 50 km.
	BBoxBufferDeg float64
}

// DefaultDiscoveryOptions matches the production tuning.
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		CorridorKm:    10,
		SampleStride:  5,
		MinStations:   3,
		BBoxBufferDeg: 0.5,
	}
}

// DiscoveryService orchestrates one route discovery request: geocode both
// endpoints, plan the route, narrow the station inventory to the route
// corridor, and backfill with synthetic stations when the corridor is too
// empty. Each call owns its object graph; the service itself is stateless
// apart from the seeded synthesizer.
type DiscoveryService struct {
	geocoder ports.Geocoder
	router   ports.RouteProvider
	stations ports.StationRepository
	cache    ports.CacheService
	synth    *Synthesizer
	opts     DiscoveryOptions
}

// NewDiscoveryService creates a DiscoveryService. cache may be nil.
func NewDiscoveryService(
	geocoder ports.Geocoder,
	router ports.RouteProvider,
	stations ports.StationRepository,
	cache ports.CacheService,
	synth *Synthesizer,
	opts DiscoveryOptions,
) *DiscoveryService {
	return &DiscoveryService{
		geocoder: geocoder,
		router:   router,
		stations: stations,
		cache:    cache,
		synth:    synth,
		opts:     opts,
	}
}

// Discover runs the full pipeline. The first failure aborts the request;
// no partial results are returned. CurrentBattery and VehicleRange are
// accepted but not yet used for planning.
func (s *DiscoveryService) Discover(ctx context.Context, req domain.DiscoveryRequest) (*domain.DiscoveryResult, error) {
	start := strings.TrimSpace(req.Start)
	dest := strings.TrimSpace(req.Destination)
	if start == "" || dest == "" {
		return nil, fmt.Errorf("start and destination are required: %w", domain.ErrInvalidInput)
	}

	// The two geocodes have no data dependency, so issue them together.
	var (
		wg                sync.WaitGroup
		startPt, destPt   domain.GeoPoint
		startErr, destErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		startPt, startErr = s.resolvePlace(ctx, start)
	}()
	go func() {
		defer wg.Done()
		destPt, destErr = s.resolvePlace(ctx, dest)
	}()
	wg.Wait()

	if startErr != nil {
		return nil, fmt.Errorf("resolve start %q: %w", start, startErr)
	}
	if destErr != nil {
		return nil, fmt.Errorf("resolve destination %q: %w", dest, destErr)
	}

	path, err := s.router.Route(ctx, startPt, destPt)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	bounds := domain.BoundsAround(startPt, destPt, s.opts.BBoxBufferDeg)
	candidates, err := s.stations.FindInBounds(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("station candidates: %w", err)
	}

	stations := FilterByCorridor(candidates, path.Points, s.opts.CorridorKm, s.opts.SampleStride)

	if shortfall := s.opts.MinStations - len(stations); shortfall > 0 {
		stations = append(stations, s.synth.Synthesize(path.Points, shortfall)...)
	}

	return &domain.DiscoveryResult{Path: *path, Stations: stations}, nil
}

// resolvePlace geocodes a place name through the cache. Geocoding results
// are effectively static, so they get a long TTL.
func (s *DiscoveryService) resolvePlace(ctx context.Context, place string) (domain.GeoPoint, error) {
	cacheKey := "geocode:" + strings.ToLower(place)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pt domain.GeoPoint
			if err := json.Unmarshal(data, &pt); err == nil && pt.Valid() {
				return pt, nil
			}
		}
	}

	pt, err := s.geocoder.Geocode(ctx, place)
	if err != nil {
		return domain.GeoPoint{}, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(pt); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 86400)
		}
	}
	return pt, nil
}
