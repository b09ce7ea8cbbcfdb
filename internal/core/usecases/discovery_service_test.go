package usecases_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/usecases"
)

// ---- Mock collaborators ----

type mockGeocoder struct {
	calls int32
	fn    func(ctx context.Context, place string) (domain.GeoPoint, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, place string) (domain.GeoPoint, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.fn != nil {
		return m.fn(ctx, place)
	}
	return domain.GeoPoint{}, nil
}

type mockRouteProvider struct {
	calls int32
	fn    func(ctx context.Context, from, to domain.GeoPoint) (*domain.RoutePath, error)
}

func (m *mockRouteProvider) Route(ctx context.Context, from, to domain.GeoPoint) (*domain.RoutePath, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.fn != nil {
		return m.fn(ctx, from, to)
	}
	return &domain.RoutePath{Points: delhiJaipurPath(50)}, nil
}

type mockStationRepo struct {
	findInBoundsCalls int32
	findInBoundsFn    func(ctx context.Context, bounds domain.Bounds) ([]domain.Station, error)
	getByIDFn         func(ctx context.Context, id string) (*domain.Station, error)
	createFn          func(ctx context.Context, st *domain.Station) error
	updateFn          func(ctx context.Context, st *domain.Station) error
	findNearbyFn      func(ctx context.Context, lat, lng, radius float64, limit int) ([]domain.Station, error)
}

func (m *mockStationRepo) Create(ctx context.Context, st *domain.Station) error {
	if m.createFn != nil {
		return m.createFn(ctx, st)
	}
	return nil
}

func (m *mockStationRepo) Update(ctx context.Context, st *domain.Station) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, st)
	}
	return nil
}

func (m *mockStationRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockStationRepo) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockStationRepo) List(ctx context.Context) ([]domain.Station, error) { return nil, nil }

func (m *mockStationRepo) FindInBounds(ctx context.Context, bounds domain.Bounds) ([]domain.Station, error) {
	atomic.AddInt32(&m.findInBoundsCalls, 1)
	if m.findInBoundsFn != nil {
		return m.findInBoundsFn(ctx, bounds)
	}
	return nil, nil
}

func (m *mockStationRepo) FindNearby(ctx context.Context, lat, lng, radius float64, limit int) ([]domain.Station, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lng, radius, limit)
	}
	return nil, nil
}

// ---- Test fixtures ----

var (
	delhi  = domain.GeoPoint{Lat: 28.6139, Lng: 77.2090}
	jaipur = domain.GeoPoint{Lat: 26.9124, Lng: 75.7873}
)

func delhiJaipurGeocoder() *mockGeocoder {
	return &mockGeocoder{fn: func(ctx context.Context, place string) (domain.GeoPoint, error) {
		switch place {
		case "Delhi":
			return delhi, nil
		case "Jaipur":
			return jaipur, nil
		}
		return domain.GeoPoint{}, domain.ErrPlaceNotFound
	}}
}

func newDiscovery(g *mockGeocoder, r *mockRouteProvider, repo *mockStationRepo) *usecases.DiscoveryService {
	synth := usecases.NewSynthesizer(42, func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
	return usecases.NewDiscoveryService(g, r, repo, nil, synth, usecases.DefaultDiscoveryOptions())
}

// ---- Tests ----

func TestDiscover_BackfillsToMinimumThree(t *testing.T) {
	path := delhiJaipurPath(50)
	// One real station within 10 km of a sampled vertex.
	real := stationAt("real-1", path[10].Lat, path[10].Lng)

	repo := &mockStationRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Station, error) {
			return []domain.Station{real}, nil
		},
	}
	router := &mockRouteProvider{fn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RoutePath, error) {
		return &domain.RoutePath{Points: path, DurationSeconds: 18000, DistanceMeters: 280000}, nil
	}}

	svc := newDiscovery(delhiJaipurGeocoder(), router, repo)
	result, err := svc.Discover(context.Background(), domain.DiscoveryRequest{Start: "Delhi", Destination: "Jaipur"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Stations) != 3 {
		t.Fatalf("expected 3 stations, got %d", len(result.Stations))
	}
	synthetic := 0
	for _, st := range result.Stations {
		if st.IsSynthetic {
			synthetic++
		}
	}
	if synthetic != 2 {
		t.Errorf("expected exactly 2 synthetic stations, got %d", synthetic)
	}
	if result.Stations[0].ID != "real-1" {
		t.Errorf("real station should lead the list, got %s", result.Stations[0].ID)
	}
	if result.Path.DurationSeconds != 18000 || result.Path.DistanceMeters != 280000 {
		t.Errorf("route totals not carried through: %+v", result.Path)
	}
}

func TestDiscover_NoSynthesisWhenEnoughRealStations(t *testing.T) {
	path := delhiJaipurPath(50)
	repo := &mockStationRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Station, error) {
			return []domain.Station{
				stationAt("r1", path[5].Lat, path[5].Lng),
				stationAt("r2", path[20].Lat, path[20].Lng),
				stationAt("r3", path[35].Lat, path[35].Lng),
			}, nil
		},
	}
	router := &mockRouteProvider{fn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RoutePath, error) {
		return &domain.RoutePath{Points: path}, nil
	}}

	svc := newDiscovery(delhiJaipurGeocoder(), router, repo)
	result, err := svc.Discover(context.Background(), domain.DiscoveryRequest{Start: "Delhi", Destination: "Jaipur"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, st := range result.Stations {
		if st.IsSynthetic {
			t.Errorf("no synthesis expected with 3 real stations, got %s", st.ID)
		}
	}
}

func TestDiscover_EmptyStartFailsBeforeAnyProviderCall(t *testing.T) {
	geo := delhiJaipurGeocoder()
	router := &mockRouteProvider{}
	repo := &mockStationRepo{}

	svc := newDiscovery(geo, router, repo)
	_, err := svc.Discover(context.Background(), domain.DiscoveryRequest{Start: "", Destination: "Jaipur"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if n := atomic.LoadInt32(&geo.calls); n != 0 {
		t.Errorf("geocoder called %d times, expected 0", n)
	}
	if n := atomic.LoadInt32(&router.calls); n != 0 {
		t.Errorf("route provider called %d times, expected 0", n)
	}
	if n := atomic.LoadInt32(&repo.findInBoundsCalls); n != 0 {
		t.Errorf("station repo called %d times, expected 0", n)
	}
}

func TestDiscover_UnresolvableDestinationStopsPipeline(t *testing.T) {
	router := &mockRouteProvider{}
	repo := &mockStationRepo{}

	svc := newDiscovery(delhiJaipurGeocoder(), router, repo)
	_, err := svc.Discover(context.Background(), domain.DiscoveryRequest{Start: "Delhi", Destination: "Atlantis"})
	if !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
	if n := atomic.LoadInt32(&router.calls); n != 0 {
		t.Errorf("route provider called %d times, expected 0", n)
	}
	if n := atomic.LoadInt32(&repo.findInBoundsCalls); n != 0 {
		t.Errorf("station repo called %d times, expected 0", n)
	}
}

func TestDiscover_RouteFailurePropagates(t *testing.T) {
	router := &mockRouteProvider{fn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RoutePath, error) {
		return nil, domain.ErrRouteNotFound
	}}
	repo := &mockStationRepo{}

	svc := newDiscovery(delhiJaipurGeocoder(), router, repo)
	_, err := svc.Discover(context.Background(), domain.DiscoveryRequest{Start: "Delhi", Destination: "Jaipur"})
	if !errors.Is(err, domain.ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
	if n := atomic.LoadInt32(&repo.findInBoundsCalls); n != 0 {
		t.Errorf("station repo called %d times, expected 0", n)
	}
}

func TestDiscover_GeocodeCacheHitSkipsProvider(t *testing.T) {
	cache := newMockCache()
	if err := cache.Set(context.Background(), "geocode:delhi", []byte(`{"lat":28.6139,"lng":77.209}`), 86400); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	geo := delhiJaipurGeocoder()
	synth := usecases.NewSynthesizer(1, fixedClock)
	svc := usecases.NewDiscoveryService(geo, &mockRouteProvider{}, &mockStationRepo{}, cache, synth, usecases.DefaultDiscoveryOptions())

	if _, err := svc.Discover(context.Background(), domain.DiscoveryRequest{Start: "Delhi", Destination: "Jaipur"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the destination should have hit the geocoder.
	if n := atomic.LoadInt32(&geo.calls); n != 1 {
		t.Errorf("geocoder called %d times, expected 1", n)
	}
	// The destination result should now be cached too.
	if _, err := cache.Get(context.Background(), "geocode:jaipur"); err != nil {
		t.Errorf("destination geocode was not cached: %v", err)
	}
}

func TestDiscover_BoundsCoverBothEndpointsPlusBuffer(t *testing.T) {
	var got domain.Bounds
	repo := &mockStationRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Station, error) {
			got = bounds
			return nil, nil
		},
	}
	svc := newDiscovery(delhiJaipurGeocoder(), &mockRouteProvider{}, repo)
	if _, err := svc.Discover(context.Background(), domain.DiscoveryRequest{Start: "Delhi", Destination: "Jaipur"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.BoundsAround(delhi, jaipur, 0.5)
	if got != want {
		t.Errorf("bounds mismatch: got %+v want %+v", got, want)
	}
}
