package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/usecases"
)

// mockCache is an in-memory CacheService shared by the service tests.
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	data, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return data, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.data, key)
	return nil
}

type mockPublisher struct {
	bookingEvents int
	stationEvents int
}

func (m *mockPublisher) PublishBookingCreated(ctx context.Context, b *domain.Booking) error {
	m.bookingEvents++
	return nil
}

func (m *mockPublisher) PublishStationUpdated(ctx context.Context, st *domain.Station) error {
	m.stationEvents++
	return nil
}

func TestStationGetByID_SecondHitServedFromCache(t *testing.T) {
	repoHits := 0
	repo := &mockStationRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Station, error) {
			repoHits++
			st := stationAt(id, 28.6, 77.2)
			return &st, nil
		},
	}
	svc := usecases.NewStationService(repo, newMockCache(), nil)

	for i := 0; i < 2; i++ {
		st, err := svc.GetByID(context.Background(), "st-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.ID != "st-1" {
			t.Fatalf("wrong station: %s", st.ID)
		}
	}
	if repoHits != 1 {
		t.Errorf("repository hit %d times, expected 1", repoHits)
	}
}

func TestStationGetByID_NotFound(t *testing.T) {
	svc := usecases.NewStationService(&mockStationRepo{}, nil, nil)
	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStationFindNearby_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockStationRepo{
		findNearbyFn: func(ctx context.Context, lat, lng, radius float64, limit int) ([]domain.Station, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := usecases.NewStationService(repo, nil, nil)

	if _, err := svc.FindNearby(context.Background(), 28.6, 77.2, 5000, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("limit not clamped: got %d", gotLimit)
	}
	if _, err := svc.FindNearby(context.Background(), 28.6, 77.2, 5000, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("zero limit not defaulted: got %d", gotLimit)
	}
}

func TestStationCreate_Validation(t *testing.T) {
	svc := usecases.NewStationService(&mockStationRepo{}, nil, nil)

	cases := []struct {
		name    string
		station domain.Station
	}{
		{"missing name", domain.Station{Location: domain.StationLocation{Lat: 28.6, Lng: 77.2}}},
		{"latitude out of range", domain.Station{Name: "x", Location: domain.StationLocation{Lat: 91, Lng: 77.2}}},
		{"negative cost", domain.Station{Name: "x", Location: domain.StationLocation{Lat: 28.6, Lng: 77.2}, CostPerKwh: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.station
			if err := svc.Create(context.Background(), &st); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestStationUpdate_InvalidatesCacheAndPublishes(t *testing.T) {
	cache := newMockCache()
	pub := &mockPublisher{}
	repo := &mockStationRepo{
		updateFn: func(ctx context.Context, st *domain.Station) error { return nil },
	}
	svc := usecases.NewStationService(repo, cache, pub)

	_ = cache.Set(context.Background(), "stations:id:st-1", []byte(`{}`), 600)

	st := stationAt("st-1", 28.6, 77.2)
	if err := svc.Update(context.Background(), &st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(context.Background(), "stations:id:st-1"); err == nil {
		t.Error("cache entry survived update")
	}
	if pub.stationEvents != 1 {
		t.Errorf("expected 1 station event, got %d", pub.stationEvents)
	}
}
