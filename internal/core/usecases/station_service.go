package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/ports"
)

// StationService handles station inventory business logic.
type StationService struct {
	stations  ports.StationRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewStationService creates a new StationService. cache and publisher may
// be nil.
func NewStationService(stations ports.StationRepository, cache ports.CacheService, publisher ports.EventPublisher) *StationService {
	return &StationService{stations: stations, cache: cache, publisher: publisher}
}

// List returns the full station inventory.
func (s *StationService) List(ctx context.Context) ([]domain.Station, error) {
	return s.stations.List(ctx)
}

// GetByID returns a single station.
func (s *StationService) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	cacheKey := "stations:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var st domain.Station
			if err := json.Unmarshal(data, &st); err == nil {
				return &st, nil
			}
		}
	}

	st, err := s.stations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(st); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}
	return st, nil
}

// FindNearby returns stations within radiusMeters of the given point.
func (s *StationService) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.Station, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("stations:nearby:%.4f:%.4f:%.0f:%d", lat, lng, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var stations []domain.Station
			if err := json.Unmarshal(data, &stations); err == nil {
				return stations, nil
			}
		}
	}

	stations, err := s.stations.FindNearby(ctx, lat, lng, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// Stations change rarely; 5 minutes is plenty.
	if s.cache != nil {
		if data, err := json.Marshal(stations); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}
	return stations, nil
}

// Create inserts a new station.
func (s *StationService) Create(ctx context.Context, st *domain.Station) error {
	if st.Name == "" {
		return fmt.Errorf("station name is required: %w", domain.ErrInvalidInput)
	}
	if !st.Location.Point().Valid() {
		return fmt.Errorf("station location out of range: %w", domain.ErrInvalidInput)
	}
	if st.CostPerKwh < 0 || st.AvailableSlots < 0 {
		return fmt.Errorf("cost and slots must be non-negative: %w", domain.ErrInvalidInput)
	}
	return s.stations.Create(ctx, st)
}

// Update replaces a station's mutable fields and invalidates its cache
// entry. Availability changes are broadcast so connected map clients can
// refresh.
func (s *StationService) Update(ctx context.Context, st *domain.Station) error {
	if !st.Location.Point().Valid() {
		return fmt.Errorf("station location out of range: %w", domain.ErrInvalidInput)
	}
	if err := s.stations.Update(ctx, st); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "stations:id:"+st.ID)
	}
	if s.publisher != nil {
		_ = s.publisher.PublishStationUpdated(ctx, st)
	}
	return nil
}

// Delete removes a station.
func (s *StationService) Delete(ctx context.Context, id string) error {
	if err := s.stations.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "stations:id:"+id)
	}
	return nil
}
