package ports

import (
	"context"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
)

// StationRepository persists charging stations.
type StationRepository interface {
	Create(ctx context.Context, station *domain.Station) error
	Update(ctx context.Context, station *domain.Station) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	List(ctx context.Context) ([]domain.Station, error)
	// FindInBounds returns all stations whose location falls inside the
	// bounding box. This is the coarse pre-filter for corridor discovery.
	FindInBounds(ctx context.Context, bounds domain.Bounds) ([]domain.Station, error)
	FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.Station, error)
}

// BookingRepository persists charging slot reservations.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// Stats returns booking count and summed revenue over confirmed and
	// completed bookings.
	Stats(ctx context.Context) (count int, revenue float64, err error)
	// DailyCounts returns per-day booking counts and revenue since the
	// given time, oldest day first.
	DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyBookingStat, error)
}
