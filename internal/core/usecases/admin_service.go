package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/ports"
)

// PlatformStats is the admin dashboard headline summary.
type PlatformStats struct {
	TotalStations int     `json:"total_stations"`
	TotalBookings int     `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// AdminService aggregates platform statistics for the operator dashboard.
type AdminService struct {
	stations ports.StationRepository
	bookings ports.BookingRepository
}

func NewAdminService(stations ports.StationRepository, bookings ports.BookingRepository) *AdminService {
	return &AdminService{stations: stations, bookings: bookings}
}

// Stats returns the headline counters.
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	count, revenue, err := s.bookings.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return &PlatformStats{
		TotalStations: len(stations),
		TotalBookings: count,
		TotalRevenue:  revenue,
	}, nil
}

// BookingTrend returns per-day booking volume for the trailing window.
func (s *AdminService) BookingTrend(ctx context.Context, days int) ([]domain.DailyBookingStat, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	stats, err := s.bookings.DailyCounts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	return stats, nil
}
