package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/usecases"
)

func TestAdminStats(t *testing.T) {
	stations := &listStationRepo{
		mockStationRepo: &mockStationRepo{},
		list: []domain.Station{
			stationAt("s1", 28.6, 77.2),
			stationAt("s2", 28.7, 77.3),
		},
	}
	repo := &mockBookingRepo{
		statsFn: func(ctx context.Context) (int, float64, error) {
			return 12, 4321.5, nil
		},
	}

	svc := usecases.NewAdminService(stations, repo)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalStations != 2 || stats.TotalBookings != 12 || stats.TotalRevenue != 4321.5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

// listStationRepo overrides List on the shared mock.
type listStationRepo struct {
	*mockStationRepo
	list []domain.Station
}

func (r *listStationRepo) List(ctx context.Context) ([]domain.Station, error) {
	return r.list, nil
}

func TestAdminBookingTrend_WindowDefaulting(t *testing.T) {
	var gotSince time.Time
	repo := &mockBookingRepo{
		dailyCountsFn: func(ctx context.Context, since time.Time) ([]domain.DailyBookingStat, error) {
			gotSince = since
			return []domain.DailyBookingStat{{Day: "2025-06-01", Count: 3, Revenue: 120}}, nil
		},
	}
	svc := usecases.NewAdminService(&mockStationRepo{}, repo)

	stats, err := svc.BookingTrend(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 1 || stats[0].Day != "2025-06-01" {
		t.Errorf("unexpected trend: %+v", stats)
	}
	wantEarliest := time.Now().AddDate(0, 0, -31)
	if gotSince.Before(wantEarliest) {
		t.Errorf("window not defaulted to 30 days: since=%v", gotSince)
	}
}
