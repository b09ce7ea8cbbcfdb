//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	handler "github.com/voltpath/voltpath/internal/adapters/http"
	"github.com/voltpath/voltpath/internal/adapters/postgres"
	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/usecases"
	"github.com/voltpath/voltpath/internal/pkg/config"
)

// setupTestDB connects to the test database and returns a clean DB instance.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("voltpath-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	return db
}

// setupTestDeps creates dependencies with real repos, no cache or broker.
func setupTestDeps(t *testing.T, db *postgres.DB) *handler.Dependencies {
	stationRepo := postgres.NewStationRepo(db)
	bookingRepo := postgres.NewBookingRepo(db)

	return &handler.Dependencies{
		Discovery: usecases.NewDiscoveryService(delhiJaipurGeocoder(), &mockRouter{}, stationRepo, nil,
			usecases.NewSynthesizer(1, nil), usecases.DefaultDiscoveryOptions()),
		Stations: usecases.NewStationService(stationRepo, nil, nil),
		Bookings: usecases.NewBookingService(bookingRepo, stationRepo, nil),
		Admin:    usecases.NewAdminService(stationRepo, bookingRepo),
		DB:       db,
	}
}

// seedTestStation inserts a station and returns its UUID.
func seedTestStation(t *testing.T, db *postgres.DB, name string, lat, lng float64) string {
	ctx := context.Background()
	var id string
	if err := db.Pool.QueryRow(ctx, `
		INSERT INTO stations (name, location, address, charger_types, cost_per_kwh, available_slots, rating)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, 'Test Address', '{CCS}', 15, 4, 4.2)
		RETURNING id
	`, name, lng, lat).Scan(&id); err != nil {
		t.Fatalf("seed station: %v", err)
	}
	return id
}

// TestNearbyStations_Integration tests the geospatial query against a real database.
func TestNearbyStations_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	// Delhi coordinates
	seedTestStation(t, db, "Integ Delhi Central", 28.6139, 77.2090)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/stations/nearby?lat=28.6139&lng=77.2090&radius=5000", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stations []domain.Station
	if err := json.NewDecoder(resp.Body).Decode(&stations); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(stations) == 0 {
		t.Error("expected at least 1 nearby station, got 0")
	}
	for _, s := range stations {
		if s.Distance == nil {
			t.Errorf("station %s missing distance", s.ID)
		}
	}
}

// TestDiscoverRoute_Integration exercises the bounding box query against a
// real database. The oracles stay mocked; only the station lookup is real.
func TestDiscoverRoute_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	// A station on the Delhi-Jaipur corridor
	seedTestStation(t, db, "Integ Midway Halt", 27.8, 76.5)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/route",
		strings.NewReader(`{"start":"Delhi","destination":"Jaipur"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		StationsAlongRoute []struct {
			Name   string `json:"name"`
			IsMock bool   `json:"isMock"`
		} `json:"stationsAlongRoute"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(result.StationsAlongRoute) < 3 {
		t.Errorf("expected at least 3 stations, got %d", len(result.StationsAlongRoute))
	}
}

// TestBookingLifecycle_Integration creates and cancels a booking against a
// real database.
func TestBookingLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	stationID := seedTestStation(t, db, "Integ Booking Station", 28.5355, 77.3910)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	body := `{
		"user_id": "integ-user",
		"station_id": "` + stationID + `",
		"start_time": "2025-06-02T09:00:00Z",
		"duration_hours": 2
	}`
	req := httptest.NewRequest("POST", "/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var booking domain.Booking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if booking.ID == "" {
		t.Fatal("booking has no ID")
	}
	if booking.StationName != "Integ Booking Station" {
		t.Errorf("snapshot name: got %q", booking.StationName)
	}

	cancelReq := httptest.NewRequest("PUT", "/v1/bookings/"+booking.ID+"/cancel", nil)
	cancelResp, err := app.Test(cancelReq, -1)
	if err != nil {
		t.Fatalf("cancel booking: %v", err)
	}
	if cancelResp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", cancelResp.StatusCode)
	}
}
