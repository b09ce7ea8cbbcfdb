package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/voltpath/voltpath/internal/core/domain"
)

// StationRepo implements ports.StationRepository with pgx. Locations are
// stored as PostGIS geography so nearby queries can use a spatial index.
type StationRepo struct {
	db *DB
}

// NewStationRepo creates a new StationRepo.
func NewStationRepo(db *DB) *StationRepo {
	return &StationRepo{db: db}
}

const stationColumns = `
	id, name,
	ST_Y(location::geometry) as lat,
	ST_X(location::geometry) as lng,
	COALESCE(address, ''), charger_types, cost_per_kwh,
	available_slots, rating, created_at`

func scanStation(row pgx.Row) (*domain.Station, error) {
	var s domain.Station
	err := row.Scan(
		&s.ID, &s.Name,
		&s.Location.Lat, &s.Location.Lng,
		&s.Location.Address, &s.ChargerTypes, &s.CostPerKwh,
		&s.AvailableSlots, &s.Rating, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a station and fills in its generated ID.
func (r *StationRepo) Create(ctx context.Context, s *domain.Station) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO stations (name, location, address, charger_types, cost_per_kwh, available_slots, rating)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, s.Name, s.Location.Lng, s.Location.Lat, s.Location.Address,
		s.ChargerTypes, s.CostPerKwh, s.AvailableSlots, s.Rating,
	).Scan(&s.ID, &s.CreatedAt)
}

// Update replaces a station's mutable fields.
func (r *StationRepo) Update(ctx context.Context, s *domain.Station) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE stations
		SET name = $2,
		    location = ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
		    address = $5, charger_types = $6, cost_per_kwh = $7,
		    available_slots = $8, rating = $9
		WHERE id = $1
	`, s.ID, s.Name, s.Location.Lng, s.Location.Lat, s.Location.Address,
		s.ChargerTypes, s.CostPerKwh, s.AvailableSlots, s.Rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a station.
func (r *StationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns a station by UUID.
func (r *StationRepo) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+stationColumns+` FROM stations WHERE id = $1`, id)
	return scanStation(row)
}

// List returns all stations ordered by name.
func (r *StationRepo) List(ctx context.Context) ([]domain.Station, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+stationColumns+` FROM stations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStations(rows)
}

// FindInBounds returns stations inside the bounding box. The envelope
// comparison is the coarse pre-filter before corridor distance checks.
func (r *StationRepo) FindInBounds(ctx context.Context, b domain.Bounds) ([]domain.Station, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+stationColumns+`
		FROM stations
		WHERE location::geometry && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		ORDER BY name
	`, b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
	if err != nil {
		return nil, fmt.Errorf("query bounds: %w", err)
	}
	defer rows.Close()
	return collectStations(rows)
}

// FindNearby returns stations within radiusMeters using PostGIS
// ST_DWithin, nearest first, with the distance column populated.
func (r *StationRepo) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.Station, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+stationColumns+`,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance
		FROM stations
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lng, lat, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("query nearby: %w", err)
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		var s domain.Station
		var distance float64
		if err := rows.Scan(
			&s.ID, &s.Name,
			&s.Location.Lat, &s.Location.Lng,
			&s.Location.Address, &s.ChargerTypes, &s.CostPerKwh,
			&s.AvailableSlots, &s.Rating, &s.CreatedAt,
			&distance,
		); err != nil {
			return nil, err
		}
		s.Distance = &distance
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func collectStations(rows pgx.Rows) ([]domain.Station, error) {
	var stations []domain.Station
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(
			&s.ID, &s.Name,
			&s.Location.Lat, &s.Location.Lng,
			&s.Location.Address, &s.ChargerTypes, &s.CostPerKwh,
			&s.AvailableSlots, &s.Rating, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}
