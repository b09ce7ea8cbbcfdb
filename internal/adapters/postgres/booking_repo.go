package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/voltpath/voltpath/internal/core/domain"
)

// BookingRepo implements ports.BookingRepository with pgx.
type BookingRepo struct {
	db *DB
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo(db *DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `
	id, user_id, station_id, station_name, COALESCE(station_address, ''),
	start_time, duration_hours, total_cost, status,
	COALESCE(transaction_hash, ''), currency, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.StationID, &b.StationName, &b.StationAddress,
		&b.StartTime, &b.DurationHours, &b.TotalCost, &b.Status,
		&b.TransactionHash, &b.Currency, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking and fills in its generated ID.
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO bookings (user_id, station_id, station_name, station_address,
		                      start_time, duration_hours, total_cost, status,
		                      transaction_hash, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, b.UserID, b.StationID, b.StationName, b.StationAddress,
		b.StartTime, b.DurationHours, b.TotalCost, b.Status,
		b.TransactionHash, b.Currency,
	).Scan(&b.ID, &b.CreatedAt)
}

// GetByID returns a booking by UUID.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.StationID, &b.StationName, &b.StationAddress,
			&b.StartTime, &b.DurationHours, &b.TotalCost, &b.Status,
			&b.TransactionHash, &b.Currency, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatus transitions a booking to the given status.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats returns booking count and summed revenue over confirmed and
// completed bookings.
func (r *BookingRepo) Stats(ctx context.Context) (int, float64, error) {
	var count int
	var revenue float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_cost), 0)
		FROM bookings
		WHERE status IN ($1, $2)
	`, domain.BookingConfirmed, domain.BookingCompleted).Scan(&count, &revenue)
	if err != nil {
		return 0, 0, fmt.Errorf("booking stats: %w", err)
	}
	return count, revenue, nil
}

// DailyCounts returns per-day booking counts and revenue since the given
// time, oldest day first.
func (r *BookingRepo) DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyBookingStat, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT to_char(created_at::date, 'YYYY-MM-DD'), COUNT(*), COALESCE(SUM(total_cost), 0)
		FROM bookings
		WHERE created_at >= $1
		GROUP BY created_at::date
		ORDER BY created_at::date
	`, since)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var stats []domain.DailyBookingStat
	for rows.Next() {
		var s domain.DailyBookingStat
		if err := rows.Scan(&s.Day, &s.Count, &s.Revenue); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
