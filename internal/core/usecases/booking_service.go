package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/ports"
)

// defaultCostPerKwh is charged when neither the inventory nor the caller
// supplies a rate (e.g. a synthetic station booked without a snapshot).
const defaultCostPerKwh = 20.0

// BookingRequest carries the inputs for creating a booking. The station
// snapshot fields are trusted only for synthetic station IDs; for real
// stations the inventory wins.
type BookingRequest struct {
	UserID         string    `json:"user_id"`
	StationID      string    `json:"station_id"`
	StationName    string    `json:"station_name,omitempty"`
	StationAddress string    `json:"station_address,omitempty"`
	CostPerKwh     float64   `json:"cost_per_kwh,omitempty"`
	StartTime      time.Time `json:"start_time"`
	DurationHours  float64   `json:"duration_hours"`
}

// BookingService handles charging slot reservations.
type BookingService struct {
	bookings  ports.BookingRepository
	stations  ports.StationRepository
	publisher ports.EventPublisher
}

// NewBookingService creates a new BookingService. publisher may be nil.
func NewBookingService(bookings ports.BookingRepository, stations ports.StationRepository, publisher ports.EventPublisher) *BookingService {
	return &BookingService{bookings: bookings, stations: stations, publisher: publisher}
}

// Create books a charging slot. Synthetic stations (sim_ IDs) exist only
// inside one discovery response, so their details are taken from the
// request; real station details are re-read from the inventory.
func (s *BookingService) Create(ctx context.Context, req BookingRequest) (*domain.Booking, error) {
	if req.UserID == "" || req.StationID == "" {
		return nil, fmt.Errorf("user_id and station_id are required: %w", domain.ErrInvalidInput)
	}
	if req.DurationHours <= 0 {
		return nil, fmt.Errorf("duration_hours must be positive: %w", domain.ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return nil, fmt.Errorf("start_time is required: %w", domain.ErrInvalidInput)
	}

	name := req.StationName
	address := req.StationAddress
	cost := req.CostPerKwh

	if !strings.HasPrefix(req.StationID, "sim_") {
		st, err := s.stations.GetByID(ctx, req.StationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("station %s: %w", req.StationID, err)
			}
			return nil, fmt.Errorf("look up station: %w", err)
		}
		name = st.Name
		address = st.Location.Address
		cost = st.CostPerKwh
	}

	if name == "" {
		name = "Unknown Station"
	}
	if cost <= 0 {
		cost = defaultCostPerKwh
	}

	booking := &domain.Booking{
		UserID:          req.UserID,
		StationID:       req.StationID,
		StationName:     name,
		StationAddress:  address,
		StartTime:       req.StartTime,
		DurationHours:   req.DurationHours,
		TotalCost:       cost * req.DurationHours,
		Status:          domain.BookingConfirmed, // auto-confirm, no payment step
		TransactionHash: newTransactionHash(),
		Currency:        "INR",
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishBookingCreated(ctx, booking)
	}
	return booking, nil
}

// ListByUser returns a user's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrInvalidInput)
	}
	return s.bookings.ListByUser(ctx, userID)
}

// Cancel marks a booking cancelled.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	if _, err := s.bookings.GetByID(ctx, id); err != nil {
		return err
	}
	return s.bookings.UpdateStatus(ctx, id, domain.BookingCancelled)
}

// newTransactionHash produces a 0x-prefixed 64-hex-digit pseudo receipt.
func newTransactionHash() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return "0x" + hex.EncodeToString(b)
}
