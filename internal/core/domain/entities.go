package domain

import (
	"time"
)

// StationLocation is a station's coordinate plus its street address.
type StationLocation struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Point returns the location as a bare coordinate.
func (l StationLocation) Point() GeoPoint {
	return GeoPoint{Lat: l.Lat, Lng: l.Lng}
}

// Station represents an EV charging station. Real stations live in the
// database; synthetic stations are fabricated for a single discovery
// response and never persisted.
type Station struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Location       StationLocation `json:"location"`
	ChargerTypes   []string        `json:"charger_types,omitempty"`
	CostPerKwh     float64         `json:"cost_per_kwh"`
	AvailableSlots int             `json:"available_slots"`
	Rating         float64         `json:"rating"`
	IsSynthetic    bool            `json:"is_synthetic"`
	Distance       *float64        `json:"distance,omitempty"` // computed field, meters
	CreatedAt      time.Time       `json:"created_at"`
}

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking is a charging slot reservation. Station details are snapshotted
// at booking time so that bookings against synthetic stations stay
// readable after the station itself is gone.
type Booking struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	StationID       string    `json:"station_id"`
	StationName     string    `json:"station_name"`
	StationAddress  string    `json:"station_address,omitempty"`
	StartTime       time.Time `json:"start_time"`
	DurationHours   float64   `json:"duration_hours"`
	TotalCost       float64   `json:"total_cost"`
	Status          string    `json:"status"`
	TransactionHash string    `json:"transaction_hash,omitempty"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"created_at"`
}

// DailyBookingStat is one day's booking volume for admin analytics.
type DailyBookingStat struct {
	Day     string  `json:"day"` // YYYY-MM-DD
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// DiscoveryRequest carries the inputs of one route discovery call.
// CurrentBattery and VehicleRange are accepted for forward compatibility
// with range-aware planning but do not influence the result today.
type DiscoveryRequest struct {
	Start          string   `json:"start"`
	Destination    string   `json:"destination"`
	CurrentBattery *float64 `json:"current_battery,omitempty"`
	VehicleRange   *float64 `json:"vehicle_range,omitempty"`
}

// DiscoveryResult is the single output artifact of route discovery: the
// drivable path and the stations usable along it. It has no identity and
// is never persisted.
type DiscoveryResult struct {
	Path     RoutePath `json:"path"`
	Stations []Station `json:"stations"`
}
