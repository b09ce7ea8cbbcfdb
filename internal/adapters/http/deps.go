package http

import (
	"github.com/nats-io/nats.go"
	"github.com/voltpath/voltpath/internal/adapters/postgres"
	"github.com/voltpath/voltpath/internal/adapters/valkey"
	"github.com/voltpath/voltpath/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Discovery *usecases.DiscoveryService
	Stations  *usecases.StationService
	Bookings  *usecases.BookingService
	Admin     *usecases.AdminService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
