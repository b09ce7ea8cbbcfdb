package ports

import (
	"context"

	"github.com/voltpath/voltpath/internal/core/domain"
)

// Geocoder resolves a free-text place name to a coordinate. The first
// match returned by the provider is authoritative; implementations return
// domain.ErrPlaceNotFound on zero matches and domain.ErrUpstream on
// transport or parse failure.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (domain.GeoPoint, error)
}

// RouteProvider computes a drivable path between two coordinates.
// Implementations must deliver latitude-first points regardless of the
// provider's native ordering, and return domain.ErrRouteNotFound when no
// viable route exists.
type RouteProvider interface {
	Route(ctx context.Context, from, to domain.GeoPoint) (*domain.RoutePath, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking *domain.Booking) error
	PublishStationUpdated(ctx context.Context, station *domain.Station) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
