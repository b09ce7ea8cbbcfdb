package domain

import "errors"

// Sentinel errors shared across the core. Adapters wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is without depending on adapter packages.
var (
	// ErrInvalidInput marks a request rejected before any provider call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPlaceNotFound means the geocoding provider returned zero matches.
	ErrPlaceNotFound = errors.New("place not found")

	// ErrRouteNotFound means the routing provider reported no viable route.
	ErrRouteNotFound = errors.New("no route found")

	// ErrUpstream covers unreachable, timed-out, or malformed provider
	// responses. The detail is logged server-side; callers see a generic
	// message.
	ErrUpstream = errors.New("upstream provider failure")

	// ErrNotFound marks a missing persisted entity (station, booking).
	ErrNotFound = errors.New("not found")
)
