package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/core/usecases"
	"github.com/voltpath/voltpath/internal/pkg/metrics"
)

// discoverRequest is the POST /v1/route body. Battery fields are accepted
// for forward compatibility and passed through to the service.
type discoverRequest struct {
	Start          string   `json:"start"`
	Destination    string   `json:"destination"`
	CurrentBattery *float64 `json:"currentBattery,omitempty"`
	VehicleRange   *float64 `json:"vehicleRange,omitempty"`
}

// stationView is a station as rendered in discovery responses. isMock
// mirrors the synthetic flag under the name map clients already use.
type stationView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Address        string   `json:"address,omitempty"`
	ChargerTypes   []string `json:"chargerTypes,omitempty"`
	CostPerKwh     float64  `json:"costPerKwh"`
	AvailableSlots int      `json:"availableSlots"`
	Rating         float64  `json:"rating"`
	IsMock         bool     `json:"isMock"`
}

// discoverResponse is the discovery success payload. Route points are
// latitude-first pairs.
type discoverResponse struct {
	Route              [][2]float64  `json:"route"`
	StationsAlongRoute []stationView `json:"stationsAlongRoute"`
	Duration           float64       `json:"duration"`
	Distance           float64       `json:"distance"`
}

func toStationView(s domain.Station) stationView {
	return stationView{
		ID:             s.ID,
		Name:           s.Name,
		Lat:            s.Location.Lat,
		Lng:            s.Location.Lng,
		Address:        s.Location.Address,
		ChargerTypes:   s.ChargerTypes,
		CostPerKwh:     s.CostPerKwh,
		AvailableSlots: s.AvailableSlots,
		Rating:         s.Rating,
		IsMock:         s.IsSynthetic,
	}
}

// DiscoverRouteHandler plans a route between two place names and returns
// it together with the charging stations usable along the way.
func DiscoverRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req discoverRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.Start == "" || req.Destination == "" {
			return errBadRequest(c, "start and destination are required")
		}

		result, err := deps.Discovery.Discover(c.UserContext(), domain.DiscoveryRequest{
			Start:          req.Start,
			Destination:    req.Destination,
			CurrentBattery: req.CurrentBattery,
			VehicleRange:   req.VehicleRange,
		})
		if err != nil {
			metrics.DiscoveryRequests.WithLabelValues("error").Inc()
			return domainError(c, err)
		}

		route := make([][2]float64, 0, len(result.Path.Points))
		for _, p := range result.Path.Points {
			route = append(route, [2]float64{p.Lat, p.Lng})
		}
		stations := make([]stationView, 0, len(result.Stations))
		for _, s := range result.Stations {
			stations = append(stations, toStationView(s))
			if s.IsSynthetic {
				metrics.SyntheticStations.Inc()
			}
		}

		metrics.DiscoveryRequests.WithLabelValues("ok").Inc()
		return c.JSON(discoverResponse{
			Route:              route,
			StationsAlongRoute: stations,
			Duration:           result.Path.DurationSeconds,
			Distance:           result.Path.DistanceMeters,
		})
	}
}

// ListStationsHandler returns the station inventory with pagination.
func ListStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stations, err := deps.Stations.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(stations)
		if offset >= total {
			stations = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			stations = stations[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: stations, Pagination: pg})
	}
}

// NearbyStationsHandler returns stations within a radius of a point.
func NearbyStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lng := c.QueryFloat("lng", 0)
		radius := c.QueryFloat("radius", 5000)
		limit := c.QueryInt("limit", 20)

		if lat == 0 || lng == 0 {
			return errBadRequest(c, "lat and lng are required")
		}
		if radius <= 0 || radius > 100000 {
			return errBadRequest(c, "radius must be between 1 and 100000 meters")
		}

		stations, err := deps.Stations.FindNearby(c.Context(), lat, lng, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(stations)
	}
}

// GetStationHandler returns a single station by ID.
func GetStationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "station id is required")
		}
		station, err := deps.Stations.GetByID(c.Context(), id)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(station)
	}
}

// stationRequest is the POST/PUT station body.
type stationRequest struct {
	Name           string   `json:"name"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Address        string   `json:"address"`
	ChargerTypes   []string `json:"chargerTypes"`
	CostPerKwh     float64  `json:"costPerKwh"`
	AvailableSlots int      `json:"availableSlots"`
	Rating         float64  `json:"rating"`
}

func (r stationRequest) toDomain(id string) domain.Station {
	return domain.Station{
		ID:   id,
		Name: r.Name,
		Location: domain.StationLocation{
			Lat:     r.Lat,
			Lng:     r.Lng,
			Address: r.Address,
		},
		ChargerTypes:   r.ChargerTypes,
		CostPerKwh:     r.CostPerKwh,
		AvailableSlots: r.AvailableSlots,
		Rating:         r.Rating,
	}
}

// CreateStationHandler adds a station to the inventory.
func CreateStationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req stationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		station := req.toDomain("")
		if err := deps.Stations.Create(c.Context(), &station); err != nil {
			return domainError(c, err)
		}
		return c.Status(201).JSON(station)
	}
}

// UpdateStationHandler replaces a station's mutable fields.
func UpdateStationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "station id is required")
		}
		var req stationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		station := req.toDomain(id)
		if err := deps.Stations.Update(c.Context(), &station); err != nil {
			return domainError(c, err)
		}
		return c.JSON(station)
	}
}

// DeleteStationHandler removes a station.
func DeleteStationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "station id is required")
		}
		if err := deps.Stations.Delete(c.Context(), id); err != nil {
			return domainError(c, err)
		}
		return c.SendStatus(204)
	}
}

// CreateBookingHandler reserves a charging slot.
func CreateBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.BookingRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		booking, err := deps.Bookings.Create(c.UserContext(), req)
		if err != nil {
			return domainError(c, err)
		}
		metrics.BookingsCreated.Inc()
		return c.Status(201).JSON(booking)
	}
}

// ListBookingsHandler returns a user's bookings, newest first.
func ListBookingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("user_id")
		if userID == "" {
			return errBadRequest(c, "user_id query parameter is required")
		}

		bookings, err := deps.Bookings.ListByUser(c.Context(), userID)
		if err != nil {
			return domainError(c, err)
		}
		if bookings == nil {
			bookings = []domain.Booking{}
		}
		return c.JSON(bookings)
	}
}

// CancelBookingHandler marks a booking cancelled.
func CancelBookingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "booking id is required")
		}
		if err := deps.Bookings.Cancel(c.Context(), id); err != nil {
			return domainError(c, err)
		}
		return c.JSON(fiber.Map{"status": domain.BookingCancelled})
	}
}

// AdminStatsHandler returns the platform headline counters.
func AdminStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Admin.Stats(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// AdminAnalyticsHandler returns per-day booking volume. Defaults to the
// trailing 7 days.
func AdminAnalyticsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 7)
		trend, err := deps.Admin.BookingTrend(c.Context(), days)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if trend == nil {
			trend = []domain.DailyBookingStat{}
		}
		return c.JSON(fiber.Map{"days": days, "bookings": trend})
	}
}
