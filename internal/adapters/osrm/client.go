// Package osrm implements the RouteProvider port against an OSRM routing
// server.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/pkg/metrics"
)

const (
	defaultBaseURL = "https://router.project-osrm.org"
	defaultTimeout = 10 * time.Second

	maxIdleConns    = 10
	idleConnTimeout = 30 * time.Second
)

// Client is a RouteProvider backed by OSRM's /route/v1/driving endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. baseURL may be empty to use the public demo
// server; timeout <= 0 falls back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConns,
				IdleConnTimeout:     idleConnTimeout,
			},
		},
	}
}

type routeResponse struct {
	Code   string  `json:"code"`
	Routes []route `json:"routes"`
}

type route struct {
	Geometry geometry `json:"geometry"`
	Duration float64  `json:"duration"`
	Distance float64  `json:"distance"`
}

// geometry is a GeoJSON LineString. OSRM emits [lng, lat] pairs.
type geometry struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// Route plans a driving route between the two points. The returned path
// is latitude-first.
func (c *Client) Route(ctx context.Context, from, to domain.GeoPoint) (*domain.RoutePath, error) {
	// OSRM wants longitude first in the URL.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("route: build request: %w", domain.ErrUpstream)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.OracleLatency.WithLabelValues("osrm").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("route: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("route: read response: %w", domain.ErrUpstream)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("route: status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var parsed routeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("route: decode: %w", domain.ErrUpstream)
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("route: no drivable route (code %q): %w", parsed.Code, domain.ErrRouteNotFound)
	}

	best := parsed.Routes[0]
	points := make([]domain.GeoPoint, 0, len(best.Geometry.Coordinates))
	for _, coord := range best.Geometry.Coordinates {
		if len(coord) < 2 {
			return nil, fmt.Errorf("route: malformed coordinate pair: %w", domain.ErrUpstream)
		}
		// Flip GeoJSON [lng, lat] to the latitude-first convention the
		// rest of the pipeline uses.
		points = append(points, domain.GeoPoint{Lat: coord[1], Lng: coord[0]})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("route: empty geometry: %w", domain.ErrRouteNotFound)
	}

	return &domain.RoutePath{
		Points:          points,
		DurationSeconds: best.Duration,
		DistanceMeters:  best.Distance,
	}, nil
}
