// Package nominatim implements the Geocoder port against the OSM
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/voltpath/voltpath/internal/core/domain"
	"github.com/voltpath/voltpath/internal/pkg/metrics"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	defaultTimeout = 8 * time.Second

	maxIdleConns    = 10
	idleConnTimeout = 30 * time.Second
)

// Client is a Geocoder backed by Nominatim's /search endpoint. Nominatim's
// usage policy requires a descriptive User-Agent on every request.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates a Client. baseURL may be empty to use the public instance;
// timeout <= 0 falls back to the default.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = "voltpath-api/1.0"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
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

// searchResult is one Nominatim match. Coordinates arrive as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a place name to a coordinate using the first match.
func (c *Client) Geocode(ctx context.Context, place string) (domain.GeoPoint, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode: build request: %w", domain.ErrUpstream)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.OracleLatency.WithLabelValues("nominatim").Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %v: %w", place, err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: read response: %w", place, domain.ErrUpstream)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: status %d: %w", place, resp.StatusCode, domain.ErrUpstream)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: decode: %w", place, domain.ErrUpstream)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", place, domain.ErrPlaceNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: bad latitude %q: %w", place, results[0].Lat, domain.ErrUpstream)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: bad longitude %q: %w", place, results[0].Lon, domain.ErrUpstream)
	}

	pt := domain.GeoPoint{Lat: lat, Lng: lng}
	if !pt.Valid() {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: coordinate out of range: %w", place, domain.ErrUpstream)
	}
	return pt, nil
}
