package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cacheRule maps a path or path prefix to a Cache-Control value. Rules are
// evaluated in order; the first match wins.
type cacheRule struct {
	path   string
	prefix bool
	value  string
}

var cacheRules = []cacheRule{
	{path: "/v1/health", value: "public, max-age=10"},
	{path: "/v1/ready", value: "public, max-age=10"},
	{path: "/metrics", value: "no-cache"},
	{path: "/graphql", value: "private, max-age=0"},
	{path: "/v1/stations/nearby", prefix: true, value: "public, max-age=300"},
	{path: "/v1/stations/", prefix: true, value: "public, max-age=600"},
	{path: "/v1/stations", value: "public, max-age=300"},
	{path: "/v1/bookings", prefix: true, value: "private, max-age=0"},
	{path: "/v1/admin", prefix: true, value: "public, max-age=60"},
	{path: "/v1/", prefix: true, value: "public, max-age=300"},
}

// CachingMiddleware applies a default Cache-Control header to GET
// responses that a handler has not already tagged.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		for _, r := range cacheRules {
			if (r.prefix && strings.HasPrefix(path, r.path)) || path == r.path {
				c.Set(fiber.HeaderCacheControl, r.value)
				break
			}
		}
		return err
	}
}
