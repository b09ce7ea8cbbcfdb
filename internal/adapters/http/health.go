package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 3 * time.Second

// HealthHandler is a pure liveness probe; it never touches dependencies.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler probes every backing service. The database is mandatory;
// the broker and cache degrade the report but a missing broker alone does
// not fail readiness since the API can serve without live events.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	type probe struct {
		name     string
		required bool
		check    func(ctx context.Context) string
	}

	probes := []probe{
		{"database", true, func(ctx context.Context) string {
			if deps.DB == nil {
				return "not configured"
			}
			if err := deps.DB.Pool.Ping(ctx); err != nil {
				return "error: " + err.Error()
			}
			return "ok"
		}},
		{"nats", false, func(ctx context.Context) string {
			if deps.NATS == nil {
				return "not configured"
			}
			if !deps.NATS.IsConnected() {
				return "disconnected"
			}
			return "ok"
		}},
		{"cache", false, func(ctx context.Context) string {
			if deps.Cache == nil {
				return "not configured"
			}
			if err := deps.Cache.Ping(ctx); err != nil {
				return "error: " + err.Error()
			}
			return "ok"
		}},
	}

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(probes))
		ready := true
		for _, p := range probes {
			result := p.check(ctx)
			checks[p.name] = result
			if p.required && result != "ok" {
				ready = false
			}
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
	}
}
