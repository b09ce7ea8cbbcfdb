package http

import (
	"crypto/sha256"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ETagMiddleware tags successful GET responses with a weak validator so
// map clients polling the station inventory can short-circuit on 304.
func ETagMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Method() != fiber.MethodGet || c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		body := c.Response().Body()
		if len(body) == 0 {
			return nil
		}

		sum := sha256.Sum256(body)
		tag := fmt.Sprintf(`W/"%x"`, sum[:8])
		c.Set(fiber.HeaderETag, tag)

		if c.Get(fiber.HeaderIfNoneMatch) == tag {
			c.Status(fiber.StatusNotModified)
			c.Response().ResetBody()
		}
		return nil
	}
}
