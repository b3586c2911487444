package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RouteLogger writes one line per completed request with method, path,
// duration and trace ID. Handler errors are logged here and still
// propagate to the error handler.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		evt := log.Info()
		if err != nil {
			evt = log.Error().Err(err)
		} else {
			evt = evt.Int("status", c.Response().StatusCode())
		}
		evt.Str("trace_id", TraceID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
		return err
	}
}
