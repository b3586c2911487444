package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-Id"
const traceLocal = "trace_id"

// Tracing assigns each request a trace ID and echoes it on the
// response. A valid inbound X-Trace-Id is kept so frontend-reported
// failures can be matched against server logs.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(traceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Locals(traceLocal, traceID)
		c.Set(traceHeader, traceID)
		return c.Next()
	}
}

// TraceID returns the request's trace ID, or "" outside a traced request.
func TraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceLocal).(string)
	return id
}
