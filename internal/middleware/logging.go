package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs every request with the method, path, status, user
// and duration. Client errors log at warn, server errors at error.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		identity, _ := Identity(c) // zero value if pre-auth
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"user_id", identity.UserID,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			slog.Error("request failed", attrs...)
		case status >= fiber.StatusBadRequest:
			slog.Warn("request rejected", attrs...)
		default:
			slog.Info("request ok", attrs...)
		}

		return err
	}
}
