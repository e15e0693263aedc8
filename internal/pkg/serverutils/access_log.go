package serverutils

import (
	"time"

	"ai-storefront/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware writes one entry per request. Health checks are skipped.
func AccessLogMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Path() == "/healthz" {
			return ctx.Next()
		}

		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		log.Info(logger.ModuleHTTP, "Request handled", map[string]interface{}{
			"method":      ctx.Method(),
			"path":        ctx.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"session_id":  SessionID(ctx),
		})
		return err
	}
}
