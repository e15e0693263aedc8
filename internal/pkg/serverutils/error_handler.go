package serverutils

import (
	"errors"
	"strings"

	"ai-storefront/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into a response:
// JSON for /admin and /api, a plain page for everything else.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Đã có lỗi xảy ra, vui lòng thử lại sau."
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error(logger.ModuleHTTP, "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}

		path := ctx.Path()
		if strings.HasPrefix(path, "/admin") || strings.HasPrefix(path, "/api") {
			return ctx.Status(code).JSON(ErrorResponse(code, message))
		}
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return ctx.Status(code).SendString(message)
	}
}
