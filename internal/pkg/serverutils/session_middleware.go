package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "storefront_session"
	sessionLocalKey   = "session_id"
)

// SessionMiddleware makes sure every browser carries a session id cookie and
// exposes it through SessionID.
func SessionMiddleware(ttl time.Duration, secure bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Cookies(SessionCookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		// Sliding expiry
		ctx.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		ctx.Locals(sessionLocalKey, id)
		return ctx.Next()
	}
}

func SessionID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(sessionLocalKey).(string)
	return id
}
