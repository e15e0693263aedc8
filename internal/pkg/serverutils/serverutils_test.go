package serverutils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-storefront/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", JwtMiddleware("s3cret"), func(c *fiber.Ctx) error { return c.SendString("ok") })

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", jwt.MapClaims{"role": "admin"}), http.StatusUnauthorized},
		{"not admin", "Bearer " + signToken(t, "s3cret", jwt.MapClaims{"role": "viewer"}), http.StatusForbidden},
		{"admin", "Bearer " + signToken(t, "s3cret", jwt.MapClaims{"role": "admin", "sub": "ops"}), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestJwtMiddleware_NoSecret(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", JwtMiddleware(""), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSessionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware(time.Hour, false))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(SessionID(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	issued := cookies[0].Value

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issued})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, issued, resp.Cookies()[0].Value)

	// Garbage ids are replaced
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "../../etc", resp.Cookies()[0].Value)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/admin/x", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "bad") })
	app.Get("/page", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Message string `validate:"max=5"`
	}
	assert.NoError(t, ValidateRequest(req{Message: "ok"}))

	err := ValidateRequest(req{Message: "too long"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "Message")
}
