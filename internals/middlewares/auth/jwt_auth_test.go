package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "rahasia"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func newApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Use(AuthJWT(AuthJWTOpts{Secret: secret, AllowCookieFallback: true}), OnlyRoles("khusus admin", roles...))
	app.Get("/me", func(c *fiber.Ctx) error { return c.SendString(UserID(c)) })
	return app
}

func get(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	buf := make([]byte, 128)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthJWT_ValidTokenSetsUserID(t *testing.T) {
	tok := sign(t, jwt.MapClaims{"sub": "u-1", "roles_global": []string{"admin"}, "exp": time.Now().Add(time.Hour).Unix()}, secret)
	status, body := get(t, newApp("admin"), tok)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "u-1", body)
}

func TestAuthJWT_Rejections(t *testing.T) {
	app := newApp("admin")

	status, _ := get(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, sign(t, jwt.MapClaims{"sub": "u-1", "role": "admin"}, "kunci-lain"))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired := sign(t, jwt.MapClaims{"sub": "u-1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	status, _ = get(t, app, expired)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, sign(t, jwt.MapClaims{"sub": "u-1", "role": "peserta"}, secret))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAuthJWT_NoSecretClosesRoutes(t *testing.T) {
	app := fiber.New()
	app.Use(AuthJWT(AuthJWTOpts{}))
	app.Get("/me", func(c *fiber.Ctx) error { return c.SendString("x") })

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
