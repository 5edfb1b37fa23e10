package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func guarded() *fiber.App {
	app := fiber.New()
	app.Get("/orders", JWTMiddleware(secret), RequireQueryEmail(), func(c *fiber.Ctx) error {
		email, _ := EmailFrom(c)
		return c.SendString(email)
	})
	return app
}

func status(t *testing.T, app *fiber.App, target, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestJWTMiddleware(t *testing.T) {
	app := guarded()

	token, err := GenerateToken(secret, "ann@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(secret, "ann@example.com", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"no header", "/orders?email=ann@example.com", "", fiber.StatusUnauthorized},
		{"wrong scheme", "/orders?email=ann@example.com", "Token " + token, fiber.StatusUnauthorized},
		{"garbage token", "/orders?email=ann@example.com", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"expired", "/orders?email=ann@example.com", "Bearer " + expired, fiber.StatusUnauthorized},
		{"other user", "/orders?email=bob@example.com", "Bearer " + token, fiber.StatusForbidden},
		{"own email any case", "/orders?email=Ann@Example.com", "Bearer " + token, fiber.StatusOK},
		{"no email query", "/orders", "Bearer " + token, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status(t, app, tt.target, tt.header))
		})
	}
}
