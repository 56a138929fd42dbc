package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/freshcut/internal/config"
	"github.com/example/freshcut/internal/utils"
)

const testSecret = "test-secret"

func roleWith(t *testing.T, handler fiber.Handler, authHeader string) (int, string) {
	t.Helper()

	role := ""
	app := fiber.New()
	app.Get("/", handler, func(c *fiber.Ctx) error {
		role = GetCurrentUserRole(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp.StatusCode, role
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()

	token, err := utils.GenerateToken(testSecret, uuid.New(), role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	handler := AuthMiddleware(&config.Config{JWTSecret: testSecret})

	t.Run("missing header rejected", func(t *testing.T) {
		status, _ := roleWith(t, handler, "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		status, _ := roleWith(t, handler, "Bearer not-a-token")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("valid token loads role", func(t *testing.T) {
		status, role := roleWith(t, handler, bearerToken(t, "customer"))
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "customer", role)
	})
}

func TestOptionalAuth(t *testing.T) {
	handler := OptionalAuth(&config.Config{JWTSecret: testSecret})

	t.Run("anonymous passes through", func(t *testing.T) {
		status, role := roleWith(t, handler, "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "", role)
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		status, role := roleWith(t, handler, "Bearer not-a-token")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "", role)
	})

	t.Run("admin token honored on a public route", func(t *testing.T) {
		status, role := roleWith(t, handler, bearerToken(t, "admin"))
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "admin", role)
	})
}
