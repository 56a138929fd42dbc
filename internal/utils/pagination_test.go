package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseWith(t *testing.T, target string) Pagination {
	t.Helper()

	var pg Pagination
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		pg = ParsePagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	return pg
}

func TestParsePaginationDefaults(t *testing.T) {
	pg := parseWith(t, "/")
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.Limit)
	assert.Equal(t, 0, pg.Offset)
}

func TestParsePaginationExplicit(t *testing.T) {
	pg := parseWith(t, "/?page=3&limit=10")
	assert.Equal(t, 3, pg.Page)
	assert.Equal(t, 10, pg.Limit)
	assert.Equal(t, 20, pg.Offset)
}

func TestParsePaginationRejectsNonsense(t *testing.T) {
	pg := parseWith(t, "/?page=-1&limit=0")
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.Limit)
	assert.Equal(t, 0, pg.Offset)

	pg = parseWith(t, "/?page=abc&limit=xyz")
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.Limit)
}
