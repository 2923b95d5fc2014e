package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPinger records the context it was pinged with.
type mockPinger struct {
	pingErr     error
	hadDeadline bool
}

func (m *mockPinger) Ping(ctx context.Context) error {
	_, m.hadDeadline = ctx.Deadline()
	return m.pingErr
}

func checkHealth(t *testing.T, pinger *mockPinger) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/health", NewHealthHandler(pinger).Check)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthHandler_Check_Healthy(t *testing.T) {
	pinger := &mockPinger{}

	status, body := checkHealth(t, pinger)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.Contains(t, body, `"database":"up"`)
	assert.True(t, pinger.hadDeadline, "ping must be bounded")
}

func TestHealthHandler_Check_Unhealthy(t *testing.T) {
	pinger := &mockPinger{pingErr: errors.New("connection refused")}

	status, body := checkHealth(t, pinger)

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body, `"status":"unhealthy"`)
	assert.Contains(t, body, `"database":"down"`)
	assert.Contains(t, body, `"error":"database connection failed"`)
	assert.NotContains(t, body, "connection refused")
}
