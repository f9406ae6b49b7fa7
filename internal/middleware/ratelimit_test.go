package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-portal/internal/config"
)

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	app := fiber.New()
	app.Post("/contact", RateLimit(config.RateLimitConfig{RPS: 1, Burst: 2}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/contact", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/contact", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestRateLimitDisabledWithoutRPS(t *testing.T) {
	app := fiber.New()
	app.Post("/contact", RateLimit(config.RateLimitConfig{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 20; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/contact", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestLimiterStoreReusesPerIP(t *testing.T) {
	store := newRateLimiterStore(1, 2)

	a := store.getLimiter("10.0.0.1")
	b := store.getLimiter("10.0.0.1")
	c := store.getLimiter("10.0.0.2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestSweepEvictsIdleClients(t *testing.T) {
	store := newRateLimiterStore(1, 2)

	idle := store.getLimiter("10.0.0.1")
	_ = idle
	busy := store.getLimiter("10.0.0.2")
	busy.Allow()
	busy.Allow()

	store.mu.Lock()
	store.sweep()
	_, idleKept := store.limiters["10.0.0.1"]
	_, busyKept := store.limiters["10.0.0.2"]
	store.mu.Unlock()

	assert.False(t, idleKept, "idle client should be evicted")
	assert.True(t, busyKept, "drained client should be kept")
}
