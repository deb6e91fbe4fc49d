package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimitBypassed(t *testing.T) {
	for _, env := range []string{"", "test", "development", "stress"} {
		assert.True(t, RateLimitBypassed(env), env)
	}
	for _, env := range []string{"production", "staging"} {
		assert.False(t, RateLimitBypassed(env), env)
	}
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_CountsWithinWindow(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rl:login:ip:1"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	do := func(t *testing.T, app *fiber.App, path string) int {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	t.Run("Bypass in test mode", func(t *testing.T) {
		_, rdb := newMiniredisClient(t)
		app := fiber.New()
		app.Post("/login", RateLimit(rdb, "test", 1, time.Minute, "login"), ok)
		assert.Equal(t, http.StatusOK, do(t, app, "/login"))
		assert.Equal(t, http.StatusOK, do(t, app, "/login"))
	})

	t.Run("Rejects over the limit when configured for production", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		_, rdb := newMiniredisClient(t)
		app := fiber.New()
		app.Post("/login", RateLimit(rdb, "production", 1, time.Minute, "login"), ok)
		assert.Equal(t, http.StatusOK, do(t, app, "/login"))
		assert.Equal(t, http.StatusTooManyRequests, do(t, app, "/login"))
	})

	t.Run("FailOpen with nil redis in production", func(t *testing.T) {
		app := fiber.New()
		app.Post("/login", RateLimit(nil, "production", 1, time.Minute, "login"), ok)
		assert.Equal(t, http.StatusOK, do(t, app, "/login"))
	})

	t.Run("FailClosed with nil redis in production", func(t *testing.T) {
		app := fiber.New()
		app.Post("/register", RateLimitWithPolicy(nil, "production", 1, time.Minute, FailClosed, "register"), ok)
		assert.Equal(t, http.StatusServiceUnavailable, do(t, app, "/register"))
	})
}
