package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStorage(mr.Addr(), "", "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStorageRoundTrip(t *testing.T) {
	s, mr := newStorage(t)

	v, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set("a", []byte("1"), time.Minute))
	v, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	assert.True(t, mr.Exists("test:a"))

	mr.FastForward(2 * time.Minute)
	v, err = s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, v, "expired")

	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, s.Delete("b"))
	v, _ = s.Get("b")
	assert.Nil(t, v)
}

func TestStorageResetKeepsForeignKeys(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, mr.Set("other:x", "keep"))
	require.NoError(t, s.Set("x", []byte("1"), 0))
	require.NoError(t, s.Set("y", []byte("2"), 0))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("test:x"))
	assert.False(t, mr.Exists("test:y"))
	assert.True(t, mr.Exists("other:x"))
}

func TestLimiterSharesCountersThroughRedis(t *testing.T) {
	s, _ := newStorage(t)
	newApp := func() *fiber.App {
		app := fiber.New()
		app.Use(limiter.New(limiter.Config{Max: 2, Expiration: time.Minute, Storage: s}))
		app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		return app
	}
	a, b := newApp(), newApp()

	hit := func(app *fiber.App) int {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusOK, hit(a))
	assert.Equal(t, fiber.StatusOK, hit(b))
	assert.Equal(t, fiber.StatusTooManyRequests, hit(a), "second instance consumed the shared budget")
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	_, err := NewRedisStorage("127.0.0.1:1", "", "")
	assert.Error(t, err)
}
