package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Symbol string  `msgpack:"symbol"`
	Score  float64 `msgpack:"score"`
}

func TestMemorySetGet(t *testing.T) {
	c := NewMemory()

	err := c.Set("score:AAPL", payload{Symbol: "AAPL", Score: 72.5}, time.Minute)
	require.NoError(t, err)

	var got payload
	hit, err := c.Get("score:AAPL", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, 72.5, got.Score)
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory()

	var got payload
	hit, err := c.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set("k", payload{Symbol: "X"}, 5*time.Minute))

	// Still fresh
	var got payload
	hit, err := c.Get("k", &got)
	require.NoError(t, err)
	assert.True(t, hit)

	// Advance past TTL
	current = current.Add(6 * time.Minute)
	hit, err = c.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, c.Len(), "expired entry should be removed on read")
}

func TestMemoryExpireSweep(t *testing.T) {
	c := NewMemory()
	current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set("old", payload{}, time.Minute))
	require.NoError(t, c.Set("fresh", payload{}, time.Hour))

	current = current.Add(10 * time.Minute)
	c.Expire()

	assert.Equal(t, 1, c.Len())
	var got payload
	hit, _ := c.Get("fresh", &got)
	assert.True(t, hit)
}

func TestMemoryDelete(t *testing.T) {
	c := NewMemory()
	require.NoError(t, c.Set("k", payload{}, time.Minute))
	c.Delete("k")

	var got payload
	hit, _ := c.Get("k", &got)
	assert.False(t, hit)
}
