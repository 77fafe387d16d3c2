package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key", []string{"a", "b"})
	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("key", 1)
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok, "expired items must not be returned")
}

func TestCacheDelete(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key", 1)
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}
