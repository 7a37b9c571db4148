package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(8, time.Minute)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestLRUCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(8, 20*time.Millisecond)
	c.Set(ctx, "k", []byte("v"), 0)

	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
