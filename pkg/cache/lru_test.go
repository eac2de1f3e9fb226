package cache_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/cache"
)

func TestLRUCache_Basic(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // b is now least recently used
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_TTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.NewLRUCache[string, int](4, cache.WithTTL(time.Minute), cache.WithClock(clock))

	c.Put("a", 1)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_RemoveAndClear(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](4)
	c.Put("a", 1)
	c.Put("b", 2)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_EvictCallback(t *testing.T) {
	t.Parallel()

	var evicted []string
	c := cache.NewLRUCache[string, int](2)
	c.SetEvictCallback(func(key string, _ int) { evicted = append(evicted, key) })

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts a
	c.Remove("b")
	c.Clear()

	assert.Equal(t, []string{"a", "b", "c"}, evicted)
}

func TestLRUCache_InvalidCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](50)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := strconv.Itoa((n * j) % 80)
				c.Put(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
