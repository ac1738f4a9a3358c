package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecisionNerd/collie/metric"
)

func TestLRU_BasicOperations(t *testing.T) {
	c, err := NewLRU[string](10)
	require.NoError(t, err)

	created, err := c.Set("a", "alpha")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.Set("a", "alpha2")
	require.NoError(t, err)
	assert.False(t, created, "second set updates in place")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha2", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 0, c.Size())
}

func TestLRU_RejectsEmptyKey(t *testing.T) {
	c, err := NewLRU[int](10)
	require.NoError(t, err)

	_, err = c.Set("", 1)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestLRU_EvictsOldest(t *testing.T) {
	var evicted []string
	c, err := NewLRU[int](2, WithEvictionCallback[int](func(key string, _ int) {
		evicted = append(evicted, key)
	}))
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, _ = c.Get("a")

	_, _ = c.Set("c", 3)
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, []string{"b"}, evicted)

	_, ok := c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"c", "a"}, c.Keys())
}

func TestLRU_TTLExpiry(t *testing.T) {
	c, err := NewLRU[int](10, WithTTL[int](20*time.Millisecond))
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, ok := c.Get("a")
	assert.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	_, ok = c.Get("a")
	assert.False(t, ok, "entry should have expired")
	assert.Equal(t, 0, c.Size())
}

func TestLRU_Statistics(t *testing.T) {
	c, err := NewLRU[int](1)
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("nope")
	_, _ = c.Set("b", 2) // evicts "a"

	snap := c.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, int64(2), snap.Sets)
	assert.Equal(t, int64(1), snap.Evictions)
	assert.InDelta(t, 0.5, c.Stats().HitRate(), 1e-9)
}

func TestLRU_PrometheusMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	c, err := NewLRU[int](10, WithMetrics[int](registry, "extraction"))
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Get("a")

	snapshot, err := registry.TextSnapshot()
	require.NoError(t, err)
	assert.Contains(t, snapshot, `collie_cache_hits_total{component="extraction"} 1`)
	assert.Contains(t, snapshot, `collie_cache_sets_total{component="extraction"} 1`)
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c, err := NewLRU[int](100)
	require.NoError(t, err)

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%50)
				_, _ = c.Set(key, g*1000+i)
				_, _ = c.Get(key)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}
	assert.LessOrEqual(t, c.Size(), 100)
}
