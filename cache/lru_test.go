package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennychae/vertex-ai-search-agent/config"
)

func TestLRU_SetGet(t *testing.T) {
	c := NewLRU(4, time.Minute)

	c.Set("a", "value-a", 0)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "value-a", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRU_EvictsOldest(t *testing.T) {
	c := NewLRU(2, time.Minute)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	// Touch "a" so "b" is the eviction candidate.
	_, _ = c.Get("a")
	c.Set("c", 3, 0)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_TTLExpiry(t *testing.T) {
	c := NewLRU(4, time.Minute)

	c.Set("a", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestLRU_Purge(t *testing.T) {
	c := NewLRU(4, time.Minute)
	c.Set("a", 1, 0)
	c.Purge()
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestSearchKey(t *testing.T) {
	base := SearchKey("engine-1", "방문 내역", `owner: ANY("kim")`, 10)
	assert.Equal(t, base, SearchKey("engine-1", "방문 내역", `owner: ANY("kim")`, 10))

	assert.NotEqual(t, base, SearchKey("engine-2", "방문 내역", `owner: ANY("kim")`, 10))
	assert.NotEqual(t, base, SearchKey("engine-1", "다른 질문", `owner: ANY("kim")`, 10))
	assert.NotEqual(t, base, SearchKey("engine-1", "방문 내역", "", 10))
	assert.NotEqual(t, base, SearchKey("engine-1", "방문 내역", `owner: ANY("kim")`, 20))
}

func TestNewFromConfig(t *testing.T) {
	c := NewFromConfig(&config.CacheConfig{Enable: false})
	c.Set("a", 1, 0)
	_, ok := c.Get("a")
	assert.False(t, ok, "disabled cache stores nothing")

	c = NewFromConfig(&config.CacheConfig{Enable: true, MaxEntries: 8, TTLSeconds: 60})
	c.Set("a", 1, 0)
	_, ok = c.Get("a")
	assert.True(t, ok)
}
