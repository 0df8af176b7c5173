package cache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evanw/csscolor/internal/cache"
	"github.com/evanw/csscolor/internal/test"
)

func TestLRU(t *testing.T) {
	c := cache.NewLRU(2)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "rgb(255, 0, 0)")
	c.Set("b", nil)

	value, ok := c.Get("a")
	assert.True(t, ok)
	test.AssertEqual(t, value, "rgb(255, 0, 0)")

	// A nil value is a cached failure, not a miss.
	value, ok = c.Get("b")
	assert.True(t, ok)
	assert.Nil(t, value)

	// "b" is now the least recently used entry.
	c.Get("a")
	c.Set("c", "#fff")
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)

	stats := c.Stats()
	test.AssertEqual(t, stats.Len, 2)
	test.AssertEqual(t, stats.Hits, uint64(4))
	test.AssertEqual(t, stats.Misses, uint64(2))

	c.Clear()
	test.AssertEqual(t, c.Stats(), cache.Stats{})
}

func TestCacheSetFamilies(t *testing.T) {
	set := cache.MakeCacheSet(0)
	set.Set(cache.FamilyResolve, "red", "rgb(255, 0, 0)")

	_, ok := set.Get(cache.FamilyConvert, "red")
	assert.False(t, ok)
	value, ok := set.Get(cache.FamilyResolve, "red")
	assert.True(t, ok)
	test.AssertEqual(t, value, "rgb(255, 0, 0)")

	stats := set.Stats()
	test.AssertEqual(t, stats["resolve"].Len, 1)
	test.AssertEqual(t, stats["convert"].Misses, uint64(1))
	test.AssertEqual(t, cache.FamilyCalc.String(), "calc")
}

func TestLRUConcurrent(t *testing.T) {
	c := cache.NewLRU(64)
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("%d-%d", i, j%16)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Stats().Len, 64)
}
