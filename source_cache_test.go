package formval

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceCache(t *testing.T) {
	t.Run("GetOrCreate", func(t *testing.T) {
		cache := NewSourceCache[string, int]()
		source := "test"
		sourcePtr := &source

		// First call should create
		assert.Equal(t, 42, cache.GetOrCreate(sourcePtr, func() int { return 42 }))

		// Second call should return the cached value
		got := cache.GetOrCreate(sourcePtr, func() int {
			t.Error("Factory function should not be called second time")
			return 99
		})
		assert.Equal(t, 42, got)
	})

	t.Run("KeyedByPointer", func(t *testing.T) {
		cache := NewSourceCache[string, int]()
		a, b := "same", "same"

		cache.GetOrCreate(&a, func() int { return 1 })
		cache.GetOrCreate(&b, func() int { return 2 })

		assert.Equal(t, 2, cache.Len())
	})

	t.Run("Get", func(t *testing.T) {
		cache := NewSourceCache[string, int]()
		source := "test"

		// Should not exist initially
		value, exists := cache.Get(&source)
		assert.False(t, exists)
		assert.Equal(t, 0, value)

		cache.GetOrCreate(&source, func() int { return 42 })

		value, exists = cache.Get(&source)
		assert.True(t, exists)
		assert.Equal(t, 42, value)
	})

	t.Run("Delete", func(t *testing.T) {
		cache := NewSourceCache[string, int]()
		source := "test"

		cache.GetOrCreate(&source, func() int { return 42 })
		cache.Delete(&source)

		_, exists := cache.Get(&source)
		assert.False(t, exists)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("Clear", func(t *testing.T) {
		cache := NewSourceCache[string, int]()
		sources := []string{"a", "b", "c"}
		for i := range sources {
			cache.GetOrCreate(&sources[i], func() int { return i })
		}
		assert.Equal(t, 3, cache.Len())

		cache.Clear()
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("ConcurrentFactoryRunsOnce", func(t *testing.T) {
		cache := NewSourceCache[string, int]()
		source := "shared"

		var calls atomic.Int32
		var wg sync.WaitGroup
		results := make([]int, 50)

		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = cache.GetOrCreate(&source, func() int {
					calls.Add(1)
					return 7
				})
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Equal(t, 7, r)
		}
	})
}
