package cub

import (
	"errors"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager(t *testing.T) {
	t.Run("track and release multiple resources", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		manager := NewMemoryManager(mem)

		df, err := manager.New(Col("a", []int64{1, 2, 3}), Col("b", []string{"x", "y", "z"}))
		require.NoError(t, err)
		s := series.New("c", []float64{1.5}, mem)
		manager.Track(s)
		manager.Track(nil)

		assert.Equal(t, 2, manager.Count())
		assert.Same(t, mem, manager.Allocator())
		assert.Equal(t, 3, df.Len())

		manager.ReleaseAll()
		assert.Equal(t, 0, manager.Count())
		mem.AssertSize(t, 0)
	})

	t.Run("release all is idempotent", func(t *testing.T) {
		manager := NewMemoryManager(nil)
		_, err := manager.New(Col("a", []bool{true}))
		require.NoError(t, err)

		require.NotPanics(t, func() {
			manager.ReleaseAll()
			manager.ReleaseAll()
		})
	})

	t.Run("construction errors are not tracked", func(t *testing.T) {
		manager := NewMemoryManager(nil)
		_, err := manager.New(Col("a", []int{1}), Col("b", []int{1, 2}))
		assert.ErrorIs(t, err, ErrShapeMismatch)
		assert.Equal(t, 0, manager.Count())
	})

	t.Run("track all", func(t *testing.T) {
		manager := NewMemoryManager(nil)
		df, err := manager.New(Col("a", []int{1, 1, 2}), Col("b", []string{"x", "y", "y"}))
		require.NoError(t, err)

		manager.TrackAll(df.Unique())
		assert.Equal(t, 3, manager.Count())
		manager.ReleaseAll()
	})

	t.Run("concurrent access", func(t *testing.T) {
		mem := memory.NewGoAllocator()
		manager := NewMemoryManager(mem)

		var wg sync.WaitGroup
		const numGoroutines = 10
		const resourcesPerGoroutine = 5

		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(goroutineID int) {
				defer wg.Done()
				for j := 0; j < resourcesPerGoroutine; j++ {
					manager.Track(series.New("test", []int64{int64(goroutineID), int64(j)}, mem))
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, numGoroutines*resourcesPerGoroutine, manager.Count())
		manager.ReleaseAll()
		assert.Equal(t, 0, manager.Count())
	})
}

func TestWithDataFrame(t *testing.T) {
	t.Run("releases after fn", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		var rows int
		err := WithDataFrame(func() (*DataFrame, error) {
			return NewWithAllocator(mem, Col("a", []int{1, 2}))
		}, func(df *DataFrame) error {
			rows = df.Len()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, rows)
		mem.AssertSize(t, 0)
	})

	t.Run("factory error skips fn", func(t *testing.T) {
		called := false
		err := WithDataFrame(func() (*DataFrame, error) {
			return New(Col("a", [][]int{{1}}))
		}, func(*DataFrame) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.False(t, called)
	})

	t.Run("fn error is returned", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := WithDataFrame(func() (*DataFrame, error) {
			return New(Col("a", []int{1}))
		}, func(*DataFrame) error {
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
	})
}

func TestWithMemoryManager(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	err := WithMemoryManager(mem, func(m *MemoryManager) error {
		_, err := m.New(Col("x", []float64{1, 2, 3}))
		return err
	})
	require.NoError(t, err)
	mem.AssertSize(t, 0)
}
