package cub

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Releasable is any resource that holds Arrow memory. DataFrames and series
// implement it.
//
//	df, err := cub.New(cub.Col("x", []int{1, 2, 3}))
//	if err != nil {
//		return err
//	}
//	defer df.Release()
type Releasable interface {
	Release()
}

// MemoryManager tracks many resources for bulk release. It builds DataFrames
// from its own allocator, so a checked allocator can verify that everything
// created through the manager was freed.
//
// The MemoryManager is safe for concurrent use from multiple goroutines.
//
//	err := cub.WithMemoryManager(mem, func(m *cub.MemoryManager) error {
//		df, err := m.New(cub.Col("x", []float64{1, 2}))
//		if err != nil {
//			return err
//		}
//		doubled, err := df.Mul(2)
//		if err != nil {
//			return err
//		}
//		m.Track(doubled)
//		fmt.Println(cub.Text(doubled))
//		return nil
//	})
type MemoryManager struct {
	allocator memory.Allocator
	resources []Releasable
	mu        sync.Mutex
}

// NewMemoryManager creates a manager that allocates from allocator. A nil
// allocator uses the Go allocator.
func NewMemoryManager(allocator memory.Allocator) *MemoryManager {
	if allocator == nil {
		allocator = memory.NewGoAllocator()
	}
	return &MemoryManager{allocator: allocator}
}

// Allocator returns the allocator DataFrames built by the manager use.
func (m *MemoryManager) Allocator() memory.Allocator {
	return m.allocator
}

// New builds a DataFrame from the manager's allocator and tracks it.
func (m *MemoryManager) New(cols ...Column) (*DataFrame, error) {
	df, err := NewWithAllocator(m.allocator, cols...)
	if err != nil {
		return nil, err
	}
	m.Track(df)
	return df, nil
}

// Track adds a resource to be released by ReleaseAll. nil is ignored.
func (m *MemoryManager) Track(resource Releasable) {
	if resource == nil {
		return
	}
	m.mu.Lock()
	m.resources = append(m.resources, resource)
	m.mu.Unlock()
}

// TrackAll tracks every DataFrame in dfs, as returned by Unique or
// ValueCounts.
func (m *MemoryManager) TrackAll(dfs []*DataFrame) {
	for _, df := range dfs {
		if df != nil {
			m.Track(df)
		}
	}
}

// Count returns the number of tracked resources
func (m *MemoryManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// ReleaseAll releases tracked resources, newest first, and clears the list.
func (m *MemoryManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.resources) - 1; i >= 0; i-- {
		m.resources[i].Release()
	}
	m.resources = m.resources[:0]
}

// WithDataFrame builds a DataFrame, passes it to fn and releases it
// afterwards. A factory error is returned without calling fn.
func WithDataFrame(factory func() (*DataFrame, error), fn func(*DataFrame) error) error {
	df, err := factory()
	if err != nil {
		return err
	}
	defer df.Release()
	return fn(df)
}

// WithMemoryManager runs fn with a fresh manager and releases everything it
// tracked when fn returns.
func WithMemoryManager(allocator memory.Allocator, fn func(*MemoryManager) error) error {
	manager := NewMemoryManager(allocator)
	defer manager.ReleaseAll()
	return fn(manager)
}
