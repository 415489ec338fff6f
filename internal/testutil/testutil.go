// Package testutil provides common testing utilities shared by the cub test
// suites: a leak-checked allocator, a standard employee DataFrame and
// DataFrame assertions.
package testutil

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 4
)

// TestMemoryContext provides a checked allocator. Release fails the test if
// any Arrow buffer allocated through it is still live.
type TestMemoryContext struct {
	Allocator memory.Allocator
	checked   *memory.CheckedAllocator
	tb        testing.TB
}

// Release verifies that every allocation has been freed.
func (tmc *TestMemoryContext) Release() {
	tmc.tb.Helper()
	tmc.checked.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a leak-checked allocator for a test.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	checked := memory.NewCheckedAllocator(memory.NewGoAllocator())
	return &TestMemoryContext{Allocator: checked, checked: checked, tb: tb}
}

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls makes every third department null and every third bonus NaN,
// starting at row 1.
func WithNulls() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.withActive = true
	}
}

// CreateTestDataFrame creates a standard test DataFrame with employee data:
//
//   - name (string): Alice, Bob, Charlie, David, ...
//   - age (int): 25, 30, 35, 28, ...
//   - department (string): Engineering, Sales, Engineering, Marketing, ...
//   - salary (int): 100000, 80000, 120000, 75000, ...
//   - bonus (float): 0.1, 0.05, 0.15, 0.08, ...
//   - active (bool, optional)
func CreateTestDataFrame(tb testing.TB, allocator memory.Allocator, opts ...TestDataFrameOption) *dataframe.DataFrame {
	tb.Helper()
	cfg := &testDataFrameConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	departments := make([]*string, cfg.rowCount)
	for i, dept := range cycle(cfg.rowCount, []string{
		"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales",
	}) {
		departments[i] = &dept
	}
	bonuses := cycle(cfg.rowCount, []float64{0.1, 0.05, 0.15, 0.08, 0.12, 0.2, 0.07, 0.1})
	if cfg.includeNulls {
		for i := 1; i < cfg.rowCount; i += 3 {
			departments[i] = nil
			bonuses[i] = math.NaN()
		}
	}

	cols := []dataframe.Column{
		{Name: "name", Values: cycle(cfg.rowCount, []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"})},
		{Name: "age", Values: cycle(cfg.rowCount, []int64{25, 30, 35, 28, 32, 45, 29, 38})},
		{Name: "department", Values: departments},
		{Name: "salary", Values: cycle(cfg.rowCount, []int64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000})},
		{Name: "bonus", Values: bonuses},
	}
	if cfg.withActive {
		cols = append(cols, dataframe.Column{
			Name:   "active",
			Values: cycle(cfg.rowCount, []bool{true, true, false, true, true, false, true, false}),
		})
	}

	df, err := dataframe.FromColumns(allocator, cols...)
	require.NoError(tb, err)
	return df
}

// CreateSimpleTestDataFrame creates a simple 2-column DataFrame for basic testing.
func CreateSimpleTestDataFrame(tb testing.TB, allocator memory.Allocator) *dataframe.DataFrame {
	tb.Helper()
	df, err := dataframe.FromColumns(allocator,
		dataframe.Column{Name: "name", Values: []string{"Alice", "Bob"}},
		dataframe.Column{Name: "age", Values: []int64{25, 30}},
	)
	require.NoError(tb, err)
	return df
}

// AssertDataFrameEqual checks columns, kinds and values of two DataFrames.
// Missing values compare equal to each other.
func AssertDataFrameEqual(t testing.TB, expected, actual *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, expected, "expected DataFrame should not be nil")
	require.NotNil(t, actual, "actual DataFrame should not be nil")

	assert.Equal(t, expected.Columns(), actual.Columns(), "DataFrame columns should match")
	assert.Equal(t, expected.Len(), actual.Len(), "DataFrame lengths should match")
	for _, name := range expected.Columns() {
		want, _ := expected.Kind(name)
		got, ok := actual.Kind(name)
		if assert.True(t, ok, "actual column %s should exist", name) {
			assert.Equal(t, want, got, "column %s kind should match", name)
		}
	}
	assert.True(t, expected.Equal(actual), "DataFrame values should match\nexpected:\n%s\nactual:\n%s", expected, actual)
}

// AssertDataFrameHasColumns verifies that a DataFrame has the expected columns.
func AssertDataFrameHasColumns(t testing.TB, df *dataframe.DataFrame, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Len(t, df.Columns(), len(expectedColumns), "column count should match")
	for _, col := range expectedColumns {
		assert.True(t, df.HasColumn(col), "DataFrame should have column %s", col)
	}
}

// AssertDataFrameNotEmpty verifies that a DataFrame is not empty.
func AssertDataFrameNotEmpty(t testing.TB, df *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Positive(t, df.Len(), "DataFrame should not be empty")
	assert.Positive(t, df.Width(), "DataFrame should have columns")
}

// cycle repeats base until count values are produced.
func cycle[T any](count int, base []T) []T {
	out := make([]T, count)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}
