package dataframe

import (
	"math"
	"sort"
	"testing"

	"github.com/paveg/cub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFrameSampleSeeded(t *testing.T) {
	df := mustFrame(t, Column{Name: "x", Values: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}})
	defer df.Release()

	first, err := df.Sample(SampleOptions{N: 4, Seed: 42})
	require.NoError(t, err)
	defer first.Release()

	second, err := df.Sample(SampleOptions{N: 4, Seed: 42})
	require.NoError(t, err)
	defer second.Release()

	assert.Equal(t, 4, first.Len())
	assert.True(t, first.Equal(second), "same seed, same rows")

	seen := map[any]bool{}
	for _, v := range columnValues(t, first, "x") {
		assert.False(t, seen[v], "rows are drawn without replacement")
		seen[v] = true
	}
}

func TestDataFrameSampleFrac(t *testing.T) {
	df := mustFrame(t, Column{Name: "x", Values: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}})
	defer df.Release()

	out, err := df.Sample(SampleOptions{Frac: 0.35, Seed: 7})
	require.NoError(t, err)
	defer out.Release()
	assert.Equal(t, 3, out.Len())

	everything, err := df.Sample(SampleOptions{Frac: 1, Seed: 7})
	require.NoError(t, err)
	defer everything.Release()

	values := columnValues(t, everything, "x")
	ints := make([]int, len(values))
	for i, v := range values {
		ints[i] = int(v.(int64))
	}
	sort.Ints(ints)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ints)
}

func TestDataFrameSampleWithReplacement(t *testing.T) {
	df := mustFrame(t, Column{Name: "x", Values: []int{1, 2}})
	defer df.Release()

	out, err := df.Sample(SampleOptions{N: 10, Replace: true, Seed: 3})
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, 10, out.Len())
	for _, v := range columnValues(t, out, "x") {
		assert.Contains(t, []any{int64(1), int64(2)}, v)
	}
}

func TestDataFrameSampleErrors(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	empty := df.Head(0)
	defer empty.Release()

	tests := []struct {
		name string
		df   *DataFrame
		opts SampleOptions
	}{
		{"negative n", df, SampleOptions{N: -1}},
		{"negative frac", df, SampleOptions{Frac: -0.5}},
		{"infinite frac", df, SampleOptions{Frac: math.Inf(1), Seed: 1}},
		{"negative infinite frac", df, SampleOptions{Frac: math.Inf(-1), Seed: 1}},
		{"nan frac", df, SampleOptions{Frac: math.NaN(), Seed: 1}},
		{"huge frac with replacement", df, SampleOptions{Frac: 1e300, Replace: true, Seed: 1}},
		{"both set", df, SampleOptions{N: 1, Frac: 0.5}},
		{"neither set", df, SampleOptions{}},
		{"too many without replacement", df, SampleOptions{N: 4}},
		{"empty with replacement", empty, SampleOptions{N: 1, Replace: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.df.Sample(tt.opts)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
}
