package dataframe

import (
	"math"
	"testing"

	"github.com/paveg/cub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFrameAggregations(t *testing.T) {
	df := mustFrame(t,
		Column{Name: "i", Values: []int64{3, 1, 2, 4}},
		Column{Name: "f", Values: []float64{1.5, 2.5, -1, 3}},
		Column{Name: "b", Values: []bool{true, false, true, true}},
		Column{Name: "s", Values: []string{"pear", "apple", "fig", "kiwi"}},
	)
	defer df.Release()

	tests := []struct {
		name string
		fn   func() *DataFrame
		want map[string]any
	}{
		{"min", df.Min, map[string]any{"i": int64(1), "f": -1.0, "b": false, "s": "apple"}},
		{"max", df.Max, map[string]any{"i": int64(4), "f": 3.0, "b": true, "s": "pear"}},
		{"sum", df.Sum, map[string]any{"i": int64(10), "f": 6.0, "b": int64(3)}},
		{"mean", df.Mean, map[string]any{"i": 2.5, "f": 1.5, "b": 0.75}},
		{"median", df.Median, map[string]any{"i": 2.5, "f": 2.0, "b": 1.0}},
		{"var", df.Var, map[string]any{"i": 1.25, "f": 2.375, "b": 0.1875}},
		{"all", df.All, map[string]any{"i": true, "f": true, "b": false, "s": true}},
		{"any", df.Any, map[string]any{"i": true, "f": true, "b": true, "s": true}},
		{"argmax", df.ArgMax, map[string]any{"i": int64(3), "f": int64(3), "b": int64(0), "s": int64(0)}},
		{"argmin", df.ArgMin, map[string]any{"i": int64(1), "f": int64(2), "b": int64(1), "s": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.fn()
			defer out.Release()

			assert.Equal(t, 1, out.Len())
			assert.Equal(t, len(tt.want), out.Width())
			for name, want := range tt.want {
				got := columnValues(t, out, name)[0]
				if f, ok := want.(float64); ok {
					assert.InDelta(t, f, got, 1e-12, name)
					continue
				}
				assert.Equal(t, want, got, name)
			}
		})
	}
}

func TestDataFrameStd(t *testing.T) {
	df := mustFrame(t, Column{Name: "x", Values: []int{2, 4, 4, 4, 5, 5, 7, 9}})
	defer df.Release()

	out := df.Std()
	defer out.Release()
	assert.InDelta(t, 2.0, columnValues(t, out, "x")[0], 1e-12)
}

func TestAggregationKeepsColumnOrderAndDropsText(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	out := df.Mean()
	defer out.Release()

	assert.Equal(t, []string{"age", "salary", "active"}, out.Columns())
}

func TestAggregationMissingValues(t *testing.T) {
	df := mustFrame(t,
		Column{Name: "f", Values: []float64{1, math.NaN(), 0}},
		Column{Name: "s", Values: []any{"b", nil, "a"}},
	)
	defer df.Release()

	mins := df.Min()
	defer mins.Release()
	assert.True(t, math.IsNaN(columnValues(t, mins, "f")[0].(float64)))
	assert.False(t, mins.HasColumn("s"), "text with missing values has no minimum")

	arg := df.ArgMax()
	defer arg.Release()
	assert.Equal(t, int64(1), columnValues(t, arg, "f")[0], "first NaN wins")

	counts := df.Count()
	defer counts.Release()
	assert.Equal(t, []any{int64(2)}, columnValues(t, counts, "f"))
	assert.Equal(t, []any{int64(2)}, columnValues(t, counts, "s"))

	all := df.All()
	defer all.Release()
	assert.Equal(t, false, columnValues(t, all, "s")[0])

	na := df.IsNA()
	defer na.Release()
	assert.Equal(t, []any{false, true, false}, columnValues(t, na, "f"))
	assert.Equal(t, []any{false, true, false}, columnValues(t, na, "s"))
}

func TestAggregationEmptyColumns(t *testing.T) {
	df := mustFrame(t,
		Column{Name: "i", Values: []int64{}},
		Column{Name: "f", Values: []float64{}},
	)
	defer df.Release()

	sums := df.Sum()
	defer sums.Release()
	assert.Equal(t, []any{int64(0)}, columnValues(t, sums, "i"))
	assert.Equal(t, []any{0.0}, columnValues(t, sums, "f"))

	means := df.Mean()
	defer means.Release()
	assert.Equal(t, 0, means.Width())

	all := df.All()
	defer all.Release()
	assert.Equal(t, []any{true}, columnValues(t, all, "i"))
}

func TestAggregateByName(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	fn, err := ParseAggFunc("MAX")
	require.NoError(t, err)
	assert.Equal(t, AggMax, fn)
	assert.Equal(t, "max", fn.String())

	out, err := df.Aggregate(fn)
	require.NoError(t, err)
	defer out.Release()
	assert.Equal(t, []any{int64(35)}, columnValues(t, out, "age"))

	_, err = ParseAggFunc("mode")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = df.Aggregate(AggFunc(99))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
