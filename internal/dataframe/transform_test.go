package dataframe

import (
	"math"
	"testing"

	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestDataFrameCumulative(t *testing.T) {
	df := mustFrame(t,
		Column{Name: "i", Values: []int64{3, 1, 4, 1, 5}},
		Column{Name: "b", Values: []bool{false, true, false, true, true}},
		Column{Name: "s", Values: []string{"a", "b", "c", "d", "e"}},
	)
	defer df.Release()

	cummin := df.CumMin()
	defer cummin.Release()
	assert.Equal(t, []any{int64(3), int64(1), int64(1), int64(1), int64(1)}, columnValues(t, cummin, "i"))
	assert.Equal(t, []any{false, false, false, false, false}, columnValues(t, cummin, "b"))

	cummax := df.CumMax()
	defer cummax.Release()
	assert.Equal(t, []any{int64(3), int64(3), int64(4), int64(4), int64(5)}, columnValues(t, cummax, "i"))
	assert.Equal(t, []any{false, true, true, true, true}, columnValues(t, cummax, "b"))

	cumsum := df.CumSum()
	defer cumsum.Release()
	assert.Equal(t, []any{int64(3), int64(4), int64(8), int64(9), int64(14)}, columnValues(t, cumsum, "i"))
	assert.Equal(t, []any{int64(0), int64(1), int64(1), int64(2), int64(3)}, columnValues(t, cumsum, "b"))
	assert.Equal(t, []any{"a", "b", "c", "d", "e"}, columnValues(t, cumsum, "s"), "text passes through")
}

func TestCumSumCarriesNaN(t *testing.T) {
	df := mustFrame(t, Column{Name: "f", Values: []float64{1, math.NaN(), 2}})
	defer df.Release()

	out := df.CumSum()
	defer out.Release()

	values := columnValues(t, out, "f")
	assert.Equal(t, 1.0, values[0])
	assert.True(t, math.IsNaN(values[1].(float64)))
	assert.True(t, math.IsNaN(values[2].(float64)))
}

func TestDataFrameAbs(t *testing.T) {
	df := mustFrame(t,
		Column{Name: "i", Values: []int64{-3, 2}},
		Column{Name: "f", Values: []float64{-1.5, 0}},
	)
	defer df.Release()

	out := df.Abs()
	defer out.Release()
	assert.Equal(t, []any{int64(3), int64(2)}, columnValues(t, out, "i"))
	assert.Equal(t, []any{1.5, 0.0}, columnValues(t, out, "f"))
}

func TestDataFrameClip(t *testing.T) {
	df := mustFrame(t,
		Column{Name: "i", Values: []int64{-5, 0, 5}},
		Column{Name: "f", Values: []float64{-2.5, math.NaN(), 9}},
	)
	defer df.Release()

	t.Run("integral bounds keep ints", func(t *testing.T) {
		out := df.Clip(ClipOptions{Lower: floatPtr(-1), Upper: floatPtr(1)})
		defer out.Release()

		kind, _ := out.Kind("i")
		assert.Equal(t, series.Int, kind)
		assert.Equal(t, []any{int64(-1), int64(0), int64(1)}, columnValues(t, out, "i"))

		values := columnValues(t, out, "f")
		assert.Equal(t, -1.0, values[0])
		assert.True(t, math.IsNaN(values[1].(float64)))
		assert.Equal(t, 1.0, values[2])
	})

	t.Run("fractional bound gives floats", func(t *testing.T) {
		out := df.Clip(ClipOptions{Upper: floatPtr(2.5)})
		defer out.Release()

		kind, _ := out.Kind("i")
		assert.Equal(t, series.Float, kind)
		assert.Equal(t, []any{-5.0, 0.0, 2.5}, columnValues(t, out, "i"))
	})
}

func TestDataFrameRound(t *testing.T) {
	df := mustFrame(t,
		Column{Name: "f", Values: []float64{0.125, 2.5, 3.5, -1.555}},
		Column{Name: "i", Values: []int64{15, 25, 149, -15}},
	)
	defer df.Release()

	whole := df.Round(0)
	defer whole.Release()
	assert.Equal(t, []any{0.0, 2.0, 4.0, -2.0}, columnValues(t, whole, "f"))
	assert.Equal(t, []any{int64(15), int64(25), int64(149), int64(-15)}, columnValues(t, whole, "i"))

	tens := df.Round(-1)
	defer tens.Release()
	assert.Equal(t, []any{int64(20), int64(20), int64(150), int64(-20)}, columnValues(t, tens, "i"))
}

func TestDataFrameDiffAndPctChange(t *testing.T) {
	df := mustFrame(t, Column{Name: "x", Values: []int64{10, 15, 30}})
	defer df.Release()

	diff := df.Diff(1)
	defer diff.Release()
	values := columnValues(t, diff, "x")
	assert.True(t, math.IsNaN(values[0].(float64)))
	assert.Equal(t, []any{5.0, 15.0}, values[1:])

	back := df.Diff(-1)
	defer back.Release()
	values = columnValues(t, back, "x")
	assert.Equal(t, []any{-5.0, -15.0}, values[:2])
	assert.True(t, math.IsNaN(values[2].(float64)))

	pct := df.PctChange(1)
	defer pct.Release()
	values = columnValues(t, pct, "x")
	assert.InDelta(t, 0.5, values[1], 1e-12)
	assert.InDelta(t, 1.0, values[2], 1e-12)
}

func TestDataFrameCopyIsIndependent(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	cp := df.Copy()
	defer cp.Release()
	assert.True(t, cp.Equal(df))

	assert.NoError(t, cp.Set("age", []int{0, 0, 0}))
	assert.Equal(t, []any{int64(25), int64(30), int64(35)}, columnValues(t, df, "age"))

	withNulls := mustFrame(t, Column{Name: "s", Values: []any{"a", nil}})
	defer withNulls.Release()
	cpNulls := withNulls.Copy()
	defer cpNulls.Release()
	assert.Equal(t, []any{"a", nil}, columnValues(t, cpNulls, "s"))
}

func TestParseTransform(t *testing.T) {
	tr, err := ParseTransform("PCT_CHANGE")
	require.NoError(t, err)
	assert.Equal(t, TransformPctChange, tr)

	tr, err = ParseTransform(" cumsum ")
	require.NoError(t, err)
	assert.Equal(t, "cumsum", tr.String())

	_, err = ParseTransform("explode")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
