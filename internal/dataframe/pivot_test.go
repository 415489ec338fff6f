package dataframe

import (
	"math"
	"testing"

	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSalesDataFrame(t *testing.T) *DataFrame {
	t.Helper()
	return mustFrame(t,
		Column{Name: "state", Values: []string{"TX", "CA", "TX", "CA", "NY"}},
		Column{Name: "year", Values: []int{2020, 2020, 2021, 2021, 2021}},
		Column{Name: "sales", Values: []float64{10, 20, 30, 40, 50}},
		Column{Name: "rep", Values: []string{"ann", "bo", "cy", "di", "ed"}},
	)
}

func TestPivotTableRowsAndColumns(t *testing.T) {
	df := createSalesDataFrame(t)
	defer df.Release()

	out, err := df.PivotTable(PivotOptions{Rows: "state", Columns: "year", Values: "sales", AggFunc: "sum"})
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []string{"state", "2020", "2021"}, out.Columns())
	assert.Equal(t, []any{"CA", "NY", "TX"}, columnValues(t, out, "state"))

	y2020 := columnValues(t, out, "2020")
	assert.Equal(t, 20.0, y2020[0])
	assert.True(t, math.IsNaN(y2020[1].(float64)), "NY has no 2020 sales")
	assert.Equal(t, 10.0, y2020[2])
	assert.Equal(t, []any{40.0, 50.0, 30.0}, columnValues(t, out, "2021"))
}

func TestPivotTableCountsWithoutValues(t *testing.T) {
	df := createSalesDataFrame(t)
	defer df.Release()

	t.Run("rows only", func(t *testing.T) {
		out, err := df.PivotTable(PivotOptions{Rows: "state"})
		require.NoError(t, err)
		defer out.Release()

		assert.Equal(t, []string{"state", "size"}, out.Columns())
		assert.Equal(t, []any{"CA", "NY", "TX"}, columnValues(t, out, "state"))
		assert.Equal(t, []any{int64(2), int64(1), int64(2)}, columnValues(t, out, "size"))
	})

	t.Run("columns only", func(t *testing.T) {
		out, err := df.PivotTable(PivotOptions{Columns: "year"})
		require.NoError(t, err)
		defer out.Release()

		assert.Equal(t, []string{"2020", "2021"}, out.Columns())
		assert.Equal(t, 1, out.Len())
		assert.Equal(t, []any{int64(3)}, columnValues(t, out, "2021"))
	})

	t.Run("complete grid stays integral", func(t *testing.T) {
		grid := mustFrame(t,
			Column{Name: "shift", Values: []string{"am", "pm", "am", "pm", "am"}},
			Column{Name: "day", Values: []int{1, 1, 2, 2, 2}},
		)
		defer grid.Release()

		out, err := grid.PivotTable(PivotOptions{Rows: "shift", Columns: "day"})
		require.NoError(t, err)
		defer out.Release()

		assert.Equal(t, []string{"shift", "1", "2"}, out.Columns())
		kind, _ := out.Kind("2")
		assert.Equal(t, series.Int, kind)
		assert.Equal(t, []any{int64(2), int64(1)}, columnValues(t, out, "2"))
	})
}

func TestPivotTableRowsWithValues(t *testing.T) {
	df := createSalesDataFrame(t)
	defer df.Release()

	out, err := df.PivotTable(PivotOptions{Rows: "year", Values: "sales", AggFunc: "mean"})
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []string{"year", "mean"}, out.Columns())
	assert.Equal(t, []any{int64(2020), int64(2021)}, columnValues(t, out, "year"))
	assert.Equal(t, []any{15.0, 40.0}, columnValues(t, out, "mean"))
}

func TestPivotTableTextCells(t *testing.T) {
	df := createSalesDataFrame(t)
	defer df.Release()

	out, err := df.PivotTable(PivotOptions{Rows: "state", Columns: "year", Values: "rep", AggFunc: "max"})
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, []any{"bo", nil, "ann"}, columnValues(t, out, "2020"))
}

func TestPivotTableErrors(t *testing.T) {
	df := createSalesDataFrame(t)
	defer df.Release()

	tests := []struct {
		name string
		opts PivotOptions
		kind error
	}{
		{"no axes", PivotOptions{Values: "sales", AggFunc: "sum"}, errors.ErrInvalidInput},
		{"values without aggregation", PivotOptions{Rows: "state", Values: "sales"}, errors.ErrInvalidInput},
		{"aggregation without values", PivotOptions{Rows: "state", AggFunc: "sum"}, errors.ErrInvalidInput},
		{"unknown aggregation", PivotOptions{Rows: "state", Values: "sales", AggFunc: "mode"}, errors.ErrInvalidInput},
		{"unknown column", PivotOptions{Rows: "region"}, errors.ErrColumnNotFound},
		{"aggregation on text", PivotOptions{Rows: "state", Values: "rep", AggFunc: "mean"}, errors.ErrTypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := df.PivotTable(tt.opts)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}
