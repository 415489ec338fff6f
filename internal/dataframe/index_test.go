package dataframe

import (
	"testing"

	"github.com/paveg/cub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFrameSelect(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	selected, err := df.Select("salary", "name")
	require.NoError(t, err)
	defer selected.Release()

	assert.Equal(t, []string{"salary", "name"}, selected.Columns())
	assert.Equal(t, 3, selected.Len())

	_, err = df.Select("name", "nonexistent")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)
}

func TestDataFrameSelectRepeatedName(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	selected, err := df.Select("age", "name", "age")
	require.NoError(t, err)
	defer selected.Release()

	assert.Equal(t, []string{"age", "name"}, selected.Columns())
}

func TestDataFrameGet(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	t.Run("single name", func(t *testing.T) {
		out, err := df.Get("age")
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, []string{"age"}, out.Columns())
	})

	t.Run("list of names", func(t *testing.T) {
		out, err := df.Get([]string{"active", "age"})
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, []string{"active", "age"}, out.Columns())
	})

	t.Run("boolean mask", func(t *testing.T) {
		mask, err := df.Get("active")
		require.NoError(t, err)
		defer mask.Release()

		out, err := df.Get(mask)
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, []any{"Alice", "Charlie"}, columnValues(t, out, "name"))
	})

	t.Run("row and column tuple", func(t *testing.T) {
		out, err := df.Get(At(1, "name"))
		require.NoError(t, err)
		defer out.Release()
		assert.Equal(t, []any{"Bob"}, columnValues(t, out, "name"))
	})

	t.Run("unsupported key", func(t *testing.T) {
		_, err := df.Get(3.5)
		assert.ErrorIs(t, err, errors.ErrTypeIncompatible)
	})
}

func TestDataFrameFilterErrors(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	wide, err := df.Select("active", "age")
	require.NoError(t, err)
	defer wide.Release()
	_, err = df.Filter(wide)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	ages, err := df.Select("age")
	require.NoError(t, err)
	defer ages.Release()
	_, err = df.Filter(ages)
	assert.ErrorIs(t, err, errors.ErrTypeIncompatible)

	short := mustFrame(t, Column{Name: "m", Values: []bool{true}})
	defer short.Release()
	_, err = df.Filter(short)
	assert.ErrorIs(t, err, errors.ErrShapeMismatch)

	_, err = df.Filter(nil)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestDataFrameLoc(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	tests := []struct {
		name     string
		rows     any
		cols     any
		wantCols []string
		wantAge  []any
	}{
		{"negative row", -1, "age", []string{"age"}, []any{int64(35)}},
		{"row list", []int{2, 0}, []string{"age", "name"}, []string{"age", "name"}, []any{int64(35), int64(25)}},
		{"row slice", Span(0, 2), 1, []string{"age"}, []any{int64(25), int64(30)}},
		{"reversed slice", All().Every(-1), Span(0, 2), []string{"name", "age"}, []any{int64(35), int64(30), int64(25)}},
		{"column list by position", nil, []int{1, -4}, []string{"age", "name"}, []any{int64(25), int64(30), int64(35)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := df.Loc(tt.rows, tt.cols)
			require.NoError(t, err)
			defer out.Release()

			assert.Equal(t, tt.wantCols, out.Columns())
			assert.Equal(t, tt.wantAge, columnValues(t, out, "age"))
		})
	}
}

func TestDataFrameLocErrors(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	_, err := df.Loc(3, nil)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfBounds)

	_, err = df.Loc(nil, 9)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfBounds)

	_, err = df.Loc(nil, "nope")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)

	_, err = df.Loc("rows", nil)
	assert.ErrorIs(t, err, errors.ErrTypeIncompatible)

	_, err = df.Loc(All().Every(0), nil)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestSliceIndices(t *testing.T) {
	tests := []struct {
		slice Slice
		want  []int
	}{
		{All(), []int{0, 1, 2, 3, 4}},
		{Span(1, 3), []int{1, 2}},
		{From(-2), []int{3, 4}},
		{To(-3), []int{0, 1}},
		{All().Every(2), []int{0, 2, 4}},
		{All().Every(-2), []int{4, 2, 0}},
		{Span(10, 20), nil},
	}

	for _, tt := range tests {
		t.Run(tt.slice.String(), func(t *testing.T) {
			got, err := tt.slice.indices("test", 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataFrameHeadTail(t *testing.T) {
	df := createTestDataFrame(t)
	defer df.Release()

	head := df.Head(2)
	defer head.Release()
	assert.Equal(t, []any{"Alice", "Bob"}, columnValues(t, head, "name"))

	tail := df.Tail(2)
	defer tail.Release()
	assert.Equal(t, []any{"Bob", "Charlie"}, columnValues(t, tail, "name"))

	none := df.Tail(0)
	defer none.Release()
	assert.Equal(t, 0, none.Len())
	assert.Equal(t, 4, none.Width())

	all := df.Head(10)
	defer all.Release()
	assert.True(t, all.Equal(df))

	dropLast := df.Head(-1)
	defer dropLast.Release()
	assert.Equal(t, []any{"Alice", "Bob"}, columnValues(t, dropLast, "name"))
}
