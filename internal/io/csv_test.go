package io_test

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/config"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/io"
	"github.com/paveg/cub/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("reads simple CSV with headers", func(t *testing.T) {
		csvData := `name,age,salary
Alice,25,50000
Bob,30,60000.5
Charlie,35,70000`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 3, df.Len())
		assert.Equal(t, []string{"name", "age", "salary"}, df.Columns())

		kind, _ := df.Kind("name")
		assert.Equal(t, series.Object, kind)
		kind, _ = df.Kind("age")
		assert.Equal(t, series.Int, kind)
		kind, _ = df.Kind("salary")
		assert.Equal(t, series.Float, kind)

		ageCol, exists := df.Column("age")
		require.True(t, exists)
		ageArray := ageCol.Array()
		defer ageArray.Release()
		assert.Equal(t, int64(25), ageArray.(*array.Int64).Value(0))

		assert.Equal(t, []any{"Bob", int64(30), 60000.5}, df.Values()[1])
	})

	t.Run("reads CSV without headers", func(t *testing.T) {
		csvData := `Alice,25
Bob,30`

		options := io.DefaultCSVOptions()
		options.Header = false
		df, err := io.NewCSVReader(strings.NewReader(csvData), options, mem).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, []string{"column_0", "column_1"}, df.Columns())
		assert.Equal(t, 2, df.Len())
	})

	t.Run("infers booleans case-insensitively", func(t *testing.T) {
		csvData := "flag\ntrue\nFALSE\nTrue"

		df, err := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem).Read()
		require.NoError(t, err)
		defer df.Release()

		kind, _ := df.Kind("flag")
		assert.Equal(t, series.Bool, kind)
		assert.Equal(t, [][]any{{true}, {false}, {true}}, df.Values())
	})

	t.Run("custom delimiter and comments", func(t *testing.T) {
		csvData := "# generated\nname;score\nAlice; 1.5\nBob; 2"

		options := io.DefaultCSVOptions()
		options.Delimiter = ';'
		options.Comment = '#'
		options.SkipInitialSpace = true
		df, err := io.NewCSVReader(strings.NewReader(csvData), options, mem).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, []string{"name", "score"}, df.Columns())
		assert.Equal(t, [][]any{{"Alice", 1.5}, {"Bob", 2.0}}, df.Values())
	})

	t.Run("handles empty CSV", func(t *testing.T) {
		df, err := io.NewCSVReader(strings.NewReader(""), io.DefaultCSVOptions(), mem).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 0, df.Len())
		assert.Equal(t, 0, df.Width())
	})

	t.Run("header only yields empty text columns", func(t *testing.T) {
		df, err := io.NewCSVReader(strings.NewReader("a,b\n"), io.DefaultCSVOptions(), mem).Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, []string{"a", "b"}, df.Columns())
		assert.Equal(t, 0, df.Len())
		kind, _ := df.Kind("a")
		assert.Equal(t, series.Object, kind)
	})

	t.Run("rejects rows wider than the header", func(t *testing.T) {
		_, err := io.NewCSVReader(strings.NewReader("a,b\n1,2,3"), io.DefaultCSVOptions(), mem).Read()
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("rejects duplicate headers", func(t *testing.T) {
		_, err := io.NewCSVReader(strings.NewReader("a,a\n1,2"), io.DefaultCSVOptions(), mem).Read()
		assert.ErrorIs(t, err, errors.ErrDuplicateName)
	})
}

func TestCSVReader_MissingValues(t *testing.T) {
	csvData := `name,age,score,flag
Alice,25,,true
,30,2.5,
Carol,,3.5,false`

	df, err := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), nil).Read()
	require.NoError(t, err)
	defer df.Release()

	t.Run("empty text cells are null", func(t *testing.T) {
		kind, _ := df.Kind("name")
		assert.Equal(t, series.Object, kind)
		rows := df.Values()
		assert.Nil(t, rows[1][0])
		assert.Equal(t, "Carol", rows[2][0])
	})

	t.Run("int column with empty cells becomes float", func(t *testing.T) {
		kind, _ := df.Kind("age")
		assert.Equal(t, series.Float, kind)
		rows := df.Values()
		assert.Equal(t, 25.0, rows[0][1])
		assert.True(t, math.IsNaN(rows[2][1].(float64)))
	})

	t.Run("float column keeps NaN for empty cells", func(t *testing.T) {
		rows := df.Values()
		assert.True(t, math.IsNaN(rows[0][2].(float64)))
		assert.Equal(t, 3.5, rows[2][2])
	})

	t.Run("bool column with empty cells becomes text", func(t *testing.T) {
		kind, _ := df.Kind("flag")
		assert.Equal(t, series.Object, kind)
		rows := df.Values()
		assert.Equal(t, "true", rows[0][3])
		assert.Nil(t, rows[1][3])
	})

	t.Run("short rows are padded", func(t *testing.T) {
		short, err := io.NewCSVReader(strings.NewReader("a,b\nx,1\ny"), io.DefaultCSVOptions(), nil).Read()
		require.NoError(t, err)
		defer short.Release()

		rows := short.Values()
		assert.Equal(t, "y", rows[1][0])
		assert.True(t, math.IsNaN(rows[1][1].(float64)))
	})
}

func TestCSVOptionsFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.CSVDelimiter = "\t"
	cfg.CSVHeader = false

	opts := io.CSVOptionsFromConfig(cfg)
	assert.Equal(t, '\t', opts.Delimiter)
	assert.False(t, opts.Header)
	assert.Equal(t, rune(0), opts.Comment)
}

func TestCSVReader_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	df, err := io.NewCSVReader(strings.NewReader("n\n1\n2"), io.DefaultCSVOptions(), nil).
		WithLogger(logger).
		Read()
	require.NoError(t, err)
	defer df.Release()

	out := buf.String()
	assert.Contains(t, out, "inferred column kind")
	assert.Contains(t, out, "column=n")
	assert.Contains(t, out, "kind=int")
}
