// Package cub provides a minimal column-oriented DataFrame on Apache Arrow.
// This package is the sole public API for the library.
//
// A DataFrame is an ordered set of named, equal-length columns. Each column
// holds one of four kinds: int, float, bool or string. Missing values are
// NaN in float columns and null in string columns; int and bool columns are
// always complete. Every operation returns a new DataFrame except Set and
// SetColumns, which rewrite the receiver's own columns.
//
//	df, err := cub.New(
//		cub.Col("name", []string{"Alice", "Bob"}),
//		cub.Col("age", []int{25, 30}),
//	)
//	if err != nil {
//		return err
//	}
//	defer df.Release()
//	fmt.Println(cub.Text(df))
package cub

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/config"
	"github.com/paveg/cub/internal/dataframe"
	"github.com/paveg/cub/internal/display"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/io"
	"github.com/paveg/cub/internal/series"
)

type (
	// DataFrame is a table of named, equal-length columns.
	DataFrame = dataframe.DataFrame
	// Column is one named construction input.
	Column = dataframe.Column
	// ISeries provides a type-erased interface for stored columns.
	ISeries = dataframe.ISeries
	// Kind is the element type of a column.
	Kind = series.Kind
	// AggFunc names a column reduction.
	AggFunc = dataframe.AggFunc
	// Transform names a shape-preserving column transform.
	Transform = dataframe.Transform
	// Slice is a positional range selector.
	Slice = dataframe.Slice
	// Tuple selects rows and columns together.
	Tuple = dataframe.Tuple
	// ClipOptions bounds the values kept by Clip.
	ClipOptions = dataframe.ClipOptions
	// SampleOptions configures Sample.
	SampleOptions = dataframe.SampleOptions
	// PivotOptions configures PivotTable.
	PivotOptions = dataframe.PivotOptions
	// StringAccessor applies text operations to one column.
	StringAccessor = dataframe.StringAccessor
	// CSVOptions configures CSV ingestion.
	CSVOptions = io.CSVOptions
	// JSONOptions configures JSON ingestion.
	JSONOptions = io.JSONOptions
	// DisplayOptions controls rendered output.
	DisplayOptions = display.Options
	// Config holds process-wide defaults.
	Config = config.Config
	// DataFrameError is the error type returned by DataFrame operations.
	DataFrameError = errors.DataFrameError
)

// Column kinds.
const (
	Int    = series.Int
	Float  = series.Float
	Bool   = series.Bool
	Object = series.Object
)

// JSON layouts.
const (
	JSONColumns = io.JSONColumns
	JSONRecords = io.JSONRecords
	JSONLines   = io.JSONLines
)

// Error kinds, matched with errors.Is.
var (
	ErrInvalidInput     = errors.ErrInvalidInput
	ErrShapeMismatch    = errors.ErrShapeMismatch
	ErrColumnNotFound   = errors.ErrColumnNotFound
	ErrTypeIncompatible = errors.ErrTypeIncompatible
	ErrDuplicateName    = errors.ErrDuplicateName
	ErrIndexOutOfBounds = errors.ErrIndexOutOfBounds
)

// Col pairs a column name with its values. values is a one-dimensional Go
// slice or array, or an arrow.Array.
func Col(name string, values any) Column {
	return Column{Name: name, Values: values}
}

// New creates a DataFrame from columns using the Go allocator.
func New(cols ...Column) (*DataFrame, error) {
	return dataframe.FromColumns(memory.NewGoAllocator(), cols...)
}

// NewWithAllocator creates a DataFrame whose columns are allocated from mem.
func NewWithAllocator(mem memory.Allocator, cols ...Column) (*DataFrame, error) {
	return dataframe.FromColumns(mem, cols...)
}

// FromSeries creates a DataFrame that takes ownership of already-built series.
func FromSeries(cols ...ISeries) (*DataFrame, error) {
	return dataframe.New(cols...)
}

// NewSeries creates a typed column from values.
func NewSeries[T series.Element](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// Span selects positions start up to but excluding stop.
func Span(start, stop int) Slice { return dataframe.Span(start, stop) }

// From selects positions from start to the end, like df[start:].
func From(start int) Slice { return dataframe.From(start) }

// To selects positions before stop, like df[:stop].
func To(stop int) Slice { return dataframe.To(stop) }

// All selects every position.
func All() Slice { return dataframe.All() }

// At builds a row and column selector for Get.
func At(rows, cols any) Tuple { return dataframe.At(rows, cols) }

// ParseAggFunc looks up a reduction by name, e.g. "mean".
func ParseAggFunc(name string) (AggFunc, error) { return dataframe.ParseAggFunc(name) }

// ParseTransform looks up a transform by name, e.g. "cumsum".
func ParseTransform(name string) (Transform, error) { return dataframe.ParseTransform(name) }

// ReadCSV reads a CSV file using the delimiter and header settings of the
// global configuration.
func ReadCSV(path string) (*DataFrame, error) {
	return ReadCSVWithOptions(path, io.CSVOptionsFromConfig(config.GetGlobalConfig()))
}

// ReadCSVWithOptions reads a CSV file with explicit options.
func ReadCSVWithOptions(path string, opts CSVOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.NewCSVReader(f, opts, memory.NewGoAllocator()).Read()
}

// DefaultCSVOptions returns comma-delimited options with a header row.
func DefaultCSVOptions() CSVOptions { return io.DefaultCSVOptions() }

// ReadJSON reads a file holding one JSON object of column arrays.
func ReadJSON(path string) (*DataFrame, error) {
	return ReadJSONWithOptions(path, io.DefaultJSONOptions())
}

// ReadJSONWithOptions reads a JSON file in the given layout.
func ReadJSONWithOptions(path string, opts JSONOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.NewJSONReader(f, opts, memory.NewGoAllocator()).Read()
}

// HTML renders df as an HTML table using the global display settings.
func HTML(df *DataFrame) string { return display.HTML(df) }

// Text renders df as aligned plain text using the global display settings.
func Text(df *DataFrame) string { return display.Text(df) }

// SetConfig replaces the process-wide configuration.
func SetConfig(cfg Config) { config.SetGlobalConfig(cfg) }

// GetConfig returns the process-wide configuration.
func GetConfig() Config { return config.GetGlobalConfig() }
