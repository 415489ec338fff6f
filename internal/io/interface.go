// Package io reads DataFrames from CSV and JSON sources.
//
// Readers infer one kind per column and mark empty or null values as
// missing: NaN in numeric columns, null in text columns. Every reader takes
// an Arrow allocator for the columns it builds and an optional logger that
// receives a debug record per inferred column.
package io

import (
	"io"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/config"
	"github.com/paveg/cub/internal/dataframe"
)

// DataReader defines the interface for reading data from various sources
type DataReader interface {
	// Read reads data from the source and returns a DataFrame
	Read() (*dataframe.DataFrame, error)
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter: ',',
		Header:    true,
	}
}

// CSVOptionsFromConfig returns CSV options using the ingestion settings of cfg
func CSVOptionsFromConfig(cfg config.Config) CSVOptions {
	opts := DefaultCSVOptions()
	opts.Delimiter = cfg.Delimiter()
	opts.Header = cfg.CSVHeader
	return opts
}

// CSVReader reads CSV data and converts it to DataFrames
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
	logger  *slog.Logger
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &CSVReader{
		reader:  reader,
		options: options,
		mem:     mem,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger that receives inference records
func (r *CSVReader) WithLogger(logger *slog.Logger) *CSVReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// JSONFormat selects the layout of JSON input
type JSONFormat int

const (
	// JSONColumns is a single object mapping column names to arrays
	JSONColumns JSONFormat = iota
	// JSONRecords is an array of row objects
	JSONRecords
	// JSONLines is one row object per line
	JSONLines
)

// JSONOptions contains configuration options for JSON operations
type JSONOptions struct {
	// Format is the input layout (default: JSONColumns)
	Format JSONFormat
	// MaxRecords limits the rows read from record formats (0 = unlimited)
	MaxRecords int
}

// DefaultJSONOptions returns default JSON options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Format: JSONColumns}
}

// JSONReader reads JSON data and converts it to DataFrames
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
	mem     memory.Allocator
	logger  *slog.Logger
}

// NewJSONReader creates a new JSON reader with the specified options
func NewJSONReader(reader io.Reader, options JSONOptions, mem memory.Allocator) *JSONReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &JSONReader{
		reader:  reader,
		options: options,
		mem:     mem,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger that receives inference records
func (r *JSONReader) WithLogger(logger *slog.Logger) *JSONReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// logColumns emits one debug record per column of df.
func logColumns(logger *slog.Logger, source string, df *dataframe.DataFrame) {
	for _, name := range df.Columns() {
		kind, _ := df.Kind(name)
		logger.Debug("inferred column kind",
			slog.String("source", source),
			slog.String("column", name),
			slog.String("kind", kind.String()),
			slog.Int("rows", df.Len()))
	}
}
