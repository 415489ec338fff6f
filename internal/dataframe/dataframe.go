// Package dataframe provides the column-oriented DataFrame and its selection,
// aggregation and transformation engines.
package dataframe

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/paveg/cub/internal/validation"
)

// DataFrame represents a table of equal-length typed columns
type DataFrame struct {
	columns map[string]ISeries
	order   []string // Maintains column order
	mem     memory.Allocator
}

// Column is one named construction input. Values is a one-dimensional Go
// slice or array, or an arrow.Array.
type Column struct {
	Name   string
	Values any
}

// New creates a DataFrame that takes ownership of already-built series.
// Names must be unique and lengths equal.
func New(cols ...ISeries) (*DataFrame, error) {
	names := make([]string, len(cols))
	for i, s := range cols {
		names[i] = s.Name()
	}
	if err := validation.ValidateUniqueNames(names, "New"); err != nil {
		return nil, err
	}
	for _, s := range cols {
		if err := validation.ValidateLength(cols[0].Len(), s.Len(), "New", s.Name()); err != nil {
			return nil, err
		}
	}
	return newFrame(memory.NewGoAllocator(), cols), nil
}

// FromColumns validates and normalizes construction input into a DataFrame
// allocated from mem. A nil mem uses the Go allocator.
func FromColumns(mem memory.Allocator, cols ...Column) (*DataFrame, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	if err := validation.ValidateUniqueNames(names, "New"); err != nil {
		return nil, err
	}

	built := make([]ISeries, 0, len(cols))
	release := func() {
		for _, s := range built {
			s.Release()
		}
	}
	for _, col := range cols {
		s, err := normalize("New", col.Name, col.Values, mem)
		if err != nil {
			release()
			return nil, err
		}
		built = append(built, s)
		if err := validation.ValidateLength(built[0].Len(), s.Len(), "New", col.Name); err != nil {
			release()
			return nil, err
		}
	}
	return newFrame(mem, built), nil
}

// newFrame assembles a DataFrame from series that already satisfy the
// store invariants.
func newFrame(mem memory.Allocator, cols []ISeries) *DataFrame {
	columns := make(map[string]ISeries, len(cols))
	order := make([]string, 0, len(cols))
	for _, s := range cols {
		columns[s.Name()] = s
		order = append(order, s.Name())
	}
	return &DataFrame{columns: columns, order: order, mem: mem}
}

// fromVectors builds a DataFrame from computed columns.
func (df *DataFrame) fromVectors(names []string, vectors []vector) *DataFrame {
	cols := make([]ISeries, len(names))
	for i, name := range names {
		cols[i] = vectors[i].build(name, df.mem)
	}
	return newFrame(df.mem, cols)
}

// Allocator returns the allocator used for derived DataFrames
func (df *DataFrame) Allocator() memory.Allocator {
	return df.mem
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	return append([]string{}, df.order...)
}

// Len returns the number of rows
func (df *DataFrame) Len() int {
	if len(df.order) == 0 {
		return 0
	}
	return df.columns[df.order[0]].Len()
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return len(df.order)
}

// Shape returns the row and column counts
func (df *DataFrame) Shape() (int, int) {
	return df.Len(), df.Width()
}

// Column returns the series for the given column name
func (df *DataFrame) Column(name string) (ISeries, bool) {
	s, exists := df.columns[name]
	return s, exists
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// Kind returns the kind of the named column
func (df *DataFrame) Kind(name string) (series.Kind, bool) {
	s, exists := df.columns[name]
	if !exists {
		return 0, false
	}
	return s.Kind(), true
}

// column returns the vector of the named column; the name must exist.
func (df *DataFrame) column(name string) vector {
	return vectorOf(df.columns[name])
}

// SetColumns renames every column positionally. The number of names must
// match the width and the names must be unique and non-empty.
func (df *DataFrame) SetColumns(names []string) error {
	if err := validation.ValidateLength(df.Width(), len(names), "SetColumns", ""); err != nil {
		return err
	}
	if err := validation.ValidateUniqueNames(names, "SetColumns"); err != nil {
		return err
	}

	columns := make(map[string]ISeries, len(names))
	for i, old := range df.order {
		s := df.columns[old]
		renamed := shareSeries(s, names[i])
		s.Release()
		columns[names[i]] = renamed
	}
	df.columns = columns
	df.order = append([]string(nil), names...)
	return nil
}

// Set adds or replaces the column name. value may be a one-dimensional
// array, an arrow.Array, a single-column DataFrame, or a scalar that is
// repeated for every row.
func (df *DataFrame) Set(name string, value any) error {
	const op = "Set"
	if err := validation.NewNameValidator(name, op).Validate(); err != nil {
		return err
	}

	s, err := df.assignable(op, name, value)
	if err != nil {
		return err
	}
	if df.Width() > 0 {
		if err := validation.ValidateLength(df.Len(), s.Len(), op, name); err != nil {
			s.Release()
			return err
		}
	}

	if old, exists := df.columns[name]; exists {
		old.Release()
	} else {
		df.order = append(df.order, name)
	}
	df.columns[name] = s
	return nil
}

func (df *DataFrame) assignable(op, name string, value any) (ISeries, error) {
	switch v := value.(type) {
	case *DataFrame:
		if v == nil || v.Width() != 1 {
			return nil, errors.NewInvalidInputError(op, "assigned DataFrame must have exactly one column")
		}
		return shareSeries(v.columns[v.order[0]], name), nil
	case arrow.Array:
		return normalize(op, name, v, df.mem)
	case nil:
		return nil, errors.NewTypeError(op, name, "cannot assign nil")
	}

	if k := reflect.TypeOf(value).Kind(); k == reflect.Slice || k == reflect.Array {
		return normalize(op, name, value, df.mem)
	}

	scalar, err := common.NewScalar(value)
	if err != nil {
		return nil, errors.NewTypeError(op, name, err.Error())
	}
	return broadcast(scalar, df.Len()).build(name, df.mem), nil
}

// broadcast repeats a scalar n times.
func broadcast(s common.Scalar, n int) vector {
	switch s.Kind {
	case series.Int:
		v := s.Int64()
		ints := make([]int64, n)
		for i := range ints {
			ints[i] = v
		}
		return intVector(ints)
	case series.Float:
		v := s.Float64()
		floats := make([]float64, n)
		for i := range floats {
			floats[i] = v
		}
		return floatVector(floats)
	case series.Bool:
		bools := make([]bool, n)
		for i := range bools {
			bools[i] = s.Bool
		}
		return boolVector(bools)
	default:
		strs := make([]string, n)
		for i := range strs {
			strs[i] = s.Str
		}
		return objectVector(strs, nil)
	}
}

// Values materializes the table row by row. Each row holds int64, float64,
// bool or string values in column order; a missing text value is nil.
func (df *DataFrame) Values() [][]any {
	vectors := make([]vector, len(df.order))
	for j, name := range df.order {
		vectors[j] = df.column(name)
	}

	rows := make([][]any, df.Len())
	for i := range rows {
		row := make([]any, len(vectors))
		for j, v := range vectors {
			row[j] = v.at(i)
		}
		rows[i] = row
	}
	return rows
}

// Equal reports whether other has the same columns, kinds and values.
// Missing values compare equal to each other.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if other == nil || df.Width() != other.Width() || df.Len() != other.Len() {
		return false
	}
	for i, name := range df.order {
		if other.order[i] != name {
			return false
		}
		a, b := df.column(name), other.column(name)
		if a.kind != b.kind {
			return false
		}
		for r := 0; r < a.len(); r++ {
			if a.missing(r) != b.missing(r) {
				return false
			}
			if !a.missing(r) && cmpAcross(a, b, r) != 0 {
				return false
			}
		}
	}
	return true
}

// cmpAcross compares position r of two vectors of the same kind.
func cmpAcross(a, b vector, r int) int {
	switch a.kind {
	case series.Int:
		return cmpOrdered(a.ints[r], b.ints[r])
	case series.Float:
		return cmpOrdered(a.floats[r], b.floats[r])
	case series.Bool:
		return cmpOrdered(a.int(r), b.int(r))
	default:
		return strings.Compare(a.strs[r], b.strs[r])
	}
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.order) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, df.columns[name].Kind()))
	}
	return strings.Join(parts, "\n")
}

// Release releases all column memory held by the DataFrame
func (df *DataFrame) Release() {
	for _, s := range df.columns {
		s.Release()
	}
	df.columns = map[string]ISeries{}
	df.order = nil
}
