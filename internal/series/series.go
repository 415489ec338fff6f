// Package series provides the typed, Arrow-backed columns a DataFrame stores.
package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Series represents a named, immutable column with an Apache Arrow backend
type Series[T Element] struct {
	name  string
	array arrow.Array
}

// New creates a new Series from a slice of values
func New[T Element](name string, values []T, mem memory.Allocator) *Series[T] {
	return NewWithValidity(name, values, nil, mem)
}

// NewWithValidity creates a Series whose positions with valid[i] == false are
// null. A nil valid slice marks every value present.
func NewWithValidity[T Element](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &Series[T]{
		name:  name,
		array: buildArray(values, valid, mem),
	}
}

// FromArray wraps an existing Arrow array, taking ownership of the caller's
// reference. The array's type must match T.
func FromArray[T Element](name string, arr arrow.Array) (*Series[T], error) {
	kind, ok := KindOf(arr.DataType())
	if !ok || kind != KindFor[T]() {
		return nil, fmt.Errorf("array of type %s cannot back a %s series", arr.DataType(), KindFor[T]())
	}
	return &Series[T]{name: name, array: arr}, nil
}

func buildArray[T Element](values []T, valid []bool, mem memory.Allocator) arrow.Array {
	switch v := any(values).(type) {
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	default:
		panic(fmt.Sprintf("unsupported type: %T", values))
	}
}

// Name returns the column name
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the length of the series
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Kind returns the column kind
func (s *Series[T]) Kind() Kind {
	return KindFor[T]()
}

// DataType returns the Arrow data type
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull checks if the value at index is an Arrow null
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// NullN returns the number of Arrow nulls
func (s *Series[T]) NullN() int {
	return s.array.NullN()
}

// Value returns the value at the given index. Nulls and out-of-range
// positions yield the zero value.
func (s *Series[T]) Value(index int) T {
	var result T
	if index < 0 || index >= s.array.Len() || s.array.IsNull(index) {
		return result
	}

	switch arr := s.array.(type) {
	case *array.Int64:
		result = any(arr.Value(index)).(T)
	case *array.Float64:
		result = any(arr.Value(index)).(T)
	case *array.Boolean:
		result = any(arr.Value(index)).(T)
	case *array.String:
		result = any(arr.Value(index)).(T)
	}
	return result
}

// Values returns the data as a Go slice; nulls become the zero value
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())

	switch arr := s.array.(type) {
	case *array.Int64:
		copy(any(result).([]int64), arr.Int64Values())
	case *array.Float64:
		copy(any(result).([]float64), arr.Float64Values())
	case *array.Boolean:
		values := any(result).([]bool)
		for i := range values {
			values[i] = arr.Value(i)
		}
	case *array.String:
		values := any(result).([]string)
		for i := range values {
			if arr.IsValid(i) {
				values[i] = arr.Value(i)
			}
		}
	default:
		panic(fmt.Sprintf("unsupported array type: %T", arr))
	}

	if s.array.NullN() > 0 {
		var zero T
		for i := range result {
			if s.array.IsNull(i) {
				result[i] = zero
			}
		}
	}
	return result
}

// Validity returns the per-position presence flags, or nil when the series
// has no nulls.
func (s *Series[T]) Validity() []bool {
	if s.array.NullN() == 0 {
		return nil
	}
	valid := make([]bool, s.array.Len())
	for i := range valid {
		valid[i] = s.array.IsValid(i)
	}
	return valid
}

// String returns a string representation of the series
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)", s.Kind(), s.name, s.Len())
}

// Array returns the underlying Arrow array (retains a reference)
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Rename returns a series sharing this one's data under a new name.
func (s *Series[T]) Rename(name string) *Series[T] {
	return &Series[T]{name: name, array: s.Array()}
}

// Slice returns the zero-copy view of rows [start, end).
func (s *Series[T]) Slice(start, end int) *Series[T] {
	return &Series[T]{name: s.name, array: array.NewSlice(s.array, int64(start), int64(end))}
}

// Take gathers the values at the given positions into a new series.
func (s *Series[T]) Take(indices []int, mem memory.Allocator) *Series[T] {
	values := make([]T, len(indices))
	var valid []bool
	hasNulls := s.array.NullN() > 0
	if hasNulls {
		valid = make([]bool, len(indices))
	}
	for i, idx := range indices {
		values[i] = s.Value(idx)
		if hasNulls {
			valid[i] = s.array.IsValid(idx)
		}
	}
	return NewWithValidity(s.name, values, valid, mem)
}

// Copy returns a deep copy of the series.
func (s *Series[T]) Copy(mem memory.Allocator) *Series[T] {
	return NewWithValidity(s.name, s.Values(), s.Validity(), mem)
}

// Release releases the underlying Arrow memory
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}
