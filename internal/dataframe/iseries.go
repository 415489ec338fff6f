package dataframe

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/series"
)

// ISeries provides a type-erased interface for Series of any kind
type ISeries interface {
	Name() string
	Len() int
	Kind() series.Kind
	DataType() arrow.DataType
	IsNull(index int) bool
	NullN() int
	String() string
	Array() arrow.Array
	Release()
}

// shareSeries returns a view of s under name that holds its own reference to
// the underlying array.
func shareSeries(s ISeries, name string) ISeries {
	switch typed := s.(type) {
	case *series.Series[int64]:
		return typed.Rename(name)
	case *series.Series[float64]:
		return typed.Rename(name)
	case *series.Series[bool]:
		return typed.Rename(name)
	case *series.Series[string]:
		return typed.Rename(name)
	default:
		panic(fmt.Sprintf("unsupported series type %T", s))
	}
}

// sliceSeries returns the zero-copy view of rows [start, end).
func sliceSeries(s ISeries, start, end int) ISeries {
	switch typed := s.(type) {
	case *series.Series[int64]:
		return typed.Slice(start, end)
	case *series.Series[float64]:
		return typed.Slice(start, end)
	case *series.Series[bool]:
		return typed.Slice(start, end)
	case *series.Series[string]:
		return typed.Slice(start, end)
	default:
		panic(fmt.Sprintf("unsupported series type %T", s))
	}
}

// takeSeries gathers rows by position into a new series.
func takeSeries(s ISeries, indices []int, mem memory.Allocator) ISeries {
	switch typed := s.(type) {
	case *series.Series[int64]:
		return typed.Take(indices, mem)
	case *series.Series[float64]:
		return typed.Take(indices, mem)
	case *series.Series[bool]:
		return typed.Take(indices, mem)
	case *series.Series[string]:
		return typed.Take(indices, mem)
	default:
		panic(fmt.Sprintf("unsupported series type %T", s))
	}
}

// copySeries deep-copies s.
func copySeries(s ISeries, mem memory.Allocator) ISeries {
	switch typed := s.(type) {
	case *series.Series[int64]:
		return typed.Copy(mem)
	case *series.Series[float64]:
		return typed.Copy(mem)
	case *series.Series[bool]:
		return typed.Copy(mem)
	case *series.Series[string]:
		return typed.Copy(mem)
	default:
		panic(fmt.Sprintf("unsupported series type %T", s))
	}
}
