package dataframe

import (
	"fmt"
	"math"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/paveg/cub/internal/validation"
	"golang.org/x/exp/constraints"
)

// normalize turns a user-supplied one-dimensional array into a column of one
// of the four kinds. Text always becomes an Object column.
func normalize(op, name string, values any, mem memory.Allocator) (ISeries, error) {
	if err := validation.ValidateArray(name, values, op); err != nil {
		return nil, err
	}

	switch v := values.(type) {
	case arrow.Array:
		return fromArrow(op, name, v, mem)
	case []string:
		return series.New(name, v, mem), nil
	case []*string:
		strs := make([]string, len(v))
		valid := make([]bool, len(v))
		for i, p := range v {
			if p != nil {
				strs[i], valid[i] = *p, true
			}
		}
		return series.NewWithValidity(name, strs, compactValidity(valid), mem), nil
	case []any:
		return fromInterfaces(op, name, v, mem)
	case []int64:
		return series.New(name, append([]int64(nil), v...), mem), nil
	case []int:
		return series.New(name, widenInts(v), mem), nil
	case []int8:
		return series.New(name, widenInts(v), mem), nil
	case []int16:
		return series.New(name, widenInts(v), mem), nil
	case []int32:
		return series.New(name, widenInts(v), mem), nil
	case []uint8:
		return series.New(name, widenInts(v), mem), nil
	case []uint16:
		return series.New(name, widenInts(v), mem), nil
	case []uint32:
		return series.New(name, widenInts(v), mem), nil
	case []uint:
		ints, err := checkedInts(op, name, v)
		if err != nil {
			return nil, err
		}
		return series.New(name, ints, mem), nil
	case []uint64:
		ints, err := checkedInts(op, name, v)
		if err != nil {
			return nil, err
		}
		return series.New(name, ints, mem), nil
	case []float64:
		return series.New(name, append([]float64(nil), v...), mem), nil
	case []float32:
		return series.New(name, widenFloats(v), mem), nil
	case []bool:
		return series.New(name, append([]bool(nil), v...), mem), nil
	default:
		return fromReflect(op, name, reflect.ValueOf(values), mem)
	}
}

func widenInts[T constraints.Integer](values []T) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func checkedInts[T constraints.Unsigned](op, name string, values []T) ([]int64, error) {
	out := make([]int64, len(values))
	for i, v := range values {
		if uint64(v) > math.MaxInt64 {
			return nil, errors.NewValidationError(op, name,
				fmt.Sprintf("value %d at position %d overflows int64", v, i))
		}
		out[i] = int64(v)
	}
	return out, nil
}

func widenFloats[T constraints.Float](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// compactValidity drops an all-true validity slice.
func compactValidity(valid []bool) []bool {
	for _, ok := range valid {
		if !ok {
			return valid
		}
	}
	return nil
}

// fromInterfaces infers a single kind for a []any. nil entries are missing:
// null for text, NaN for numbers. Booleans cannot be missing.
func fromInterfaces(op, name string, raw []any, mem memory.Allocator) (ISeries, error) {
	values := make([]any, len(raw))
	var hasString, hasBool, hasInt, hasFloat, hasNil bool
	for i, value := range raw {
		if p, ok := value.(*string); ok {
			value = nil
			if p != nil {
				value = *p
			}
		}
		values[i] = value

		switch value.(type) {
		case nil:
			hasNil = true
		case string:
			hasString = true
		case bool:
			hasBool = true
		case float32, float64:
			hasFloat = true
		default:
			if !common.IsIntegerType(value) {
				return nil, errors.NewValidationError(op, name,
					fmt.Sprintf("unsupported element type %s", common.GetTypeName(value)))
			}
			hasInt = true
		}
	}

	numeric := hasInt || hasFloat
	switch {
	case hasString && (hasBool || numeric), hasBool && numeric:
		return nil, errors.NewValidationError(op, name, "array elements must share one type")
	case hasBool:
		if hasNil {
			return nil, errors.NewValidationError(op, name, "boolean arrays cannot hold missing values")
		}
		bools := make([]bool, len(values))
		for i, value := range values {
			bools[i] = value.(bool)
		}
		return series.New(name, bools, mem), nil
	case hasFloat || (hasInt && hasNil):
		floats := make([]float64, len(values))
		for i, value := range values {
			if value == nil {
				floats[i] = math.NaN()
				continue
			}
			f, err := common.ToFloat64(value)
			if err != nil {
				return nil, errors.NewValidationError(op, name, err.Error())
			}
			floats[i] = f
		}
		return series.New(name, floats, mem), nil
	case hasInt:
		ints := make([]int64, len(values))
		for i, value := range values {
			n, err := common.ToInt64(value)
			if err != nil {
				return nil, errors.NewValidationError(op, name, err.Error())
			}
			ints[i] = n
		}
		return series.New(name, ints, mem), nil
	default:
		strs := make([]string, len(values))
		valid := make([]bool, len(values))
		for i, value := range values {
			if str, ok := value.(string); ok {
				strs[i], valid[i] = str, true
			}
		}
		return series.NewWithValidity(name, strs, compactValidity(valid), mem), nil
	}
}

// fromReflect handles fixed-size Go arrays and slices of named element types.
func fromReflect(op, name string, rv reflect.Value, mem memory.Allocator) (ISeries, error) {
	n := rv.Len()
	switch rv.Type().Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		ints := make([]int64, n)
		for i := range ints {
			ints[i] = rv.Index(i).Int()
		}
		return series.New(name, ints, mem), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		raw := make([]uint64, n)
		for i := range raw {
			raw[i] = rv.Index(i).Uint()
		}
		ints, err := checkedInts(op, name, raw)
		if err != nil {
			return nil, err
		}
		return series.New(name, ints, mem), nil
	case reflect.Float32, reflect.Float64:
		floats := make([]float64, n)
		for i := range floats {
			floats[i] = rv.Index(i).Float()
		}
		return series.New(name, floats, mem), nil
	case reflect.Bool:
		bools := make([]bool, n)
		for i := range bools {
			bools[i] = rv.Index(i).Bool()
		}
		return series.New(name, bools, mem), nil
	case reflect.String:
		strs := make([]string, n)
		for i := range strs {
			strs[i] = rv.Index(i).String()
		}
		return series.New(name, strs, mem), nil
	case reflect.Ptr:
		strs := make([]string, n)
		valid := make([]bool, n)
		for i := range strs {
			if elem := rv.Index(i); !elem.IsNil() {
				strs[i], valid[i] = elem.Elem().String(), true
			}
		}
		return series.NewWithValidity(name, strs, compactValidity(valid), mem), nil
	case reflect.Interface:
		values := make([]any, n)
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return fromInterfaces(op, name, values, mem)
	default:
		return nil, errors.NewValidationError(op, name,
			fmt.Sprintf("unsupported element type %s", rv.Type().Elem()))
	}
}

// arrowValues is the accessor set shared by Arrow's primitive arrays.
type arrowValues[T any] interface {
	Len() int
	IsNull(i int) bool
	Value(i int) T
}

// intsFromArrow reads an integer Arrow array. Nulls force a Float column.
func intsFromArrow[T constraints.Integer](name string, arr arrowValues[T], mem memory.Allocator) ISeries {
	n := arr.Len()
	hasNulls := false
	for i := 0; i < n; i++ {
		if arr.IsNull(i) {
			hasNulls = true
			break
		}
	}
	if hasNulls {
		floats := make([]float64, n)
		for i := range floats {
			if arr.IsNull(i) {
				floats[i] = math.NaN()
			} else {
				floats[i] = float64(arr.Value(i))
			}
		}
		return series.New(name, floats, mem)
	}
	ints := make([]int64, n)
	for i := range ints {
		ints[i] = int64(arr.Value(i))
	}
	return series.New(name, ints, mem)
}

func floatsFromArrow[T constraints.Float](name string, arr arrowValues[T], mem memory.Allocator) ISeries {
	floats := make([]float64, arr.Len())
	for i := range floats {
		if arr.IsNull(i) {
			floats[i] = math.NaN()
		} else {
			floats[i] = float64(arr.Value(i))
		}
	}
	return series.New(name, floats, mem)
}

func stringsFromArrow(name string, arr arrowValues[string], mem memory.Allocator) ISeries {
	strs := make([]string, arr.Len())
	valid := make([]bool, arr.Len())
	for i := range strs {
		if !arr.IsNull(i) {
			strs[i], valid[i] = arr.Value(i), true
		}
	}
	return series.NewWithValidity(name, strs, compactValidity(valid), mem)
}

// adopt wraps arr without copying, taking a new reference to it.
func adopt[T series.Element](name string, arr arrow.Array) (ISeries, error) {
	arr.Retain()
	s, err := series.FromArray[T](name, arr)
	if err != nil {
		arr.Release()
		return nil, err
	}
	return s, nil
}

// fromArrow adopts an Arrow array. The caller keeps its own reference.
func fromArrow(op, name string, arr arrow.Array, mem memory.Allocator) (ISeries, error) {
	switch typed := arr.(type) {
	case *array.String:
		return adopt[string](name, arr)
	case *array.LargeString:
		return stringsFromArrow(name, typed, mem), nil
	case *array.Int64:
		if typed.NullN() == 0 {
			return adopt[int64](name, arr)
		}
		return intsFromArrow[int64](name, typed, mem), nil
	case *array.Int32:
		return intsFromArrow[int32](name, typed, mem), nil
	case *array.Int16:
		return intsFromArrow[int16](name, typed, mem), nil
	case *array.Int8:
		return intsFromArrow[int8](name, typed, mem), nil
	case *array.Uint32:
		return intsFromArrow[uint32](name, typed, mem), nil
	case *array.Uint16:
		return intsFromArrow[uint16](name, typed, mem), nil
	case *array.Uint8:
		return intsFromArrow[uint8](name, typed, mem), nil
	case *array.Float64:
		if typed.NullN() == 0 {
			return adopt[float64](name, arr)
		}
		return floatsFromArrow[float64](name, typed, mem), nil
	case *array.Float32:
		return floatsFromArrow[float32](name, typed, mem), nil
	case *array.Boolean:
		if typed.NullN() > 0 {
			return nil, errors.NewValidationError(op, name, "boolean arrays cannot hold missing values")
		}
		return adopt[bool](name, arr)
	default:
		return nil, errors.NewValidationError(op, name,
			fmt.Sprintf("unsupported arrow type %s", arr.DataType()))
	}
}
