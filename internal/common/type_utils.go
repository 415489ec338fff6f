package common

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paveg/cub/internal/series"
)

// TypeConverter provides common type conversion utilities.
type TypeConverter struct{}

// NewTypeConverter creates a new TypeConverter instance.
func NewTypeConverter() *TypeConverter {
	return &TypeConverter{}
}

// ToInt64 converts Go integer types to int64. Unsigned values that do not
// fit are an error; floats are accepted only when they are whole.
func (tc *TypeConverter) ToInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("uint value %d overflows int64 range", v)
		}
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("uint64 value %d overflows int64 range", v)
		}
		return int64(v), nil
	case float32:
		return tc.ToInt64(float64(v))
	case float64:
		if !IsIntegral(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("float64 value %g is not a representable integer", v)
		}
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", value)
	}
}

// ToFloat64 converts numeric and boolean values to float64.
func (tc *TypeConverter) ToFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// ToString converts various types to string.
func (tc *TypeConverter) ToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsIntegerType checks if a value is of an integer type.
func (tc *TypeConverter) IsIntegerType(value interface{}) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// GetTypeName returns the type name of a value.
func (tc *TypeConverter) GetTypeName(value interface{}) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

// IsIntegral reports whether f is finite and has no fractional part.
func IsIntegral(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

// Scalar is a single operand normalized to one of the column kinds, used
// when a value is broadcast against every row of a column.
type Scalar struct {
	Kind  series.Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// NewScalar classifies a Go value as an Int, Float, Bool or Object scalar.
func NewScalar(value interface{}) (Scalar, error) {
	switch v := value.(type) {
	case string:
		return Scalar{Kind: series.Object, Str: v}, nil
	case bool:
		return Scalar{Kind: series.Bool, Bool: v}, nil
	case float32:
		return Scalar{Kind: series.Float, Float: float64(v)}, nil
	case float64:
		return Scalar{Kind: series.Float, Float: v}, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := defaultConverter.ToInt64(v)
		if err != nil {
			return Scalar{}, err
		}
		return Scalar{Kind: series.Int, Int: i}, nil
	default:
		return Scalar{}, fmt.Errorf("unsupported scalar type %s", defaultConverter.GetTypeName(value))
	}
}

// Float64 returns the numeric value of an Int, Float or Bool scalar.
func (s Scalar) Float64() float64 {
	switch s.Kind {
	case series.Int:
		return float64(s.Int)
	case series.Bool:
		if s.Bool {
			return 1
		}
		return 0
	default:
		return s.Float
	}
}

// Int64 returns the integer value of an Int or Bool scalar.
func (s Scalar) Int64() int64 {
	if s.Kind == series.Bool {
		if s.Bool {
			return 1
		}
		return 0
	}
	return s.Int
}

// String renders the scalar for messages.
func (s Scalar) String() string {
	switch s.Kind {
	case series.Int:
		return strconv.FormatInt(s.Int, 10)
	case series.Float:
		return strconv.FormatFloat(s.Float, 'g', -1, 64)
	case series.Bool:
		return strconv.FormatBool(s.Bool)
	default:
		return strconv.Quote(s.Str)
	}
}

// Default converter instance for convenience.
var defaultConverter = NewTypeConverter()

// Convenient functions using the default converter

// ToInt64 converts various types to int64 using the default converter.
func ToInt64(value interface{}) (int64, error) {
	return defaultConverter.ToInt64(value)
}

// ToFloat64 converts various types to float64 using the default converter.
func ToFloat64(value interface{}) (float64, error) {
	return defaultConverter.ToFloat64(value)
}

// ToString converts various types to string using the default converter.
func ToString(value interface{}) string {
	return defaultConverter.ToString(value)
}

// IsIntegerType checks if a value is integer using the default converter.
func IsIntegerType(value interface{}) bool {
	return defaultConverter.IsIntegerType(value)
}

// GetTypeName returns the type name using the default converter.
func GetTypeName(value interface{}) string {
	return defaultConverter.GetTypeName(value)
}
