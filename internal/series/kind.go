package series

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Kind is the coarse element type of a column. Every column holds exactly one.
type Kind int

const (
	// Int columns hold int64 values and cannot be missing.
	Int Kind = iota
	// Float columns hold float64 values; NaN is the missing marker.
	Float
	// Bool columns hold booleans and cannot be missing.
	Bool
	// Object columns hold text; an Arrow null is the missing marker.
	Object
)

// NumKinds is the number of column kinds.
const NumKinds = 4

// String returns the dtype label of the kind.
func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Object:
		return "string"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of the kind take part in arithmetic.
// Booleans count as 0 and 1.
func (k Kind) IsNumeric() bool {
	return k == Int || k == Float || k == Bool
}

// KindOf maps the Arrow types used for storage back to a Kind.
func KindOf(dt arrow.DataType) (Kind, bool) {
	if dt == nil {
		return 0, false
	}
	switch dt.ID() {
	case arrow.INT64:
		return Int, true
	case arrow.FLOAT64:
		return Float, true
	case arrow.BOOL:
		return Bool, true
	case arrow.STRING:
		return Object, true
	default:
		return 0, false
	}
}

// Element is the set of Go types a Series can hold, one per Kind.
type Element interface {
	int64 | float64 | bool | string
}

// KindFor returns the Kind stored by a Series[T].
func KindFor[T Element]() Kind {
	var zero T
	switch any(zero).(type) {
	case int64:
		return Int
	case float64:
		return Float
	case bool:
		return Bool
	default:
		return Object
	}
}
