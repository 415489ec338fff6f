package dataframe

import (
	"fmt"
	"math"
	"strings"

	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/paveg/cub/internal/validation"
)

// Operator names an element-wise binary operation.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpTrueDiv
	OpFloorDiv
	OpPow
	OpGt
	OpLt
	OpGe
	OpLe
	OpNe
	OpEq
)

func (o Operator) String() string {
	return common.FormatOperator(int(o))
}

func (o Operator) comparison() bool {
	return o >= OpGt
}

// kernel combines a column with an equally long operand. reflected swaps
// the operand order. ok is false when the pairing of kinds is unsupported.
type kernel func(op Operator, col, other vector, reflected bool) (out vector, ok bool)

// operators is the dispatch table keyed by the receiver column's kind.
var operators = map[Operator]map[series.Kind]kernel{
	OpAdd:      {series.Int: arithmetic, series.Float: arithmetic, series.Bool: arithmetic, series.Object: concat},
	OpSub:      numericOnly(arithmetic),
	OpMul:      {series.Int: arithmetic, series.Float: arithmetic, series.Bool: arithmetic, series.Object: repeat},
	OpTrueDiv:  numericOnly(arithmetic),
	OpFloorDiv: numericOnly(arithmetic),
	OpPow:      numericOnly(arithmetic),
	OpGt:       comparisons(),
	OpLt:       comparisons(),
	OpGe:       comparisons(),
	OpLe:       comparisons(),
	OpNe:       comparisons(),
	OpEq:       comparisons(),
}

func numericOnly(k kernel) map[series.Kind]kernel {
	return map[series.Kind]kernel{series.Int: k, series.Float: k, series.Bool: k}
}

func comparisons() map[series.Kind]kernel {
	return map[series.Kind]kernel{
		series.Int:    compareNumeric,
		series.Float:  compareNumeric,
		series.Bool:   compareNumeric,
		series.Object: compareText,
	}
}

func integral(k series.Kind) bool {
	return k == series.Int || k == series.Bool
}

// arithmetic handles numeric operands. Booleans count as 0 and 1.
func arithmetic(op Operator, col, other vector, reflected bool) (vector, bool) {
	if !other.kind.IsNumeric() {
		return vector{}, false
	}
	a, b := col, other
	if reflected {
		a, b = other, col
	}
	n := a.len()

	if integral(a.kind) && integral(b.kind) && op != OpTrueDiv {
		x, y := a.asInts(), b.asInts()
		negativePow := false
		if op == OpPow {
			for _, e := range y {
				if e < 0 {
					negativePow = true
					break
				}
			}
		}
		if !negativePow {
			out := make([]int64, n)
			for i := range out {
				switch op {
				case OpAdd:
					out[i] = x[i] + y[i]
				case OpSub:
					out[i] = x[i] - y[i]
				case OpMul:
					out[i] = x[i] * y[i]
				case OpFloorDiv:
					out[i] = floorDivInt(x[i], y[i])
				case OpPow:
					out[i] = powInt(x[i], y[i])
				}
			}
			return intVector(out), true
		}
	}

	x, y := a.asFloats(), b.asFloats()
	out := make([]float64, n)
	for i := range out {
		switch op {
		case OpAdd:
			out[i] = x[i] + y[i]
		case OpSub:
			out[i] = x[i] - y[i]
		case OpMul:
			out[i] = x[i] * y[i]
		case OpTrueDiv:
			out[i] = x[i] / y[i]
		case OpFloorDiv:
			out[i] = math.Floor(x[i] / y[i])
		case OpPow:
			out[i] = math.Pow(x[i], y[i])
		}
	}
	return floatVector(out), true
}

// concat joins text; a missing operand gives a missing result.
func concat(_ Operator, col, other vector, reflected bool) (vector, bool) {
	if other.kind != series.Object {
		return vector{}, false
	}
	a, b := col, other
	if reflected {
		a, b = other, col
	}
	n := a.len()
	strs := make([]string, n)
	valid := make([]bool, n)
	for i := range strs {
		if a.missing(i) || b.missing(i) {
			continue
		}
		strs[i], valid[i] = a.strs[i]+b.strs[i], true
	}
	return objectVector(strs, compactValidity(valid)), true
}

// repeat multiplies text by an integer count. Counts below one give "".
func repeat(_ Operator, col, other vector, _ bool) (vector, bool) {
	if !integral(other.kind) {
		return vector{}, false
	}
	counts := other.asInts()
	n := col.len()
	strs := make([]string, n)
	valid := make([]bool, n)
	for i := range strs {
		if col.missing(i) {
			continue
		}
		if counts[i] > 0 {
			strs[i] = strings.Repeat(col.strs[i], int(counts[i]))
		}
		valid[i] = true
	}
	return objectVector(strs, compactValidity(valid)), true
}

func decide(op Operator, c int) bool {
	switch op {
	case OpGt:
		return c > 0
	case OpLt:
		return c < 0
	case OpGe:
		return c >= 0
	case OpLe:
		return c <= 0
	case OpNe:
		return c != 0
	default:
		return c == 0
	}
}

// constant fills a comparison result where kinds never match.
func constant(op Operator, n int) (vector, bool) {
	if op != OpEq && op != OpNe {
		return vector{}, false
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = op == OpNe
	}
	return boolVector(out), true
}

// compareNumeric compares numbers; a NaN on either side is unequal to
// everything.
func compareNumeric(op Operator, col, other vector, _ bool) (vector, bool) {
	n := col.len()
	if !other.kind.IsNumeric() {
		return constant(op, n)
	}
	out := make([]bool, n)
	for i := range out {
		if col.missing(i) || other.missing(i) {
			out[i] = op == OpNe
			continue
		}
		var c int
		if integral(col.kind) && integral(other.kind) {
			c = cmpOrdered(col.int(i), other.int(i))
		} else {
			c = cmpOrdered(col.float(i), other.float(i))
		}
		out[i] = decide(op, c)
	}
	return boolVector(out), true
}

// compareText compares strings lexicographically; missing compares unequal.
func compareText(op Operator, col, other vector, _ bool) (vector, bool) {
	n := col.len()
	if other.kind != series.Object {
		return constant(op, n)
	}
	out := make([]bool, n)
	for i := range out {
		if col.missing(i) || other.missing(i) {
			out[i] = op == OpNe
			continue
		}
		out[i] = decide(op, strings.Compare(col.strs[i], other.strs[i]))
	}
	return boolVector(out), true
}

// operand resolves the right-hand side into a vector of the receiver's row
// count: a one-column DataFrame or a broadcast scalar.
func (df *DataFrame) operand(op string, other any) (vector, string, error) {
	if frame, ok := other.(*DataFrame); ok {
		if frame == nil || frame.Width() != 1 {
			return vector{}, "", errors.NewInvalidInputError(op, "operand DataFrame must have exactly one column")
		}
		name := frame.order[0]
		if err := validation.ValidateLength(df.Len(), frame.Len(), op, name); err != nil {
			return vector{}, "", err
		}
		return frame.column(name), name, nil
	}

	scalar, err := common.NewScalar(other)
	if err != nil {
		return vector{}, "", errors.NewTypeError(op, "", err.Error())
	}
	return broadcast(scalar, df.Len()), scalar.String(), nil
}

// oper applies op column by column.
func (df *DataFrame) oper(op Operator, other any, reflected bool) (*DataFrame, error) {
	opName := "Operator " + op.String()
	rhs, label, err := df.operand(opName, other)
	if err != nil {
		return nil, err
	}

	vectors := make([]vector, len(df.order))
	for i, name := range df.order {
		col := df.column(name)
		k, ok := operators[op][col.kind]
		var out vector
		if ok {
			out, ok = k(op, col, rhs, reflected)
		}
		if !ok {
			expr := common.FormatBinaryOperation(name, op.String(), label)
			if reflected {
				expr = common.FormatBinaryOperation(label, op.String(), name)
			}
			return nil, errors.NewTypeError(opName, name,
				fmt.Sprintf("unsupported operand kinds in %s: %s and %s", expr, col.kind, rhs.kind))
		}
		vectors[i] = out
	}
	return df.fromVectors(df.order, vectors), nil
}

// Add returns df + other
func (df *DataFrame) Add(other any) (*DataFrame, error) { return df.oper(OpAdd, other, false) }

// RAdd returns other + df
func (df *DataFrame) RAdd(other any) (*DataFrame, error) { return df.oper(OpAdd, other, true) }

// Sub returns df - other
func (df *DataFrame) Sub(other any) (*DataFrame, error) { return df.oper(OpSub, other, false) }

// RSub returns other - df
func (df *DataFrame) RSub(other any) (*DataFrame, error) { return df.oper(OpSub, other, true) }

// Mul returns df * other
func (df *DataFrame) Mul(other any) (*DataFrame, error) { return df.oper(OpMul, other, false) }

// RMul returns other * df
func (df *DataFrame) RMul(other any) (*DataFrame, error) { return df.oper(OpMul, other, true) }

// TrueDiv returns df / other as floats
func (df *DataFrame) TrueDiv(other any) (*DataFrame, error) { return df.oper(OpTrueDiv, other, false) }

// RTrueDiv returns other / df as floats
func (df *DataFrame) RTrueDiv(other any) (*DataFrame, error) {
	return df.oper(OpTrueDiv, other, true)
}

// FloorDiv returns df / other rounded toward negative infinity
func (df *DataFrame) FloorDiv(other any) (*DataFrame, error) {
	return df.oper(OpFloorDiv, other, false)
}

// RFloorDiv returns other / df rounded toward negative infinity
func (df *DataFrame) RFloorDiv(other any) (*DataFrame, error) {
	return df.oper(OpFloorDiv, other, true)
}

// Pow returns df raised to other
func (df *DataFrame) Pow(other any) (*DataFrame, error) { return df.oper(OpPow, other, false) }

// RPow returns other raised to df
func (df *DataFrame) RPow(other any) (*DataFrame, error) { return df.oper(OpPow, other, true) }

// Gt marks values greater than other
func (df *DataFrame) Gt(other any) (*DataFrame, error) { return df.oper(OpGt, other, false) }

// Lt marks values less than other
func (df *DataFrame) Lt(other any) (*DataFrame, error) { return df.oper(OpLt, other, false) }

// Ge marks values greater than or equal to other
func (df *DataFrame) Ge(other any) (*DataFrame, error) { return df.oper(OpGe, other, false) }

// Le marks values less than or equal to other
func (df *DataFrame) Le(other any) (*DataFrame, error) { return df.oper(OpLe, other, false) }

// Ne marks values not equal to other
func (df *DataFrame) Ne(other any) (*DataFrame, error) { return df.oper(OpNe, other, false) }

// EqualsMask marks values equal to other. It is the element-wise
// counterpart of Equal, which compares whole tables.
func (df *DataFrame) EqualsMask(other any) (*DataFrame, error) { return df.oper(OpEq, other, false) }
