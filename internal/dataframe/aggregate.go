package dataframe

import (
	"fmt"
	"math"

	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AggFunc names a column reduction.
type AggFunc int

const (
	AggMin AggFunc = iota
	AggMax
	AggMean
	AggMedian
	AggSum
	AggVar
	AggStd
	AggAll
	AggAny
	AggArgMax
	AggArgMin
	// AggSize counts rows; it is what a pivot without values computes.
	AggSize
)

func (a AggFunc) String() string {
	return common.FormatAggregation(int(a))
}

// ParseAggFunc resolves a reduction by name, case-insensitively.
func ParseAggFunc(name string) (AggFunc, error) {
	v, ok := common.ParseAggregation(name)
	if !ok {
		return 0, errors.NewInvalidInputError("Aggregate", fmt.Sprintf("unknown aggregation %q", name))
	}
	return AggFunc(v), nil
}

// reducer collapses a non-empty column to one value. ok is false when the
// column's contents cannot be reduced and the column should be dropped.
type reducer func(v vector) (out vector, ok bool)

// aggregations is the dispatch table. A missing kind entry means the
// reduction does not apply to that kind.
var aggregations = map[AggFunc]map[series.Kind]reducer{
	AggMin:    extremeReducers(true),
	AggMax:    extremeReducers(false),
	AggArgMin: argExtremeReducers(true),
	AggArgMax: argExtremeReducers(false),
	AggMean: numericReducers(func(x []float64) float64 {
		return stat.Mean(x, nil)
	}),
	AggMedian: numericReducers(median),
	AggVar: numericReducers(func(x []float64) float64 {
		return stat.PopVariance(x, nil)
	}),
	AggStd: numericReducers(func(x []float64) float64 {
		return math.Sqrt(stat.PopVariance(x, nil))
	}),
	AggSum: {
		series.Int:   func(v vector) (vector, bool) { return intVector([]int64{sumInts(v.ints)}), true },
		series.Float: func(v vector) (vector, bool) { return floatVector([]float64{floats.Sum(v.floats)}), true },
		series.Bool:  func(v vector) (vector, bool) { return intVector([]int64{sumInts(v.asInts())}), true },
	},
	AggAll:  truthReducers(true),
	AggAny:  truthReducers(false),
	AggSize: sizeReducers(),
}

func sumInts(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

func extremeReducers(less bool) map[series.Kind]reducer {
	return map[series.Kind]reducer{
		series.Int: func(v vector) (vector, bool) {
			return intVector([]int64{v.ints[extremeIdx(v.ints, less)]}), true
		},
		series.Float: func(v vector) (vector, bool) {
			switch {
			case floats.HasNaN(v.floats):
				return floatVector([]float64{math.NaN()}), true
			case less:
				return floatVector([]float64{floats.Min(v.floats)}), true
			default:
				return floatVector([]float64{floats.Max(v.floats)}), true
			}
		},
		series.Bool: func(v vector) (vector, bool) {
			return boolVector([]bool{v.bools[extremeIdx(v.asInts(), less)]}), true
		},
		series.Object: func(v vector) (vector, bool) {
			if v.hasMissing() {
				return vector{}, false
			}
			return objectVector([]string{v.strs[extremeIdx(v.strs, less)]}, nil), true
		},
	}
}

func argExtremeReducers(less bool) map[series.Kind]reducer {
	at := func(i int) vector { return intVector([]int64{int64(i)}) }
	return map[series.Kind]reducer{
		series.Int: func(v vector) (vector, bool) { return at(extremeIdx(v.ints, less)), true },
		series.Float: func(v vector) (vector, bool) {
			if i := firstNaN(v.floats); i >= 0 {
				return at(i), true
			}
			if less {
				return at(floats.MinIdx(v.floats)), true
			}
			return at(floats.MaxIdx(v.floats)), true
		},
		series.Bool: func(v vector) (vector, bool) { return at(extremeIdx(v.asInts(), less)), true },
		series.Object: func(v vector) (vector, bool) {
			if v.hasMissing() {
				return vector{}, false
			}
			return at(extremeIdx(v.strs, less)), true
		},
	}
}

func numericReducers(fn func([]float64) float64) map[series.Kind]reducer {
	r := func(v vector) (vector, bool) {
		return floatVector([]float64{fn(v.asFloats())}), true
	}
	return map[series.Kind]reducer{series.Int: r, series.Float: r, series.Bool: r}
}

// truthReducers implement all (every) and any. Numbers are true when
// nonzero, text when present and non-empty.
func truthReducers(every bool) map[series.Kind]reducer {
	reduce := func(n int, truthy func(i int) bool) (vector, bool) {
		for i := 0; i < n; i++ {
			if truthy(i) != every {
				return boolVector([]bool{!every}), true
			}
		}
		return boolVector([]bool{every}), true
	}
	return map[series.Kind]reducer{
		series.Int: func(v vector) (vector, bool) {
			return reduce(v.len(), func(i int) bool { return v.ints[i] != 0 })
		},
		series.Float: func(v vector) (vector, bool) {
			return reduce(v.len(), func(i int) bool { return v.floats[i] != 0 })
		},
		series.Bool: func(v vector) (vector, bool) {
			return reduce(v.len(), func(i int) bool { return v.bools[i] })
		},
		series.Object: func(v vector) (vector, bool) {
			return reduce(v.len(), func(i int) bool { return !v.missing(i) && v.strs[i] != "" })
		},
	}
}

func sizeReducers() map[series.Kind]reducer {
	r := func(v vector) (vector, bool) { return intVector([]int64{int64(v.len())}), true }
	return map[series.Kind]reducer{series.Int: r, series.Float: r, series.Bool: r, series.Object: r}
}

// emptyReduction gives the result of reducing a zero-length column.
func emptyReduction(fn AggFunc, kind series.Kind) (vector, bool) {
	switch fn {
	case AggSum:
		if kind == series.Float {
			return floatVector([]float64{0}), true
		}
		return intVector([]int64{0}), true
	case AggAll:
		return boolVector([]bool{true}), true
	case AggAny:
		return boolVector([]bool{false}), true
	case AggSize:
		return intVector([]int64{0}), true
	default:
		return vector{}, false
	}
}

// reduceVector applies fn to one column.
func reduceVector(fn AggFunc, v vector) (vector, bool) {
	r, ok := aggregations[fn][v.kind]
	if !ok {
		return vector{}, false
	}
	if v.len() == 0 {
		return emptyReduction(fn, v.kind)
	}
	return r(v)
}

// reduce applies fn to every column, dropping the columns it does not
// apply to. The result has one row.
func (df *DataFrame) reduce(fn AggFunc) *DataFrame {
	names := make([]string, 0, len(df.order))
	vectors := make([]vector, 0, len(df.order))
	for _, name := range df.order {
		out, ok := reduceVector(fn, df.column(name))
		if !ok {
			continue
		}
		names = append(names, name)
		vectors = append(vectors, out)
	}
	return df.fromVectors(names, vectors)
}

// Aggregate applies the named reduction to every column.
func (df *DataFrame) Aggregate(fn AggFunc) (*DataFrame, error) {
	if _, ok := aggregations[fn]; !ok {
		return nil, errors.NewInvalidInputError("Aggregate", fmt.Sprintf("unknown aggregation %d", int(fn)))
	}
	return df.reduce(fn), nil
}

// Min returns the minimum of each column
func (df *DataFrame) Min() *DataFrame { return df.reduce(AggMin) }

// Max returns the maximum of each column
func (df *DataFrame) Max() *DataFrame { return df.reduce(AggMax) }

// Mean returns the arithmetic mean of each numeric column
func (df *DataFrame) Mean() *DataFrame { return df.reduce(AggMean) }

// Median returns the median of each numeric column
func (df *DataFrame) Median() *DataFrame { return df.reduce(AggMedian) }

// Sum returns the sum of each numeric column
func (df *DataFrame) Sum() *DataFrame { return df.reduce(AggSum) }

// Var returns the population variance of each numeric column
func (df *DataFrame) Var() *DataFrame { return df.reduce(AggVar) }

// Std returns the population standard deviation of each numeric column
func (df *DataFrame) Std() *DataFrame { return df.reduce(AggStd) }

// All reports per column whether every value is truthy
func (df *DataFrame) All() *DataFrame { return df.reduce(AggAll) }

// Any reports per column whether some value is truthy
func (df *DataFrame) Any() *DataFrame { return df.reduce(AggAny) }

// ArgMax returns the position of the first maximum of each column
func (df *DataFrame) ArgMax() *DataFrame { return df.reduce(AggArgMax) }

// ArgMin returns the position of the first minimum of each column
func (df *DataFrame) ArgMin() *DataFrame { return df.reduce(AggArgMin) }

// Count returns the number of non-missing values in each column
func (df *DataFrame) Count() *DataFrame {
	vectors := make([]vector, len(df.order))
	for i, name := range df.order {
		col := df.column(name)
		present := int64(0)
		for r := 0; r < col.len(); r++ {
			if !col.missing(r) {
				present++
			}
		}
		vectors[i] = intVector([]int64{present})
	}
	return df.fromVectors(df.order, vectors)
}

// IsNA returns a same-shape boolean DataFrame marking missing values
func (df *DataFrame) IsNA() *DataFrame {
	vectors := make([]vector, len(df.order))
	for i, name := range df.order {
		col := df.column(name)
		flags := make([]bool, col.len())
		for r := range flags {
			flags[r] = col.missing(r)
		}
		vectors[i] = boolVector(flags)
	}
	return df.fromVectors(df.order, vectors)
}
