package dataframe

import (
	"fmt"
	"math"

	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
)

// Transform names a shape-preserving column map.
type Transform int

const (
	TransformAbs Transform = iota
	TransformCumMin
	TransformCumMax
	TransformCumSum
	TransformClip
	TransformRound
	TransformCopy
	TransformDiff
	TransformPctChange
)

func (t Transform) String() string {
	return common.FormatTransform(int(t))
}

// ParseTransform resolves a transform by name, e.g. "cumsum" or "pct_change".
func ParseTransform(name string) (Transform, error) {
	v, ok := common.ParseTransform(name)
	if !ok {
		return 0, errors.NewInvalidInputError("Transform", fmt.Sprintf("unknown transform %q", name))
	}
	return Transform(v), nil
}

// ClipOptions bounds Clip. A nil bound is not applied.
type ClipOptions struct {
	Lower *float64
	Upper *float64
}

type transformParams struct {
	clip     ClipOptions
	decimals int
	periods  int
}

type mapper func(v vector, p transformParams) vector

// transforms is the dispatch table for numeric kinds. Object columns are
// copied through unchanged by every transform.
var transforms = map[Transform]map[series.Kind]mapper{
	TransformAbs: {
		series.Int: func(v vector, _ transformParams) vector {
			out := make([]int64, len(v.ints))
			for i, x := range v.ints {
				if x < 0 {
					x = -x
				}
				out[i] = x
			}
			return intVector(out)
		},
		series.Float: func(v vector, _ transformParams) vector {
			out := make([]float64, len(v.floats))
			for i, x := range v.floats {
				out[i] = math.Abs(x)
			}
			return floatVector(out)
		},
		series.Bool: keep,
	},
	TransformCumMin: {
		series.Int:   cumInts(minOf[int64]),
		series.Float: cumFloats(minOf[float64]),
		series.Bool:  cumBools(minOf[int64]),
	},
	TransformCumMax: {
		series.Int:   cumInts(maxOf[int64]),
		series.Float: cumFloats(maxOf[float64]),
		series.Bool:  cumBools(maxOf[int64]),
	},
	TransformCumSum: {
		series.Int:   cumInts(add[int64]),
		series.Float: cumFloats(add[float64]),
		series.Bool:  cumInts(add[int64]),
	},
	TransformClip: {
		series.Int:   clipIntegral,
		series.Float: func(v vector, p transformParams) vector { return floatVector(clipFloats(v.floats, p.clip)) },
		series.Bool:  clipIntegral,
	},
	TransformRound: {
		series.Int: func(v vector, p transformParams) vector {
			out := make([]int64, len(v.ints))
			for i, x := range v.ints {
				out[i] = roundIntHalfEven(x, p.decimals)
			}
			return intVector(out)
		},
		series.Float: func(v vector, p transformParams) vector {
			out := make([]float64, len(v.floats))
			for i, x := range v.floats {
				out[i] = roundHalfEven(x, p.decimals)
			}
			return floatVector(out)
		},
		series.Bool: keep,
	},
	TransformDiff: {
		series.Int:   shifted(func(cur, prev float64) float64 { return cur - prev }),
		series.Float: shifted(func(cur, prev float64) float64 { return cur - prev }),
		series.Bool:  shifted(func(cur, prev float64) float64 { return cur - prev }),
	},
	TransformPctChange: {
		series.Int:   shifted(pctChange),
		series.Float: shifted(pctChange),
		series.Bool:  shifted(pctChange),
	},
}

func keep(v vector, _ transformParams) vector {
	return v.clone()
}

func cumInts(fn func(acc, v int64) int64) mapper {
	return func(v vector, _ transformParams) vector {
		return intVector(accumulate(v.asInts(), fn))
	}
}

func cumFloats(fn func(acc, v float64) float64) mapper {
	return func(v vector, _ transformParams) vector {
		return floatVector(accumulate(v.floats, fn))
	}
}

func cumBools(fn func(acc, v int64) int64) mapper {
	return func(v vector, _ transformParams) vector {
		return boolVector(toBools(accumulate(v.asInts(), fn)))
	}
}

func toBools(values []int64) []bool {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = v != 0
	}
	return out
}

func pctChange(cur, prev float64) float64 {
	return (cur - prev) / prev
}

// clipIntegral keeps integers when both bounds are whole numbers.
func clipIntegral(v vector, p transformParams) vector {
	integral := (p.clip.Lower == nil || common.IsIntegral(*p.clip.Lower)) &&
		(p.clip.Upper == nil || common.IsIntegral(*p.clip.Upper))
	if !integral {
		return floatVector(clipFloats(v.asFloats(), p.clip))
	}

	out := append([]int64(nil), v.asInts()...)
	for i, x := range out {
		if p.clip.Lower != nil {
			x = max(x, int64(*p.clip.Lower))
		}
		if p.clip.Upper != nil {
			x = min(x, int64(*p.clip.Upper))
		}
		out[i] = x
	}
	return intVector(out)
}

func clipFloats(values []float64, bounds ClipOptions) []float64 {
	out := make([]float64, len(values))
	for i, x := range values {
		if !math.IsNaN(x) {
			if bounds.Lower != nil && x < *bounds.Lower {
				x = *bounds.Lower
			}
			if bounds.Upper != nil && x > *bounds.Upper {
				x = *bounds.Upper
			}
		}
		out[i] = x
	}
	return out
}

// shifted compares each value with the one periods rows earlier (later when
// periods is negative). Positions without a partner are NaN.
func shifted(fn func(cur, prev float64) float64) mapper {
	return func(v vector, p transformParams) vector {
		x := v.asFloats()
		n := len(x)
		out := make([]float64, n)
		for i := range out {
			j := i - p.periods
			if j < 0 || j >= n {
				out[i] = math.NaN()
				continue
			}
			out[i] = fn(x[i], x[j])
		}
		return floatVector(out)
	}
}

// nonAgg maps every column through transform t.
func (df *DataFrame) nonAgg(t Transform, p transformParams) *DataFrame {
	vectors := make([]vector, len(df.order))
	for i, name := range df.order {
		col := df.column(name)
		if fn, ok := transforms[t][col.kind]; ok {
			vectors[i] = fn(col, p)
		} else {
			vectors[i] = col.clone()
		}
	}
	return df.fromVectors(df.order, vectors)
}

// Abs returns the absolute value of each numeric column
func (df *DataFrame) Abs() *DataFrame {
	return df.nonAgg(TransformAbs, transformParams{})
}

// CumMin returns the running minimum of each column
func (df *DataFrame) CumMin() *DataFrame {
	return df.nonAgg(TransformCumMin, transformParams{})
}

// CumMax returns the running maximum of each column
func (df *DataFrame) CumMax() *DataFrame {
	return df.nonAgg(TransformCumMax, transformParams{})
}

// CumSum returns the running sum of each column
func (df *DataFrame) CumSum() *DataFrame {
	return df.nonAgg(TransformCumSum, transformParams{})
}

// Clip limits numeric values to the given bounds
func (df *DataFrame) Clip(opts ClipOptions) *DataFrame {
	return df.nonAgg(TransformClip, transformParams{clip: opts})
}

// Round rounds numeric values to n decimals, ties to even. A negative n
// rounds to a power of ten.
func (df *DataFrame) Round(n int) *DataFrame {
	return df.nonAgg(TransformRound, transformParams{decimals: n})
}

// Copy returns a deep copy of the DataFrame
func (df *DataFrame) Copy() *DataFrame {
	cols := make([]ISeries, len(df.order))
	for i, name := range df.order {
		cols[i] = copySeries(df.columns[name], df.mem)
	}
	return newFrame(df.mem, cols)
}

// Diff returns the difference with the value n rows earlier
func (df *DataFrame) Diff(n int) *DataFrame {
	return df.nonAgg(TransformDiff, transformParams{periods: n})
}

// PctChange returns the fractional change from the value n rows earlier
func (df *DataFrame) PctChange(n int) *DataFrame {
	return df.nonAgg(TransformPctChange, transformParams{periods: n})
}
