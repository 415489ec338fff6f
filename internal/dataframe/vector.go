package dataframe

import (
	"fmt"
	"math"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/series"
)

// vector is the materialized form of one column that the engines compute
// on. Exactly one of the value slices is populated, chosen by kind. valid is
// only used by Object vectors; nil means every value is present.
type vector struct {
	kind   series.Kind
	ints   []int64
	floats []float64
	bools  []bool
	strs   []string
	valid  []bool
}

func intVector(values []int64) vector     { return vector{kind: series.Int, ints: values} }
func floatVector(values []float64) vector { return vector{kind: series.Float, floats: values} }
func boolVector(values []bool) vector     { return vector{kind: series.Bool, bools: values} }

func objectVector(values []string, valid []bool) vector {
	return vector{kind: series.Object, strs: values, valid: valid}
}

// vectorOf reads a series into a vector. Float nulls are read as NaN.
func vectorOf(s ISeries) vector {
	switch typed := s.(type) {
	case *series.Series[int64]:
		return intVector(typed.Values())
	case *series.Series[float64]:
		values := typed.Values()
		if typed.NullN() > 0 {
			for i := range values {
				if typed.IsNull(i) {
					values[i] = math.NaN()
				}
			}
		}
		return floatVector(values)
	case *series.Series[bool]:
		return boolVector(typed.Values())
	case *series.Series[string]:
		return objectVector(typed.Values(), typed.Validity())
	default:
		panic(fmt.Sprintf("unsupported series type %T", s))
	}
}

func (v vector) len() int {
	switch v.kind {
	case series.Int:
		return len(v.ints)
	case series.Float:
		return len(v.floats)
	case series.Bool:
		return len(v.bools)
	default:
		return len(v.strs)
	}
}

// missing reports whether position i holds the missing marker.
func (v vector) missing(i int) bool {
	switch v.kind {
	case series.Float:
		return math.IsNaN(v.floats[i])
	case series.Object:
		return v.valid != nil && !v.valid[i]
	default:
		return false
	}
}

func (v vector) hasMissing() bool {
	for i := 0; i < v.len(); i++ {
		if v.missing(i) {
			return true
		}
	}
	return false
}

// at returns the Go value at i; a missing Object value is nil.
func (v vector) at(i int) any {
	switch v.kind {
	case series.Int:
		return v.ints[i]
	case series.Float:
		return v.floats[i]
	case series.Bool:
		return v.bools[i]
	default:
		if v.missing(i) {
			return nil
		}
		return v.strs[i]
	}
}

// float returns the numeric value at i for Int, Float and Bool vectors.
func (v vector) float(i int) float64 {
	switch v.kind {
	case series.Int:
		return float64(v.ints[i])
	case series.Float:
		return v.floats[i]
	case series.Bool:
		if v.bools[i] {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// int returns the integer value at i for Int and Bool vectors.
func (v vector) int(i int) int64 {
	if v.kind == series.Bool {
		if v.bools[i] {
			return 1
		}
		return 0
	}
	return v.ints[i]
}

// asFloats converts a numeric vector to float64 values.
func (v vector) asFloats() []float64 {
	if v.kind == series.Float {
		return v.floats
	}
	out := make([]float64, v.len())
	for i := range out {
		out[i] = v.float(i)
	}
	return out
}

// asInts converts an Int or Bool vector to int64 values.
func (v vector) asInts() []int64 {
	if v.kind == series.Int {
		return v.ints
	}
	out := make([]int64, v.len())
	for i := range out {
		out[i] = v.int(i)
	}
	return out
}

// take gathers the given positions.
func (v vector) take(indices []int) vector {
	out := vector{kind: v.kind}
	switch v.kind {
	case series.Int:
		out.ints = make([]int64, len(indices))
		for i, idx := range indices {
			out.ints[i] = v.ints[idx]
		}
	case series.Float:
		out.floats = make([]float64, len(indices))
		for i, idx := range indices {
			out.floats[i] = v.floats[idx]
		}
	case series.Bool:
		out.bools = make([]bool, len(indices))
		for i, idx := range indices {
			out.bools[i] = v.bools[idx]
		}
	default:
		out.strs = make([]string, len(indices))
		for i, idx := range indices {
			out.strs[i] = v.strs[idx]
		}
		if v.valid != nil {
			out.valid = make([]bool, len(indices))
			for i, idx := range indices {
				out.valid[i] = v.valid[idx]
			}
		}
	}
	return out
}

// clone deep-copies the vector.
func (v vector) clone() vector {
	out := vector{kind: v.kind}
	out.ints = append([]int64(nil), v.ints...)
	out.floats = append([]float64(nil), v.floats...)
	out.bools = append([]bool(nil), v.bools...)
	out.strs = append([]string(nil), v.strs...)
	if v.valid != nil {
		out.valid = append([]bool(nil), v.valid...)
	}
	return out
}

// compare orders positions i and j ascending: numbers numerically,
// false before true, strings lexicographically. Missing values compare
// greater than everything and equal to each other.
func (v vector) compare(i, j int) int {
	mi, mj := v.missing(i), v.missing(j)
	switch {
	case mi && mj:
		return 0
	case mi:
		return 1
	case mj:
		return -1
	}

	switch v.kind {
	case series.Int:
		return cmpOrdered(v.ints[i], v.ints[j])
	case series.Float:
		return cmpOrdered(v.floats[i], v.floats[j])
	case series.Bool:
		return cmpOrdered(v.int(i), v.int(j))
	default:
		return strings.Compare(v.strs[i], v.strs[j])
	}
}

// equal reports whether positions i and j hold the same value. NaN equals
// NaN and missing equals missing here, since distinct-value detection needs
// one missing group.
func (v vector) equal(i, j int) bool {
	mi, mj := v.missing(i), v.missing(j)
	if mi || mj {
		return mi == mj
	}
	return v.compare(i, j) == 0
}

// build materializes the vector as a series allocated from mem.
func (v vector) build(name string, mem memory.Allocator) ISeries {
	switch v.kind {
	case series.Int:
		return series.New(name, v.ints, mem)
	case series.Float:
		return series.New(name, v.floats, mem)
	case series.Bool:
		return series.New(name, v.bools, mem)
	default:
		return series.NewWithValidity(name, v.strs, v.valid, mem)
	}
}

// concatVectors joins vectors of one kind end to end.
func concatVectors(kind series.Kind, parts []vector) vector {
	out := vector{kind: kind}
	hasNulls := false
	for _, p := range parts {
		out.ints = append(out.ints, p.ints...)
		out.floats = append(out.floats, p.floats...)
		out.bools = append(out.bools, p.bools...)
		out.strs = append(out.strs, p.strs...)
		if p.valid != nil {
			hasNulls = true
		}
	}
	if kind == series.Object && hasNulls {
		out.valid = make([]bool, 0, len(out.strs))
		for _, p := range parts {
			for i := 0; i < p.len(); i++ {
				out.valid = append(out.valid, !p.missing(i))
			}
		}
	}
	return out
}
