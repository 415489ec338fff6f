package dataframe

import (
	"fmt"
	"math"

	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/paveg/cub/internal/validation"
)

// PivotOptions configures PivotTable. At least one of Rows and Columns is
// required. AggFunc names a reduction such as "mean" and must be given
// exactly when Values is; without Values the pivot counts rows ("size").
type PivotOptions struct {
	Rows    string
	Columns string
	Values  string
	AggFunc string
}

// PivotTable groups rows by the distinct values of Rows and/or Columns and
// reduces Values within every group. Groups are sorted by value. Combined
// row and column groups that never occur are missing in the result.
func (df *DataFrame) PivotTable(opts PivotOptions) (*DataFrame, error) {
	const op = "PivotTable"
	if opts.Rows == "" && opts.Columns == "" {
		return nil, errors.NewInvalidInputError(op, "rows or columns must be set")
	}

	fn := AggSize
	vals := intVector(make([]int64, df.Len()))
	switch {
	case opts.Values != "" && opts.AggFunc == "":
		return nil, errors.NewInvalidInputError(op, "an aggregation is required when values is set")
	case opts.Values == "" && opts.AggFunc != "":
		return nil, errors.NewInvalidInputError(op, "an aggregation cannot be used without values")
	case opts.Values != "":
		parsed, ok := common.ParseAggregation(opts.AggFunc)
		if !ok {
			return nil, errors.NewInvalidInputError(op, fmt.Sprintf("unknown aggregation %q", opts.AggFunc))
		}
		fn = AggFunc(parsed)
		if err := validation.ValidateColumns(df, op, opts.Values); err != nil {
			return nil, err
		}
		vals = df.column(opts.Values)
	}

	groupings := make([]validation.Validator, 0, 2)
	for _, name := range []string{opts.Rows, opts.Columns} {
		if name != "" {
			groupings = append(groupings, validation.NewColumnValidator(df, op, name))
		}
	}
	if err := validation.NewCompoundValidator(groupings...).Validate(); err != nil {
		return nil, err
	}

	aggregate := func(rows []int) (vector, error) {
		out, ok := reduceVector(fn, vals.take(rows))
		if !ok {
			return vector{}, errors.NewTypeError(op, opts.Values,
				fmt.Sprintf("%s cannot be applied to %s values", fn, vals.kind))
		}
		return out, nil
	}

	switch {
	case opts.Rows == "":
		return df.pivotColumns(op, opts, aggregate)
	case opts.Columns == "":
		return df.pivotRows(op, opts, fn, aggregate)
	default:
		return df.pivotBoth(op, opts, aggregate)
	}
}

type groupReducer func(rows []int) (vector, error)

// pivotColumns yields one row with a column per group value.
func (df *DataFrame) pivotColumns(op string, opts PivotOptions, aggregate groupReducer) (*DataFrame, error) {
	groups := newDistinctSet(df.column(opts.Columns))
	members := groups.members()
	order := groups.sortedGroups()

	names := make([]string, len(order))
	vectors := make([]vector, len(order))
	for i, g := range order {
		names[i] = common.FormatGroupValue(groups.v.at(groups.firsts[g]))
		out, err := aggregate(members[g])
		if err != nil {
			return nil, err
		}
		vectors[i] = out
	}
	if err := validation.ValidateUniqueNames(names, op); err != nil {
		return nil, err
	}
	return df.fromVectors(names, vectors), nil
}

// pivotRows yields the sorted group values next to their reductions.
func (df *DataFrame) pivotRows(op string, opts PivotOptions, fn AggFunc, aggregate groupReducer) (*DataFrame, error) {
	groups := newDistinctSet(df.column(opts.Rows))
	members := groups.members()
	order := groups.sortedGroups()

	parts := make([]vector, len(order))
	kind := series.Int
	for i, g := range order {
		out, err := aggregate(members[g])
		if err != nil {
			return nil, err
		}
		parts[i] = out
		kind = out.kind
	}

	names := []string{opts.Rows, fn.String()}
	if err := validation.ValidateUniqueNames(names, op); err != nil {
		return nil, err
	}
	return df.fromVectors(names, []vector{groups.values(order), concatVectors(kind, parts)}), nil
}

// pivotBoth yields a row per Rows group and a column per Columns group.
func (df *DataFrame) pivotBoth(op string, opts PivotOptions, aggregate groupReducer) (*DataFrame, error) {
	rowGroups := newDistinctSet(df.column(opts.Rows))
	colGroups := newDistinctSet(df.column(opts.Columns))

	cells := make(map[[2]int][]int)
	for i := range rowGroups.groups {
		key := [2]int{rowGroups.groups[i], colGroups.groups[i]}
		cells[key] = append(cells[key], i)
	}

	rowOrder := rowGroups.sortedGroups()
	colOrder := colGroups.sortedGroups()

	names := []string{opts.Rows}
	vectors := []vector{rowGroups.values(rowOrder)}
	for _, cg := range colOrder {
		parts := make([]vector, len(rowOrder))
		present := make([]bool, len(rowOrder))
		for i, rg := range rowOrder {
			rows, ok := cells[[2]int{rg, cg}]
			if !ok {
				continue
			}
			out, err := aggregate(rows)
			if err != nil {
				return nil, err
			}
			parts[i], present[i] = out, true
		}
		names = append(names, common.FormatGroupValue(colGroups.v.at(colGroups.firsts[cg])))
		vectors = append(vectors, mergeCells(parts, present))
	}

	if err := validation.ValidateUniqueNames(names, op); err != nil {
		return nil, err
	}
	return df.fromVectors(names, vectors), nil
}

// mergeCells stacks one-value cells into a column. Absent cells are missing,
// which turns Int and Bool results into Float.
func mergeCells(parts []vector, present []bool) vector {
	kind := series.Float
	complete := true
	for i, ok := range present {
		if ok {
			kind = parts[i].kind
		} else {
			complete = false
		}
	}
	if complete {
		return concatVectors(kind, parts)
	}

	if kind == series.Object {
		strs := make([]string, len(parts))
		valid := make([]bool, len(parts))
		for i, ok := range present {
			if ok && !parts[i].missing(0) {
				strs[i], valid[i] = parts[i].strs[0], true
			}
		}
		return objectVector(strs, valid)
	}

	out := make([]float64, len(parts))
	for i, ok := range present {
		out[i] = math.NaN()
		if ok {
			out[i] = parts[i].float(0)
		}
	}
	return floatVector(out)
}
