package dataframe

import (
	"sort"

	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/validation"
)

// Rename returns a new DataFrame with columns renamed by mapping. Columns
// not in mapping keep their names; order is preserved.
func (df *DataFrame) Rename(mapping map[string]string) (*DataFrame, error) {
	names := make([]string, len(df.order))
	for i, name := range df.order {
		names[i] = name
		if renamed, ok := mapping[name]; ok {
			names[i] = renamed
		}
	}
	if err := validation.ValidateUniqueNames(names, "Rename"); err != nil {
		return nil, err
	}

	cols := make([]ISeries, len(names))
	for i, name := range df.order {
		cols[i] = shareSeries(df.columns[name], names[i])
	}
	return newFrame(df.mem, cols), nil
}

// Drop returns a new DataFrame without the specified columns. Unknown
// names are ignored.
func (df *DataFrame) Drop(names ...string) *DataFrame {
	dropSet := make(map[string]bool, len(names))
	for _, name := range names {
		dropSet[name] = true
	}

	cols := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		if !dropSet[name] {
			cols = append(cols, shareSeries(df.columns[name], name))
		}
	}
	return newFrame(df.mem, cols)
}

// Unique returns, per column, a one-column DataFrame of its sorted distinct
// values. Missing values sort last and count once.
func (df *DataFrame) Unique() []*DataFrame {
	out := make([]*DataFrame, len(df.order))
	for i, name := range df.order {
		d := newDistinctSet(df.column(name))
		out[i] = df.fromVectors([]string{name}, []vector{d.values(d.sortedGroups())})
	}
	return out
}

// NUnique returns the number of distinct values in each column
func (df *DataFrame) NUnique() *DataFrame {
	vectors := make([]vector, len(df.order))
	for i, name := range df.order {
		vectors[i] = intVector([]int64{int64(newDistinctSet(df.column(name)).len())})
	}
	return df.fromVectors(df.order, vectors)
}

// CountColumn names the frequency column of ValueCounts.
const CountColumn = "count"

// ValueCounts returns, per column, a DataFrame of each distinct value and
// its frequency, most frequent first. Equal frequencies keep ascending value
// order. With normalize the frequencies are fractions summing to 1.
func (df *DataFrame) ValueCounts(normalize bool) ([]*DataFrame, error) {
	out := make([]*DataFrame, 0, len(df.order))
	for _, name := range df.order {
		if name == CountColumn {
			for _, done := range out {
				done.Release()
			}
			return nil, errors.NewDuplicateNameError("ValueCounts", name)
		}

		d := newDistinctSet(df.column(name))
		groups := d.sortedGroups()
		sort.SliceStable(groups, func(a, b int) bool {
			return d.counts[groups[a]] > d.counts[groups[b]]
		})

		var counts vector
		if normalize {
			fractions := make([]float64, len(groups))
			for i, g := range groups {
				fractions[i] = float64(d.counts[g]) / float64(df.Len())
			}
			counts = floatVector(fractions)
		} else {
			ints := make([]int64, len(groups))
			for i, g := range groups {
				ints[i] = int64(d.counts[g])
			}
			counts = intVector(ints)
		}
		out = append(out, df.fromVectors([]string{name, CountColumn}, []vector{d.values(groups), counts}))
	}
	return out, nil
}

// Column labels of the Dtypes result.
const (
	DtypeNameColumn = "Column Name"
	DtypeTypeColumn = "Data Type"
)

// Dtypes returns a two-column DataFrame of column names and their kinds
func (df *DataFrame) Dtypes() *DataFrame {
	names := make([]string, len(df.order))
	kinds := make([]string, len(df.order))
	for i, name := range df.order {
		names[i] = name
		kinds[i] = df.columns[name].Kind().String()
	}
	return df.fromVectors(
		[]string{DtypeNameColumn, DtypeTypeColumn},
		[]vector{objectVector(names, nil), objectVector(kinds, nil)},
	)
}
