package dataframe

import (
	"fmt"
	"sort"

	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/validation"
)

// Sort returns the rows ordered by one column
func (df *DataFrame) Sort(column string, ascending bool) (*DataFrame, error) {
	return df.SortBy([]string{column}, []bool{ascending})
}

// SortBy returns the rows ordered by several columns, earlier columns
// taking precedence. ascending holds one flag per column, or a single flag
// for all of them. The sort is stable and missing values always come last.
func (df *DataFrame) SortBy(columns []string, ascending []bool) (*DataFrame, error) {
	const op = "SortBy"
	if len(columns) == 0 {
		return nil, errors.NewInvalidInputError(op, "at least one sort column is required")
	}
	if err := validation.ValidateColumns(df, op, columns...); err != nil {
		return nil, err
	}
	if len(ascending) == 1 && len(columns) > 1 {
		flag := ascending[0]
		ascending = make([]bool, len(columns))
		for i := range ascending {
			ascending[i] = flag
		}
	}
	if len(ascending) != len(columns) {
		return nil, errors.NewShapeError(op, "", len(columns), len(ascending)).
			WithHint(fmt.Sprintf("pass one ascending flag per sort column %v", columns))
	}

	keys := make([]vector, len(columns))
	for i, name := range columns {
		keys[i] = df.column(name)
	}

	rows := make([]int, df.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		for k, key := range keys {
			ma, mb := key.missing(ra), key.missing(rb)
			if ma || mb {
				if ma == mb {
					continue
				}
				return mb
			}
			c := key.compare(ra, rb)
			if c == 0 {
				continue
			}
			if ascending[k] {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return df.takeRows(df.order, rows), nil
}
