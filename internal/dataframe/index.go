package dataframe

import (
	"fmt"

	"github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/series"
	"github.com/paveg/cub/internal/validation"
)

// Slice selects positions with half-open start:stop:step semantics. Bounds
// may be negative to count from the end and are clamped to the table.
type Slice struct {
	start, stop       int
	hasStart, hasStop bool
	step              int
	hasStep           bool
}

// Span selects positions [start, stop).
func Span(start, stop int) Slice {
	return Slice{start: start, stop: stop, hasStart: true, hasStop: true}
}

// From selects positions from start to the end.
func From(start int) Slice {
	return Slice{start: start, hasStart: true}
}

// To selects positions before stop.
func To(stop int) Slice {
	return Slice{stop: stop, hasStop: true}
}

// All selects every position.
func All() Slice {
	return Slice{}
}

// Every sets the stride. A negative step walks backwards.
func (s Slice) Every(step int) Slice {
	s.step = step
	s.hasStep = true
	return s
}

// String renders the slice in start:stop:step form.
func (s Slice) String() string {
	part := func(ok bool, v int) string {
		if !ok {
			return ""
		}
		return fmt.Sprint(v)
	}
	out := part(s.hasStart, s.start) + ":" + part(s.hasStop, s.stop)
	if s.hasStep {
		out += ":" + fmt.Sprint(s.step)
	}
	return out
}

// indices resolves the slice against a length n.
func (s Slice) indices(op string, n int) ([]int, error) {
	step := 1
	if s.hasStep {
		step = s.step
	}
	if step == 0 {
		return nil, errors.NewInvalidInputError(op, "slice step cannot be zero")
	}

	resolve := func(v, lo, hi int) int {
		if v < 0 {
			v += n
		}
		return min(max(v, lo), hi)
	}

	var out []int
	if step > 0 {
		start, stop := 0, n
		if s.hasStart {
			start = resolve(s.start, 0, n)
		}
		if s.hasStop {
			stop = resolve(s.stop, 0, n)
		}
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
		return out, nil
	}

	start, stop := n-1, -1
	if s.hasStart {
		start = resolve(s.start, -1, n-1)
	}
	if s.hasStop {
		stop = resolve(s.stop, -1, n-1)
	}
	for i := start; i > stop; i += step {
		out = append(out, i)
	}
	return out, nil
}

// Tuple is a combined row and column selection, see At.
type Tuple struct {
	Rows any
	Cols any
}

// At pairs a row selector with a column selector for Get.
// Rows may be an int, []int, Slice or boolean mask *DataFrame.
// Cols may be an int, []int, Slice, string or []string.
func At(rows, cols any) Tuple {
	return Tuple{Rows: rows, Cols: cols}
}

// Get selects by key shape: a column name, a list of names, a boolean mask
// DataFrame, or a Tuple of row and column selectors.
func (df *DataFrame) Get(key any) (*DataFrame, error) {
	switch k := key.(type) {
	case string:
		return df.Select(k)
	case []string:
		return df.Select(k...)
	case *DataFrame:
		return df.Filter(k)
	case Tuple:
		return df.Loc(k.Rows, k.Cols)
	default:
		return nil, errors.NewTypeError("Get", "",
			fmt.Sprintf("cannot select with a %T; use a string, []string, boolean DataFrame or At(rows, cols)", key))
	}
}

// Select returns a new DataFrame with the named columns in the given order.
// A repeated name keeps only its first position.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	if err := validation.ValidateColumns(df, "Select", names...); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	cols := make([]ISeries, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cols = append(cols, shareSeries(df.columns[name], name))
	}
	return newFrame(df.mem, cols), nil
}

// Filter keeps the rows where the single boolean column of mask is true.
func (df *DataFrame) Filter(mask *DataFrame) (*DataFrame, error) {
	rows, err := df.maskPositions("Filter", mask)
	if err != nil {
		return nil, err
	}
	return df.takeRows(df.order, rows), nil
}

// Loc selects rows and columns positionally. A nil selector keeps
// everything along that axis.
func (df *DataFrame) Loc(rows, cols any) (*DataFrame, error) {
	rowIdx, err := df.rowPositions("Loc", rows)
	if err != nil {
		return nil, err
	}
	names, err := df.columnNames("Loc", cols)
	if err != nil {
		return nil, err
	}
	return df.takeRows(names, rowIdx), nil
}

// Head returns the first n rows. A negative n drops |n| rows from the end.
func (df *DataFrame) Head(n int) *DataFrame {
	idx, _ := To(n).indices("Head", df.Len())
	return df.takeRows(df.order, idx)
}

// Tail returns the last n rows. A negative n drops |n| rows from the start.
func (df *DataFrame) Tail(n int) *DataFrame {
	if n == 0 {
		return df.takeRows(df.order, []int{})
	}
	idx, _ := From(-n).indices("Tail", df.Len())
	return df.takeRows(df.order, idx)
}

// takeRows gathers rows of the named columns. Contiguous ascending row
// ranges become zero-copy slices.
func (df *DataFrame) takeRows(names []string, rows []int) *DataFrame {
	contiguous := true
	for i := 1; i < len(rows); i++ {
		if rows[i] != rows[i-1]+1 {
			contiguous = false
			break
		}
	}

	cols := make([]ISeries, len(names))
	for i, name := range names {
		s := df.columns[name]
		switch {
		case len(rows) == 0:
			cols[i] = sliceSeries(s, 0, 0)
		case contiguous && rows[0] == 0 && len(rows) == s.Len():
			cols[i] = shareSeries(s, name)
		case contiguous:
			cols[i] = sliceSeries(s, rows[0], rows[len(rows)-1]+1)
		default:
			cols[i] = takeSeries(s, rows, df.mem)
		}
	}
	return newFrame(df.mem, cols)
}

// position resolves a possibly negative index against n.
func position(op string, index, n int) (int, error) {
	resolved := index
	if resolved < 0 {
		resolved += n
	}
	if err := validation.ValidateIndex(resolved, n, op); err != nil {
		return 0, errors.NewIndexError(op, index, n)
	}
	return resolved, nil
}

func positions(op string, indices []int, n int) ([]int, error) {
	out := make([]int, len(indices))
	for i, index := range indices {
		p, err := position(op, index, n)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func (df *DataFrame) rowPositions(op string, rows any) ([]int, error) {
	n := df.Len()
	switch r := rows.(type) {
	case nil:
		return All().indices(op, n)
	case int:
		p, err := position(op, r, n)
		if err != nil {
			return nil, err
		}
		return []int{p}, nil
	case []int:
		return positions(op, r, n)
	case Slice:
		return r.indices(op, n)
	case *DataFrame:
		return df.maskPositions(op, r)
	default:
		return nil, errors.NewTypeError(op, "",
			fmt.Sprintf("row selection must be an int, []int, Slice or boolean DataFrame, got %T", rows))
	}
}

// columnNames resolves a column selector to distinct names in selection
// order.
func (df *DataFrame) columnNames(op string, cols any) ([]string, error) {
	n := df.Width()
	var idx []int
	var err error

	switch c := cols.(type) {
	case nil:
		idx, err = All().indices(op, n)
	case int:
		var p int
		p, err = position(op, c, n)
		idx = []int{p}
	case []int:
		idx, err = positions(op, c, n)
	case Slice:
		idx, err = c.indices(op, n)
	case string:
		if err := validation.ValidateColumns(df, op, c); err != nil {
			return nil, err
		}
		return []string{c}, nil
	case []string:
		if err := validation.ValidateColumns(df, op, c...); err != nil {
			return nil, err
		}
		return dedupe(c), nil
	default:
		return nil, errors.NewTypeError(op, "",
			fmt.Sprintf("column selection must be an int, []int, Slice, string or []string, got %T", cols))
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, len(idx))
	for i, p := range idx {
		names[i] = df.order[p]
	}
	return dedupe(names), nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// maskPositions validates a boolean mask and returns the selected rows.
func (df *DataFrame) maskPositions(op string, mask *DataFrame) ([]int, error) {
	if mask == nil || mask.Width() != 1 {
		return nil, errors.NewInvalidInputError(op, "boolean mask must have exactly one column")
	}
	name := mask.order[0]
	col := mask.column(name)
	if col.kind != series.Bool {
		return nil, errors.NewTypeError(op, name,
			fmt.Sprintf("boolean mask must be of kind bool, got %s", col.kind))
	}
	if err := validation.ValidateLength(df.Len(), col.len(), op, name); err != nil {
		return nil, err
	}

	rows := make([]int, 0, col.len())
	for i, keep := range col.bools {
		if keep {
			rows = append(rows, i)
		}
	}
	return rows, nil
}
