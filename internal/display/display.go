// Package display renders DataFrames as HTML tables and plain text.
package display

import (
	"html"
	"strconv"
	"strings"

	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/config"
	"github.com/paveg/cub/internal/dataframe"
	"github.com/paveg/cub/internal/series"
)

// Options controls truncation and cell formatting.
type Options struct {
	MaxRows   int // tables longer than this show only head and tail rows
	HeadRows  int
	TailRows  int
	Precision int // decimals for floats
	Width     int // minimum cell width
}

// FromConfig reads the display settings of cfg.
func FromConfig(cfg config.Config) Options {
	return Options{
		MaxRows:   cfg.MaxRows,
		HeadRows:  cfg.HeadRows,
		TailRows:  cfg.TailRows,
		Precision: cfg.FloatPrecision,
		Width:     cfg.CellWidth,
	}
}

// DefaultOptions returns the options of the global configuration.
func DefaultOptions() Options {
	return FromConfig(config.GetGlobalConfig())
}

// HTML renders df as a table using the global configuration.
func HTML(df *dataframe.DataFrame) string {
	return HTMLWithOptions(df, DefaultOptions())
}

// Text renders df as aligned plain text using the global configuration.
func Text(df *dataframe.DataFrame) string {
	return TextWithOptions(df, DefaultOptions())
}

// layout is the set of rows to print. A gap marks the ellipsis between
// head and tail.
type layout struct {
	head, tail []int
	gap        bool
}

func plan(rows int, opts Options) layout {
	if rows <= opts.MaxRows {
		head := make([]int, rows)
		for i := range head {
			head[i] = i
		}
		return layout{head: head}
	}
	head := make([]int, 0, opts.HeadRows)
	for i := 0; i < opts.HeadRows && i < rows; i++ {
		head = append(head, i)
	}
	// The tail never repeats a head row.
	start := max(rows-opts.TailRows, len(head))
	tail := make([]int, 0, rows-start)
	for i := start; i < rows; i++ {
		tail = append(tail, i)
	}
	return layout{head: head, tail: tail, gap: start > len(head)}
}

// formatter renders one column's cells.
type formatter struct {
	kinds []series.Kind
	opts  Options
}

func newFormatter(df *dataframe.DataFrame, opts Options) formatter {
	names := df.Columns()
	kinds := make([]series.Kind, len(names))
	for i, name := range names {
		kinds[i], _ = df.Kind(name)
	}
	return formatter{kinds: kinds, opts: opts}
}

// cell formats a value: floats fixed-point and right-aligned, other numbers
// right-aligned, text left-aligned with missing shown as None, booleans as
// True or False without padding.
func (f formatter) cell(col int, value any) string {
	switch f.kinds[col] {
	case series.Float:
		return common.PadLeft(common.FormatFloat(value.(float64), f.opts.Precision), f.opts.Width)
	case series.Bool:
		return common.FormatGroupValue(value)
	case series.Object:
		if value == nil {
			return common.PadRight("None", f.opts.Width)
		}
		return common.PadRight(value.(string), f.opts.Width)
	default:
		return common.PadLeft(common.ToString(value), f.opts.Width)
	}
}

// HTMLWithOptions renders df as an HTML table with a bold row position in
// the first cell of every row.
func HTMLWithOptions(df *dataframe.DataFrame, opts Options) string {
	var b strings.Builder
	f := newFormatter(df, opts)
	rows := df.Values()
	names := df.Columns()

	b.WriteString("<table><thead><tr><th></th>")
	for _, name := range names {
		b.WriteString("<th>" + html.EscapeString(common.PadRight(name, opts.Width)) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	writeRow := func(i int) {
		b.WriteString("<tr><td><strong>" + strconv.Itoa(i) + "</strong></td>")
		for j, value := range rows[i] {
			b.WriteString("<td>" + html.EscapeString(f.cell(j, value)) + "</td>")
		}
		b.WriteString("</tr>")
	}

	l := plan(df.Len(), opts)
	for _, i := range l.head {
		writeRow(i)
	}
	if l.gap {
		b.WriteString("<tr><td><strong>...</strong></td>")
		for range names {
			b.WriteString("<td>...</td>")
		}
		b.WriteString("</tr>")
	}
	for _, i := range l.tail {
		writeRow(i)
	}

	b.WriteString("</tbody></table>")
	return b.String()
}

// TextWithOptions renders df as space-separated columns under a header line.
func TextWithOptions(df *dataframe.DataFrame, opts Options) string {
	f := newFormatter(df, opts)
	rows := df.Values()
	names := df.Columns()
	l := plan(df.Len(), opts)

	indexWidth := len(strconv.Itoa(max(df.Len()-1, 0)))
	if l.gap {
		indexWidth = max(indexWidth, len("..."))
	}

	lines := make([][]string, 0, len(l.head)+len(l.tail)+2)
	header := []string{strings.Repeat(" ", indexWidth)}
	for _, name := range names {
		header = append(header, common.PadRight(name, opts.Width))
	}
	lines = append(lines, header)

	row := func(i int) []string {
		line := []string{common.PadLeft(strconv.Itoa(i), indexWidth)}
		for j, value := range rows[i] {
			line = append(line, f.cell(j, value))
		}
		return line
	}
	for _, i := range l.head {
		lines = append(lines, row(i))
	}
	if l.gap {
		ellipsis := []string{common.PadLeft("...", indexWidth)}
		for range names {
			ellipsis = append(ellipsis, common.PadLeft("...", opts.Width))
		}
		lines = append(lines, ellipsis)
	}
	for _, i := range l.tail {
		lines = append(lines, row(i))
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimRight(strings.Join(line, "  "), " ")
	}
	return strings.Join(out, "\n")
}
