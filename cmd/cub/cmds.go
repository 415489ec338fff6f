package main

import (
	"fmt"
	stdio "io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/config"
	"github.com/paveg/cub/internal/dataframe"
	"github.com/paveg/cub/internal/display"
	"github.com/paveg/cub/internal/io"
	"github.com/paveg/cub/internal/series"
	"github.com/paveg/cub/internal/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// describeStats are the rows of the describe table, in order.
var describeStats = []string{"count", "mean", "std", "min", "median", "max"}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cub",
		Short:         "Inspect tabular files with cub DataFrames",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (.json, .yaml or .yml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().String("delimiter", "", "CSV field delimiter")
	root.PersistentFlags().Bool("html", false, "render tables as HTML")
	addCommands(root)
	return root
}

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "head file",
		Short: "Show the first rows of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  headCommand}
	cmd.Flags().IntP("rows", "n", 5, "number of rows")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "tail file",
		Short: "Show the last rows of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  tailCommand}
	cmd.Flags().IntP("rows", "n", 5, "number of rows")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "dtypes file",
		Short: "List column names and kinds",
		Args:  cobra.ExactArgs(1),
		RunE:  dtypesCommand}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "describe file",
		Short: "Summarize the numeric columns of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  describeCommand}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "agg file function",
		Short: "Reduce every column with min, max, mean, median, sum, var, std, all, any, argmax or argmin",
		Args:  cobra.ExactArgs(2),
		RunE:  aggCommand}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "value-counts file",
		Short: "Count distinct values per column",
		Args:  cobra.ExactArgs(1),
		RunE:  valueCountsCommand}
	cmd.Flags().StringArrayP("column", "c", nil, "column to count (default: all)")
	cmd.Flags().Bool("normalize", false, "report fractions instead of counts")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "sort file column+",
		Short: "Sort rows by one or more columns",
		Args:  cobra.MinimumNArgs(2),
		RunE:  sortCommand}
	cmd.Flags().StringArrayP("order", "o", nil, "asc or desc, once per column or once for all")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "transform file name",
		Short: "Apply a shape-preserving transform such as cumsum or pct_change",
		Args:  cobra.ExactArgs(2),
		RunE:  transformCommand}
	cmd.Flags().Int("periods", 1, "lag used by diff and pct_change")
	cmd.Flags().Int("decimals", 0, "digits kept by round")
	cmd.Flags().Float64("lower", 0, "lower bound used by clip")
	cmd.Flags().Float64("upper", 0, "upper bound used by clip")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "pivot file",
		Short: "Build a pivot table",
		Args:  cobra.ExactArgs(1),
		RunE:  pivotCommand}
	cmd.Flags().String("rows", "", "column whose values become rows")
	cmd.Flags().String("columns", "", "column whose values become columns")
	cmd.Flags().String("values", "", "column to aggregate")
	cmd.Flags().String("aggfunc", "", "aggregation applied to values")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), version.Info().String())
			return nil
		}}
	root.AddCommand(cmd)
}

// Action is the state used when processing a command.
type Action struct {
	cmd    *cobra.Command
	cfg    config.Config
	logger *slog.Logger
	mem    memory.Allocator
}

func newAction(cmd *cobra.Command) (*Action, error) {
	a := &Action{cmd: cmd, mem: memory.NewGoAllocator()}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	config.SetGlobalConfig(cfg)

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
	for _, w := range cfg.Warnings() {
		a.logger.Warn("configuration", slog.String("warning", w))
	}
	return a, nil
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getFloat(name string) *float64 {
	if !a.cmd.Flags().Changed(name) {
		return nil
	}
	result, _ := a.cmd.Flags().GetFloat64(name)
	return &result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

// loadConfig layers defaults, the config file, CUB_* variables and flags.
func (a *Action) loadConfig() (config.Config, error) {
	cfg := config.NewConfig()
	if fname := a.getString("config"); fname != "" {
		loaded, err := config.LoadFromFile(fname)
		if err != nil {
			return cfg, errors.Wrapf(err, "loading config %s", fname)
		}
		cfg = loaded
	}
	cfg = config.ApplyEnv(cfg)
	if level := a.getString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if delim := a.getString("delimiter"); delim != "" {
		cfg.CSVDelimiter = unescapeDelimiter(delim)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// unescapeDelimiter lets shells pass a tab as \t.
func unescapeDelimiter(s string) string {
	if s == `\t` {
		return "\t"
	}
	return s
}

// read loads fname by extension: .json holds column arrays, .jsonl and
// .ndjson hold one record per line, anything else is CSV. "-" reads CSV
// from standard input.
func (a *Action) read(fname string) (*dataframe.DataFrame, error) {
	var r stdio.Reader
	if fname == "-" {
		r = a.cmd.InOrStdin()
	} else {
		f, err := os.Open(fname)
		if err != nil {
			return nil, errors.Wrap(err, "opening input")
		}
		defer f.Close()
		r = f
	}

	var (
		df  *dataframe.DataFrame
		err error
	)
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".json":
		df, err = io.NewJSONReader(r, io.DefaultJSONOptions(), a.mem).WithLogger(a.logger).Read()
	case ".jsonl", ".ndjson":
		opts := io.JSONOptions{Format: io.JSONLines}
		df, err = io.NewJSONReader(r, opts, a.mem).WithLogger(a.logger).Read()
	default:
		df, err = io.NewCSVReader(r, io.CSVOptionsFromConfig(a.cfg), a.mem).WithLogger(a.logger).Read()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	a.logger.Info("loaded", slog.String("file", fname), slog.Int("rows", df.Len()), slog.Int("columns", df.Width()))
	return df, nil
}

// show renders df to the command output and releases it.
func (a *Action) show(df *dataframe.DataFrame) {
	defer df.Release()
	opts := display.FromConfig(a.cfg)
	out := a.cmd.OutOrStdout()
	if a.getBool("html") {
		fmt.Fprintln(out, display.HTMLWithOptions(df, opts))
		return
	}
	fmt.Fprintln(out, display.TextWithOptions(df, opts))
}

// withInput runs fn on the DataFrame read from the first argument.
func withInput(cmd *cobra.Command, args []string, fn func(*Action, *dataframe.DataFrame) error) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}
	df, err := a.read(args[0])
	if err != nil {
		return err
	}
	defer df.Release()
	return fn(a, df)
}

func headCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		a.show(df.Head(a.getInt("rows")))
		return nil
	})
}

func tailCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		a.show(df.Tail(a.getInt("rows")))
		return nil
	})
}

func dtypesCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		a.show(df.Dtypes())
		return nil
	})
}

func aggCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		fn, err := dataframe.ParseAggFunc(args[1])
		if err != nil {
			return err
		}
		result, err := df.Aggregate(fn)
		if err != nil {
			return errors.Wrap(err, "aggregating")
		}
		a.show(result)
		return nil
	})
}

func describeCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		result, err := describe(df)
		if err != nil {
			return err
		}
		a.show(result)
		return nil
	})
}

// describe tabulates describeStats for every int and float column.
func describe(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	var numeric []string
	for _, name := range df.Columns() {
		if kind, _ := df.Kind(name); kind == series.Int || kind == series.Float {
			numeric = append(numeric, name)
		}
	}
	if len(numeric) == 0 {
		return nil, errors.New("no numeric columns to describe")
	}
	sub, err := df.Select(numeric...)
	if err != nil {
		return nil, err
	}
	defer sub.Release()

	stats := make(map[string][]float64, len(numeric))
	for i, stat := range describeStats {
		// Reductions that drop a column, such as min over no rows, leave NaN.
		for _, name := range numeric {
			stats[name] = append(stats[name], math.NaN())
		}

		var agg *dataframe.DataFrame
		if stat == "count" {
			agg = sub.Count()
		} else {
			fn, err := dataframe.ParseAggFunc(stat)
			if err != nil {
				return nil, err
			}
			if agg, err = sub.Aggregate(fn); err != nil {
				return nil, errors.Wrapf(err, "computing %s", stat)
			}
		}
		row := agg.Values()
		for j, name := range agg.Columns() {
			f, err := common.ToFloat64(row[0][j])
			if err != nil {
				agg.Release()
				return nil, errors.Wrapf(err, "column %s", name)
			}
			stats[name][i] = f
		}
		agg.Release()
	}

	cols := []dataframe.Column{{Name: "statistic", Values: describeStats}}
	for _, name := range numeric {
		cols = append(cols, dataframe.Column{Name: name, Values: stats[name]})
	}
	return dataframe.FromColumns(df.Allocator(), cols...)
}

func valueCountsCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		target := df
		if columns := a.getStringArray("column"); len(columns) > 0 {
			sub, err := df.Select(columns...)
			if err != nil {
				return err
			}
			defer sub.Release()
			target = sub
		}
		counts, err := target.ValueCounts(a.getBool("normalize"))
		if err != nil {
			return err
		}
		for i, vc := range counts {
			if i > 0 {
				fmt.Fprintln(a.cmd.OutOrStdout())
			}
			a.show(vc)
		}
		return nil
	})
}

func sortCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		columns := args[1:]
		orders := a.getStringArray("order")
		if len(orders) == 0 {
			orders = []string{"asc"}
		}
		ascending := make([]bool, len(orders))
		for i, order := range orders {
			direction, ok := common.ParseOrderDirection(order)
			if !ok {
				return errors.Errorf("unknown sort order %q", order)
			}
			ascending[i] = direction == 0
		}
		if a.logger.Enabled(cmd.Context(), slog.LevelDebug) {
			specs := make([]string, len(columns))
			for i, name := range columns {
				specs[i] = common.FormatSort(name, ascending[min(i, len(ascending)-1)])
			}
			a.logger.Debug("sorting", slog.String("by", strings.Join(specs, ", ")))
		}

		sorted, err := df.SortBy(columns, ascending)
		if err != nil {
			return errors.Wrap(err, "sorting")
		}
		a.show(sorted)
		return nil
	})
}

func transformCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		t, err := dataframe.ParseTransform(args[1])
		if err != nil {
			return errors.Wrap(err, "transforming")
		}

		var result *dataframe.DataFrame
		switch t {
		case dataframe.TransformAbs:
			result = df.Abs()
		case dataframe.TransformCumMin:
			result = df.CumMin()
		case dataframe.TransformCumMax:
			result = df.CumMax()
		case dataframe.TransformCumSum:
			result = df.CumSum()
		case dataframe.TransformClip:
			result = df.Clip(dataframe.ClipOptions{Lower: a.getFloat("lower"), Upper: a.getFloat("upper")})
		case dataframe.TransformRound:
			result = df.Round(a.getInt("decimals"))
		case dataframe.TransformCopy:
			result = df.Copy()
		case dataframe.TransformDiff:
			result = df.Diff(a.getInt("periods"))
		case dataframe.TransformPctChange:
			result = df.PctChange(a.getInt("periods"))
		}
		a.logger.Debug("transformed", slog.String("transform", t.String()), slog.Int("columns", len(result.Columns())))
		a.show(result)
		return nil
	})
}

func pivotCommand(cmd *cobra.Command, args []string) error {
	return withInput(cmd, args, func(a *Action, df *dataframe.DataFrame) error {
		table, err := df.PivotTable(dataframe.PivotOptions{
			Rows:    a.getString("rows"),
			Columns: a.getString("columns"),
			Values:  a.getString("values"),
			AggFunc: a.getString("aggfunc"),
		})
		if err != nil {
			return errors.Wrap(err, "pivoting")
		}
		a.show(table)
		return nil
	})
}
