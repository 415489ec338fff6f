package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paveg/cub/internal/dataframe"
	"github.com/paveg/cub/internal/errors"
)

const opReadJSON = "ReadJSON"

// Read reads JSON data and returns a DataFrame.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	var (
		t   *table
		err error
	)
	switch r.options.Format {
	case JSONColumns:
		t, err = r.readColumns()
	case JSONRecords:
		t, err = r.readRecords()
	case JSONLines:
		t, err = r.readLines()
	default:
		return nil, errors.NewInvalidInputError(opReadJSON,
			fmt.Sprintf("unsupported JSON format: %d", r.options.Format))
	}
	if err != nil {
		return nil, err
	}

	df, err := t.frame(r)
	if err != nil {
		return nil, err
	}
	logColumns(r.logger, "json", df)
	return df, nil
}

// table accumulates columns in first-seen key order.
type table struct {
	names  []string
	values map[string][]any
	rows   int
}

func newTable() *table {
	return &table{values: make(map[string][]any)}
}

// addColumn appends a whole column; a repeated key is kept so that
// construction reports the duplicate name.
func (t *table) addColumn(name string, values []any) {
	t.names = append(t.names, name)
	if _, ok := t.values[name]; !ok {
		t.values[name] = values
	}
}

// addRecord appends one row. Keys absent from the row, and from earlier
// rows for a new key, are missing.
func (t *table) addRecord(keys []string, record map[string]any) {
	for _, key := range keys {
		if _, ok := t.values[key]; !ok {
			t.names = append(t.names, key)
			t.values[key] = make([]any, t.rows)
		}
	}
	for _, name := range t.names {
		t.values[name] = append(t.values[name], record[name])
	}
	t.rows++
}

func (t *table) frame(r *JSONReader) (*dataframe.DataFrame, error) {
	cols := make([]dataframe.Column, len(t.names))
	for i, name := range t.names {
		values := t.values[name]
		if values == nil {
			values = []any{}
		}
		cols[i] = dataframe.Column{Name: name, Values: values}
	}
	return dataframe.FromColumns(r.mem, cols...)
}

// readColumns reads a single object mapping column names to value arrays.
func (r *JSONReader) readColumns() (*table, error) {
	dec := json.NewDecoder(r.reader)
	dec.UseNumber()

	if err := expectDelim(dec, '{', "a JSON object of column arrays"); err != nil {
		return nil, err
	}
	t := newTable()
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '[', fmt.Sprintf("an array for column %q", name)); err != nil {
			return nil, err
		}
		values := []any{}
		for dec.More() {
			value, err := readScalar(dec, name)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		if _, err := dec.Token(); err != nil { // ]
			return nil, fmt.Errorf("reading JSON column %q: %w", name, err)
		}
		t.addColumn(name, values)
	}
	if _, err := dec.Token(); err != nil { // }
		return nil, fmt.Errorf("reading JSON object: %w", err)
	}
	return t, nil
}

// readRecords reads an array of row objects.
func (r *JSONReader) readRecords() (*table, error) {
	dec := json.NewDecoder(r.reader)
	dec.UseNumber()

	if err := expectDelim(dec, '[', "a JSON array of records"); err != nil {
		return nil, err
	}
	t := newTable()
	for dec.More() {
		if r.options.MaxRecords > 0 && t.rows >= r.options.MaxRecords {
			break
		}
		keys, record, err := readRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("reading JSON record %d: %w", t.rows+1, err)
		}
		t.addRecord(keys, record)
	}
	return t, nil
}

// readLines reads one row object per line. Blank lines are skipped.
func (r *JSONReader) readLines() (*table, error) {
	scanner := bufio.NewScanner(r.reader)
	t := newTable()

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader([]byte(line)))
		dec.UseNumber()
		keys, record, err := readRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("reading JSON line %d: %w", lineNum, err)
		}
		t.addRecord(keys, record)

		if r.options.MaxRecords > 0 && t.rows >= r.options.MaxRecords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning JSON lines: %w", err)
	}
	return t, nil
}

// readRecord reads one flat object, returning its keys in document order.
func readRecord(dec *json.Decoder) ([]string, map[string]any, error) {
	if err := expectDelim(dec, '{', "a JSON object"); err != nil {
		return nil, nil, err
	}
	var keys []string
	record := make(map[string]any)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, nil, err
		}
		value, err := readScalar(dec, key)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := record[key]; !seen {
			keys = append(keys, key)
		}
		record[key] = value
	}
	if _, err := dec.Token(); err != nil { // }
		return nil, nil, err
	}
	return keys, record, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.NewInvalidInputError(opReadJSON, fmt.Sprintf("expected %s: %v", what, err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return errors.NewInvalidInputError(opReadJSON, fmt.Sprintf("expected %s, got %v", what, tok))
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("reading JSON key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.NewInvalidInputError(opReadJSON, fmt.Sprintf("expected an object key, got %v", tok))
	}
	return key, nil
}

// readScalar decodes one value. Numbers become int64 when integral and
// float64 otherwise; nested arrays and objects are rejected.
func readScalar(dec *json.Decoder, column string) (any, error) {
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("reading JSON value for %q: %w", column, err)
	}
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, errors.NewValidationError(opReadJSON, column, fmt.Sprintf("invalid number %s", v))
		}
		return f, nil
	case nil, bool, string:
		return v, nil
	default:
		return nil, errors.NewValidationError(opReadJSON, column,
			fmt.Sprintf("nested %T values are not supported", v))
	}
}
