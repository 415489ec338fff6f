package io

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paveg/cub/internal/dataframe"
	"github.com/paveg/cub/internal/errors"
)

const (
	// Boolean string constants
	trueStr  = "true"
	falseStr = "false"
)

// Read reads CSV data and returns a DataFrame
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return dataframe.New()
	}

	var headers []string
	dataRows := records
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
	}

	// Transpose rows into columns; short rows are padded with empty cells
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, len(dataRows))
	}
	for j, row := range dataRows {
		if len(row) > len(headers) {
			return nil, errors.NewInvalidInputError("ReadCSV",
				fmt.Sprintf("record %d has %d fields, expected at most %d", j+1, len(row), len(headers)))
		}
		for i, value := range row {
			columns[i][j] = value
		}
	}

	cols := make([]dataframe.Column, len(headers))
	for i, header := range headers {
		cols[i] = dataframe.Column{Name: header, Values: inferColumn(columns[i])}
	}

	df, err := dataframe.FromColumns(r.mem, cols...)
	if err != nil {
		return nil, err
	}
	logColumns(r.logger, "csv", df)
	return df, nil
}

// inferColumn picks the narrowest kind that every non-empty cell parses as:
// bool, then int, then float, then text. Empty cells are missing, so an int
// column with empty cells becomes float and a bool column becomes text.
func inferColumn(data []string) any {
	canBeBool, canBeInt, canBeFloat := true, true, true
	hasEmpty, hasValue := false, false

	for _, value := range data {
		if value == "" {
			hasEmpty = true
			continue
		}
		hasValue = true

		if canBeBool {
			lower := strings.ToLower(value)
			canBeBool = lower == trueStr || lower == falseStr
		}
		if canBeInt {
			_, err := strconv.ParseInt(value, 10, 64)
			canBeInt = err == nil
		}
		if canBeFloat {
			_, err := strconv.ParseFloat(value, 64)
			canBeFloat = err == nil
		}
	}

	switch {
	case !hasValue:
		return textColumn(data)
	case canBeBool && !hasEmpty:
		bools := make([]bool, len(data))
		for i, value := range data {
			bools[i] = strings.EqualFold(value, trueStr)
		}
		return bools
	case canBeInt && !hasEmpty:
		ints := make([]int64, len(data))
		for i, value := range data {
			ints[i], _ = strconv.ParseInt(value, 10, 64)
		}
		return ints
	case canBeInt || canBeFloat:
		floats := make([]float64, len(data))
		for i, value := range data {
			if value == "" {
				floats[i] = math.NaN()
				continue
			}
			floats[i], _ = strconv.ParseFloat(value, 64)
		}
		return floats
	default:
		return textColumn(data)
	}
}

// textColumn keeps non-empty cells as text and marks empty cells missing.
func textColumn(data []string) []*string {
	out := make([]*string, len(data))
	for i := range data {
		if data[i] != "" {
			out[i] = &data[i]
		}
	}
	return out
}
