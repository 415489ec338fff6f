// Package common provides shared utilities for string representations and type conversions
package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// StringFormatter provides common string formatting utilities.
type StringFormatter struct{}

// NewStringFormatter creates a new StringFormatter instance.
func NewStringFormatter() *StringFormatter {
	return &StringFormatter{}
}

// FormatBinaryOperation formats a binary operation string representation
// Pattern: (left operator right).
func (sf *StringFormatter) FormatBinaryOperation(left, operator, right string) string {
	return fmt.Sprintf("(%s %s %s)", left, operator, right)
}

// FormatFloat formats a float with a fixed number of decimals. NaN is
// rendered as "nan" the way numeric tables print it.
func (sf *StringFormatter) FormatFloat(value float64, precision int) string {
	if math.IsNaN(value) {
		return "nan"
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// FormatGroupValue renders a grouping value as a column name.
// Whole floats keep one decimal so 2.0 and 2 stay distinguishable.
func (sf *StringFormatter) FormatGroupValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case float64:
		if math.IsNaN(v) {
			return "nan"
		}
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatFloat(v, 'f', 1, 64)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		return ToString(v)
	}
}

// PadLeft right-aligns text within width runes.
func (sf *StringFormatter) PadLeft(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", width-n) + text
}

// PadRight left-aligns text within width runes.
func (sf *StringFormatter) PadRight(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return text + strings.Repeat(" ", width-n)
}

// FormatSort formats a sort specification.
func (sf *StringFormatter) FormatSort(column string, ascending bool) string {
	direction := 0
	if !ascending {
		direction = 1
	}
	return fmt.Sprintf("%s %s", column, FormatOrderDirection(direction))
}

// EnumStringMap represents a mapping from enum values to string representations.
type EnumStringMap map[int]string

// FormatEnum formats an enum value using the provided mapping.
func (sf *StringFormatter) FormatEnum(value int, mapping EnumStringMap) string {
	if str, exists := mapping[value]; exists {
		return str
	}
	return fmt.Sprintf("unknown(%d)", value)
}

// Default formatter instance for convenience.
var defaultFormatter = NewStringFormatter()

// Convenient functions using the default formatter

// FormatBinaryOperation formats a binary operation using the default formatter.
func FormatBinaryOperation(left, operator, right string) string {
	return defaultFormatter.FormatBinaryOperation(left, operator, right)
}

// FormatFloat formats a float using the default formatter.
func FormatFloat(value float64, precision int) string {
	return defaultFormatter.FormatFloat(value, precision)
}

// FormatGroupValue renders a grouping value using the default formatter.
func FormatGroupValue(value interface{}) string {
	return defaultFormatter.FormatGroupValue(value)
}

// PadLeft right-aligns text using the default formatter.
func PadLeft(text string, width int) string {
	return defaultFormatter.PadLeft(text, width)
}

// PadRight left-aligns text using the default formatter.
func PadRight(text string, width int) string {
	return defaultFormatter.PadRight(text, width)
}

// FormatSort formats a sort specification using the default formatter.
func FormatSort(column string, ascending bool) string {
	return defaultFormatter.FormatSort(column, ascending)
}

// FormatEnum formats an enum value using the default formatter.
func FormatEnum(value int, mapping EnumStringMap) string {
	return defaultFormatter.FormatEnum(value, mapping)
}
