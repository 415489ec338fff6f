// Package validation provides input validation utilities for DataFrame operations.
// This package implements a small validation framework with reusable
// validators for construction input (one-dimensional arrays, names, equal
// lengths) and for lookups (column existence, positional bounds).
package validation

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/cub/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	Columns() []string
	Len() int
	Width() int
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	df      ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(df ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		df:      df,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all columns exist in the DataFrame
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.df.HasColumn(column) {
			return errors.NewColumnNotFoundErrorWithSuggestions(v.op, column, v.df.Columns())
		}
	}
	return nil
}

// LengthValidator validates array length consistency
type LengthValidator struct {
	expected int
	actual   int
	op       string
	column   string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, column string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		column:   column,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		return errors.NewShapeError(v.op, v.column, v.expected, v.actual)
	}
	return nil
}

// NameValidator rejects empty column names
type NameValidator struct {
	name string
	op   string
}

// NewNameValidator creates a validator for a single column name
func NewNameValidator(name, op string) *NameValidator {
	return &NameValidator{name: name, op: op}
}

// Validate checks that the name is non-empty
func (v *NameValidator) Validate() error {
	if v.name == "" {
		return errors.NewInvalidInputError(v.op, "column names must be non-empty strings")
	}
	return nil
}

// UniqueNamesValidator rejects repeated names
type UniqueNamesValidator struct {
	names []string
	op    string
}

// NewUniqueNamesValidator creates a validator for a list of column names
func NewUniqueNamesValidator(names []string, op string) *UniqueNamesValidator {
	return &UniqueNamesValidator{names: names, op: op}
}

// Validate checks that every name appears once and is non-empty
func (v *UniqueNamesValidator) Validate() error {
	seen := make(map[string]struct{}, len(v.names))
	for _, name := range v.names {
		if err := NewNameValidator(name, v.op).Validate(); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return errors.NewDuplicateNameError(v.op, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ArrayValidator checks that a construction value is a one-dimensional
// array of a supported element type
type ArrayValidator struct {
	column string
	value  interface{}
	op     string
}

// NewArrayValidator creates a validator for a column's values
func NewArrayValidator(column string, value interface{}, op string) *ArrayValidator {
	return &ArrayValidator{column: column, value: value, op: op}
}

// Validate checks the value's shape and element type
func (v *ArrayValidator) Validate() error {
	if v.value == nil {
		return errors.NewValidationError(v.op, v.column, "value must be an array, got nil")
	}
	if _, ok := v.value.(arrow.Array); ok {
		return nil
	}

	rt := reflect.TypeOf(v.value)
	if rt.Kind() != reflect.Slice && rt.Kind() != reflect.Array {
		return errors.NewValidationError(v.op, v.column,
			fmt.Sprintf("value must be an array, got %s", rt))
	}

	elem := rt.Elem()
	switch elem.Kind() {
	case reflect.Slice, reflect.Array:
		return errors.NewValidationError(v.op, v.column, "value must be one-dimensional")
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Interface:
		return nil
	case reflect.Ptr:
		if elem.Elem().Kind() == reflect.String {
			return nil
		}
	}
	return errors.NewValidationError(v.op, v.column,
		fmt.Sprintf("unsupported element type %s", elem))
}

// IndexValidator validates index bounds
type IndexValidator struct {
	index int
	max   int
	op    string
}

// NewIndexValidator creates a validator for index operations
func NewIndexValidator(index, maxIndex int, op string) *IndexValidator {
	return &IndexValidator{
		index: index,
		max:   maxIndex,
		op:    op,
	}
}

// Validate checks if index is within bounds
func (v *IndexValidator) Validate() error {
	if v.index < 0 || v.index >= v.max {
		return errors.NewIndexError(v.op, v.index, v.max)
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(df ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(df, op, columns...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, column string) error {
	return NewLengthValidator(expected, actual, op, column).Validate()
}

// ValidateUniqueNames is a convenience function for name-list validation
func ValidateUniqueNames(names []string, op string) error {
	return NewUniqueNamesValidator(names, op).Validate()
}

// ValidateArray is a convenience function for construction value validation
func ValidateArray(column string, value interface{}, op string) error {
	return NewArrayValidator(column, value, op).Validate()
}

// ValidateIndex is a convenience function for index validation
func ValidateIndex(index, maxIndex int, op string) error {
	return NewIndexValidator(index, maxIndex, op).Validate()
}
