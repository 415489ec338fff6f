// Package errors provides standardized error types for DataFrame operations.
// This package defines DataFrameError for consistent error handling across
// all public APIs, with operation context, a coarse error kind that callers
// can match with errors.Is, and error wrapping support.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error kinds. Every DataFrameError produced by the constructors below carries
// exactly one of these, so callers can branch with errors.Is(err, ErrShapeMismatch).
var (
	// ErrInvalidInput indicates input of the wrong shape or kind: a value that
	// is not a one-dimensional array, an empty name, a multi-column mask.
	ErrInvalidInput = stderrors.New("invalid input")

	// ErrShapeMismatch indicates arrays or name lists of the wrong length.
	ErrShapeMismatch = stderrors.New("shape mismatch")

	// ErrColumnNotFound indicates a lookup of an absent column name.
	ErrColumnNotFound = stderrors.New("column not found")

	// ErrTypeIncompatible indicates an operation applied to a column kind or
	// scalar type it does not support.
	ErrTypeIncompatible = stderrors.New("type incompatible")

	// ErrDuplicateName indicates non-unique column names.
	ErrDuplicateName = stderrors.New("duplicate column name")

	// ErrIndexOutOfBounds indicates a positional selector outside the table.
	ErrIndexOutOfBounds = stderrors.New("index out of bounds")
)

// DataFrameError represents standardized errors across all DataFrame operations
type DataFrameError struct {
	Op      string // Operation name (e.g., "Sort", "Filter", "Set")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Hint    string // Optional suggestion appended to the message
	Kind    error  // One of the Err* kinds above
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	var msg string
	if e.Column != "" {
		msg = fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	} else {
		msg = fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
	}
	if e.Hint != "" {
		msg += ". Hint: " + e.Hint
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is(). A DataFrameError
// matches its kind sentinel, or another DataFrameError with the same
// operation, column and message.
func (e *DataFrameError) Is(target error) bool {
	if e.Kind != nil && target == e.Kind {
		return true
	}
	if df, ok := target.(*DataFrameError); ok {
		return e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
	}
	return false
}

// WithHint returns a copy of the error with a suggestion attached.
func (e *DataFrameError) WithHint(hint string) *DataFrameError {
	c := *e
	c.Hint = hint
	return &c
}

// Common error constructors for consistent error creation

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
		Kind:    ErrColumnNotFound,
	}
}

// NewColumnNotFoundErrorWithSuggestions creates a column-not-found error that
// suggests the closest available name when one is reasonably near.
func NewColumnNotFoundErrorWithSuggestions(op, column string, available []string) *DataFrameError {
	err := NewColumnNotFoundError(op, column)
	if best, ok := closestName(column, available); ok {
		return err.WithHint(fmt.Sprintf("did you mean '%s'? available columns: [%s]",
			best, strings.Join(available, ", ")))
	}
	return err
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: message,
		Kind:    ErrInvalidInput,
	}
}

// NewShapeError creates an error for length mismatches
func NewShapeError(op, column string, expected, actual int) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("expected length %d, got %d", expected, actual),
		Kind:    ErrShapeMismatch,
	}
}

// NewTypeError creates an error for operations applied to an unsupported kind
func NewTypeError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: message,
		Kind:    ErrTypeIncompatible,
	}
}

// NewDuplicateNameError creates an error for repeated column names
func NewDuplicateNameError(op, column string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: "column names must be unique",
		Kind:    ErrDuplicateName,
	}
}

// NewIndexError creates an error for out-of-bounds positions
func NewIndexError(op string, index, size int) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: fmt.Sprintf("index %d out of bounds for size %d", index, size),
		Kind:    ErrIndexOutOfBounds,
	}
}

// NewValidationError creates an error for input validation failures
func NewValidationError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: message,
		Kind:    ErrInvalidInput,
	}
}

// closestName returns the candidate with the smallest edit distance to name,
// provided the distance is at most a third of the name's length (minimum 1).
func closestName(name string, candidates []string) (string, bool) {
	limit := len(name) / 3
	if limit < 1 {
		limit = 1
	}
	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := levenshtein(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist <= limit
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
