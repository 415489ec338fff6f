package validation_test

import (
	"testing"

	dferrors "github.com/paveg/cub/internal/errors"
	"github.com/paveg/cub/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockColumnProvider implements ColumnProvider for testing.
type MockColumnProvider struct {
	columns []string
	length  int
}

func (m *MockColumnProvider) HasColumn(name string) bool {
	for _, col := range m.columns {
		if col == name {
			return true
		}
	}
	return false
}

func (m *MockColumnProvider) Columns() []string {
	return m.columns
}

func (m *MockColumnProvider) Len() int {
	return m.length
}

func (m *MockColumnProvider) Width() int {
	return len(m.columns)
}

func TestColumnValidator(t *testing.T) {
	mockDF := &MockColumnProvider{columns: []string{"id", "name"}, length: 3}

	t.Run("Valid columns", func(t *testing.T) {
		require.NoError(t, validation.NewColumnValidator(mockDF, "Select", "id", "name").Validate())
	})

	t.Run("Invalid column", func(t *testing.T) {
		err := validation.NewColumnValidator(mockDF, "Select", "age").Validate()
		require.Error(t, err)

		var dfErr *dferrors.DataFrameError
		require.ErrorAs(t, err, &dfErr)
		assert.Equal(t, "Select", dfErr.Op)
		assert.Equal(t, "age", dfErr.Column)
		assert.ErrorIs(t, err, dferrors.ErrColumnNotFound)
	})

	t.Run("Suggests close names", func(t *testing.T) {
		err := validation.ValidateColumns(mockDF, "Get", "nme")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "did you mean 'name'?")
	})
}

func TestLengthValidator(t *testing.T) {
	require.NoError(t, validation.ValidateLength(3, 3, "New", "a"))

	err := validation.ValidateLength(3, 2, "New", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, dferrors.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "expected length 3, got 2")
}

func TestUniqueNamesValidator(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		kind  error
	}{
		{"unique", []string{"a", "b"}, nil},
		{"duplicate", []string{"a", "b", "a"}, dferrors.ErrDuplicateName},
		{"empty name", []string{"a", ""}, dferrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateUniqueNames(tt.names, "SetColumns")
			if tt.kind == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestArrayValidator(t *testing.T) {
	name := "x"
	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
		message string
	}{
		{"int64 slice", []int64{1, 2}, false, ""},
		{"int slice", []int{1, 2}, false, ""},
		{"float32 array", [2]float32{1, 2}, false, ""},
		{"strings", []string{"a"}, false, ""},
		{"nullable strings", []*string{&name, nil}, false, ""},
		{"interfaces", []interface{}{"a", nil}, false, ""},
		{"bools", []bool{true}, false, ""},
		{"nil", nil, true, "got nil"},
		{"scalar", 5, true, "value must be an array"},
		{"map", map[string]int{"a": 1}, true, "value must be an array"},
		{"two dimensional", [][]int64{{1}, {2}}, true, "one-dimensional"},
		{"complex", []complex128{1}, true, "unsupported element type"},
		{"struct", []struct{}{{}}, true, "unsupported element type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateArray("col", tt.value, "New")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, dferrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestIndexValidator(t *testing.T) {
	require.NoError(t, validation.ValidateIndex(2, 5, "Loc"))

	err := validation.ValidateIndex(5, 5, "Loc")
	require.Error(t, err)
	assert.ErrorIs(t, err, dferrors.ErrIndexOutOfBounds)

	err = validation.ValidateIndex(-1, 5, "Loc")
	assert.ErrorIs(t, err, dferrors.ErrIndexOutOfBounds)
}

func TestCompoundValidator(t *testing.T) {
	mockDF := &MockColumnProvider{columns: []string{"a"}, length: 2}

	t.Run("all pass", func(t *testing.T) {
		v := validation.NewCompoundValidator(
			validation.NewColumnValidator(mockDF, "Set", "a"),
			validation.NewLengthValidator(2, 2, "Set", "a"),
		)
		assert.NoError(t, v.Validate())
	})

	t.Run("first failure wins", func(t *testing.T) {
		v := validation.NewCompoundValidator(
			validation.NewLengthValidator(2, 1, "Set", "a"),
			validation.NewColumnValidator(mockDF, "Set", "missing"),
		)
		err := v.Validate()
		assert.ErrorIs(t, err, dferrors.ErrShapeMismatch)
	})
}
