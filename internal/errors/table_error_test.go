package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/paveg/tisch/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestTableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.TableError
		expected string
	}{
		{
			name: "Error with column",
			err: &errors.TableError{
				Kind:    errors.KindLookup,
				Op:      "Get",
				Column:  "age",
				Message: "column does not exist",
			},
			expected: "LookupError: Get operation failed on column 'age': column does not exist",
		},
		{
			name: "Error without column",
			err: &errors.TableError{
				Kind:    errors.KindValue,
				Op:      "New",
				Message: "all arrays must be of the same length",
			},
			expected: "ValueError: New operation failed: all arrays must be of the same length",
		},
		{
			name: "Error with hint",
			err: &errors.TableError{
				Kind:    errors.KindType,
				Op:      "Set",
				Message: "key must be a string",
				Hint:    "use a column name",
			},
			expected: "TypeError: Set operation failed: key must be a string (Hint: use a column name)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestTableError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying error")
	err := errors.NewInternalError("Get", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, stderrors.Is(err, cause))
}

func TestTableError_IsKind(t *testing.T) {
	typeErr := errors.NewTypeError("New", "input type is not a mapping")
	valueErr := errors.NewValueErrorf("New", "value for %q has %d dimensions", "a", 2)
	lookupErr := errors.NewColumnNotFoundError("Get", "z", []string{"a", "b"})

	assert.ErrorIs(t, typeErr, errors.ErrType)
	assert.NotErrorIs(t, typeErr, errors.ErrValue)
	assert.ErrorIs(t, valueErr, errors.ErrValue)
	assert.ErrorIs(t, lookupErr, errors.ErrLookup)
	assert.NotErrorIs(t, lookupErr, errors.ErrType)

	wrapped := fmt.Errorf("loading table: %w", valueErr)
	assert.ErrorIs(t, wrapped, errors.ErrValue)
}

func TestTableError_IsExact(t *testing.T) {
	err1 := errors.NewValueError("SetColumns", "column names must not have duplicates")
	err2 := errors.NewValueError("SetColumns", "column names must not have duplicates")
	err3 := errors.NewValueError("Set", "column names must not have duplicates")

	assert.True(t, stderrors.Is(err1, err2))
	assert.False(t, stderrors.Is(err1, err3))
}

func TestColumnNotFoundHint(t *testing.T) {
	err := errors.NewColumnNotFoundError("Get", "nam", []string{"name", "age"})
	assert.Contains(t, err.Error(), "Hint: available columns: [name, age]")

	bare := errors.NewColumnNotFoundError("Get", "nam", nil)
	assert.NotContains(t, bare.Error(), "Hint")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "TypeError", errors.KindType.String())
	assert.Equal(t, "ValueError", errors.KindValue.String())
	assert.Equal(t, "LookupError", errors.KindLookup.String())
	assert.Equal(t, "Kind(9)", errors.Kind(9).String())
}
