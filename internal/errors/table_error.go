// Package errors provides standardized error types for Table operations.
// Every failure is classified by Kind so callers can branch on the broad
// category (wrong type, invalid content, missing key) with errors.Is while
// still getting the operation and column that failed.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a TableError.
type Kind int

const (
	// KindType reports a value of the wrong shape or category: wrong container,
	// wrong element type, wrong index expression or wrong key type.
	KindType Kind = iota
	// KindValue reports a value of the right type with invalid content:
	// dimension other than one, mismatched lengths, duplicate names, bad mask shape.
	KindValue
	// KindLookup reports a missing column label or an out-of-range position.
	KindLookup
)

// String returns the conventional name of the error kind.
func (k Kind) String() string {
	switch k {
	case KindType:
		return "TypeError"
	case KindValue:
		return "ValueError"
	case KindLookup:
		return "LookupError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TableError represents standardized errors across all Table operations
type TableError struct {
	Kind    Kind   // Error category
	Op      string // Operation name (e.g., "New", "Get", "Set")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Hint    string // Optional suggestion shown after the message
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *TableError) Error() string {
	var b strings.Builder
	if e.Column != "" {
		fmt.Fprintf(&b, "%s: %s operation failed on column '%s': %s", e.Kind, e.Op, e.Column, e.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s operation failed: %s", e.Kind, e.Op, e.Message)
	}
	if e.Hint != "" {
		b.WriteString(" (Hint: ")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying cause for error wrapping support
func (e *TableError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A kind sentinel (an error
// with only Kind set) matches every error of that kind; otherwise the
// operation, column and message must all be equal.
func (e *TableError) Is(target error) bool {
	te, ok := target.(*TableError)
	if !ok {
		return false
	}
	if te.Kind != e.Kind {
		return false
	}
	if te.Op == "" && te.Column == "" && te.Message == "" {
		return true
	}
	return e.Op == te.Op && e.Column == te.Column && e.Message == te.Message
}

// WithHint returns a copy of the error carrying a suggestion for the caller.
func (e *TableError) WithHint(hint string) *TableError {
	cp := *e
	cp.Hint = hint
	return &cp
}

// Kind sentinels for errors.Is checks
var (
	ErrType   = &TableError{Kind: KindType}
	ErrValue  = &TableError{Kind: KindValue}
	ErrLookup = &TableError{Kind: KindLookup}
)

// NewTypeError creates an error for inputs of the wrong type or shape.
func NewTypeError(op, message string) *TableError {
	return &TableError{Kind: KindType, Op: op, Message: message}
}

// NewTypeErrorf is NewTypeError with a format string.
func NewTypeErrorf(op, format string, args ...any) *TableError {
	return NewTypeError(op, fmt.Sprintf(format, args...))
}

// NewValueError creates an error for well-typed inputs with invalid content.
func NewValueError(op, message string) *TableError {
	return &TableError{Kind: KindValue, Op: op, Message: message}
}

// NewValueErrorf is NewValueError with a format string.
func NewValueErrorf(op, format string, args ...any) *TableError {
	return NewValueError(op, fmt.Sprintf(format, args...))
}

// NewColumnValueError creates a value error attributed to a column.
func NewColumnValueError(op, column, message string) *TableError {
	return &TableError{Kind: KindValue, Op: op, Column: column, Message: message}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string, available []string) *TableError {
	err := &TableError{
		Kind:    KindLookup,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
	if len(available) > 0 {
		err.Hint = "available columns: [" + strings.Join(available, ", ") + "]"
	}
	return err
}

// NewIndexOutOfRangeError creates an error for positions outside [-n, n).
func NewIndexOutOfRangeError(op string, index, n int) *TableError {
	return &TableError{
		Kind:    KindLookup,
		Op:      op,
		Message: fmt.Sprintf("index %d out of bounds for size %d", index, n),
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *TableError {
	return &TableError{
		Kind:    KindValue,
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}
