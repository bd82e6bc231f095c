// Package validation enforces the structural invariants of a Table: the
// shape of constructor input, equal column lengths, and the rules for
// column names on construction and rename.
package validation

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/tisch/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// Field is one named column of raw constructor input.
type Field struct {
	Name   string
	Values any
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

// NewColumnValidator creates a validator for column lookups
func NewColumnValidator(df ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		df:      df,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all columns exist in the Table
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.df.HasColumn(column) {
			return errors.NewColumnNotFoundError(v.op, column, v.df.Columns())
		}
	}
	return nil
}

// LengthValidator validates that every length equals the first one.
type LengthValidator struct {
	names   []string
	lengths []int
	op      string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(op string, names []string, lengths []int) *LengthValidator {
	return &LengthValidator{
		names:   names,
		lengths: lengths,
		op:      op,
	}
}

// Validate checks every length against the first. Zero or one column
// trivially passes.
func (v *LengthValidator) Validate() error {
	for i := 1; i < len(v.lengths); i++ {
		if v.lengths[i] != v.lengths[0] {
			column := ""
			if i < len(v.names) {
				column = v.names[i]
			}
			return errors.NewColumnValueError(v.op, column,
				fmt.Sprintf("all arrays must be of the same length: expected %d, got %d", v.lengths[0], v.lengths[i]))
		}
	}
	return nil
}

// NameValidator validates that column names are non-empty and unique.
type NameValidator struct {
	names []string
	op    string
}

// NewNameValidator creates a validator for a set of column names
func NewNameValidator(op string, names []string) *NameValidator {
	return &NameValidator{names: names, op: op}
}

// Validate rejects empty and duplicate names.
func (v *NameValidator) Validate() error {
	seen := make(map[string]struct{}, len(v.names))
	for _, name := range v.names {
		if name == "" {
			return errors.NewValueError(v.op, "column names must be non-empty strings")
		}
		if _, dup := seen[name]; dup {
			return errors.NewColumnValueError(v.op, name, "column names must not have duplicates")
		}
		seen[name] = struct{}{}
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

// ValidateInput checks that raw is a mapping from string to one-dimensional
// array-like values and returns its entries in column order.
//
// Accepted mappings are []Field (ordered as given) and Go maps with string
// keys, whose entries are taken in sorted key order.
func ValidateInput(op string, raw any) ([]Field, error) {
	fields, err := mappingFields(op, raw)
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		if err := ValidateArrayLike(op, f.Name, f.Values); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func mappingFields(op string, raw any) ([]Field, error) {
	switch m := raw.(type) {
	case []Field:
		return append([]Field(nil), m...), nil
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = Field{Name: k, Values: m[k]}
		}
		return fields, nil
	}

	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, errors.NewTypeError(op, "input type is not a mapping")
	}

	fields := make([]Field, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key()
		if key.Kind() == reflect.Interface {
			key = key.Elem()
		}
		if !key.IsValid() || key.Kind() != reflect.String {
			return nil, errors.NewTypeError(op, "mapping keys must be strings")
		}
		fields = append(fields, Field{Name: key.String(), Values: iter.Value().Interface()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields, nil
}

// ValidateArrayLike checks that values is a one-dimensional array-like:
// a Go slice or an Arrow array. Non-array values are a type
// error; nested slices and nested Arrow arrays are a value error.
func ValidateArrayLike(op, column string, values any) error {
	if arr, ok := values.(arrow.Array); ok {
		if nestedArrow(arr.DataType()) {
			return errors.NewColumnValueError(op, column,
				fmt.Sprintf("values must be a 1-dimensional array, got Arrow %s", arr.DataType()))
		}
		return nil
	}

	rv := reflect.ValueOf(values)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return &errors.TableError{
			Kind:    errors.KindType,
			Op:      op,
			Column:  column,
			Message: fmt.Sprintf("values must be an array, got %T", values),
		}
	}

	if ndim(rv) != 1 {
		return errors.NewColumnValueError(op, column, "values must be a 1-dimensional array")
	}
	return nil
}

// nestedArrow reports whether an Arrow type holds a sequence or record
// per element.
func nestedArrow(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST,
		arrow.LIST_VIEW, arrow.LARGE_LIST_VIEW, arrow.STRUCT, arrow.MAP:
		return true
	default:
		return false
	}
}

// ndim returns 1 for flat sequences and 2 when any element is itself a
// sequence. Deeper nesting is not distinguished.
func ndim(rv reflect.Value) int {
	switch rv.Type().Elem().Kind() {
	case reflect.Slice, reflect.Array:
		return 2
	case reflect.Interface:
		for i := 0; i < rv.Len(); i++ {
			e := rv.Index(i).Elem()
			if e.IsValid() && (e.Kind() == reflect.Slice || e.Kind() == reflect.Array) {
				return 2
			}
		}
	}
	return 1
}

// ValidateColumnRename checks a replacement list of column names. The
// checks run in order: list type, length, element type, duplicates.
func ValidateColumnRename(op string, current int, names any) ([]string, error) {
	var out []string
	switch v := names.(type) {
	case []string:
		if len(v) != current {
			return nil, renameLengthError(op, current, len(v))
		}
		out = append([]string(nil), v...)
	case []any:
		if len(v) != current {
			return nil, renameLengthError(op, current, len(v))
		}
		out = make([]string, len(v))
		for i, n := range v {
			s, ok := n.(string)
			if !ok {
				return nil, errors.NewTypeErrorf(op, "column names must be strings, got %T", n)
			}
			out[i] = s
		}
	default:
		return nil, errors.NewTypeErrorf(op, "columns must be a list, got %T", names)
	}

	if err := NewNameValidator(op, out).Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func renameLengthError(op string, current, got int) error {
	return errors.NewValueErrorf(op, "new column list must be of same length as old list: expected %d, got %d", current, got)
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(df ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(df, op, columns...).Validate()
}

// ValidateLengths is a convenience function for length validation
func ValidateLengths(op string, names []string, lengths []int) error {
	return NewLengthValidator(op, names, lengths).Validate()
}

// ValidateNames is a convenience function for name validation
func ValidateNames(op string, names []string) error {
	return NewNameValidator(op, names).Validate()
}
