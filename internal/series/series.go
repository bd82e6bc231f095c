// Package series provides the typed, Arrow-backed column values of a Table.
package series

import (
	"fmt"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch/internal/dtype"
)

// Element is the set of Go types a column is stored as: int64 for integer,
// float64 for float, bool for boolean and string for object columns.
type Element interface {
	int64 | float64 | bool | string
}

// ISeries provides a type-erased interface for Series of any element type
type ISeries interface {
	Name() string
	Len() int
	DType() dtype.DType
	DataType() arrow.DataType
	IsNull(index int) bool
	IsNA(index int) bool
	NullN() int
	At(index int) any
	GetAsString(index int) string
	Take(positions []int, mem memory.Allocator) ISeries
	Rename(name string) ISeries
	String() string
	Array() arrow.Array
	Release()
}

// Series represents a typed data column with Apache Arrow backend
type Series[T Element] struct {
	name  string
	array arrow.Array
}

// New creates a new Series from a slice of values. A []string becomes an
// object column with every element present.
func New[T Element](name string, values []T, mem memory.Allocator) *Series[T] {
	return newWithValidity(name, values, nil, mem)
}

// NewNullable creates an object Series where nil entries are the null marker.
func NewNullable(name string, values []*string, mem memory.Allocator) *Series[string] {
	strs := make([]string, len(values))
	valid := make([]bool, len(values))
	for i, v := range values {
		if v != nil {
			strs[i] = *v
			valid[i] = true
		}
	}
	return newWithValidity(name, strs, valid, mem)
}

func newWithValidity[T Element](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &Series[T]{
		name:  name,
		array: buildArray(values, valid, mem),
	}
}

// wrap adopts an existing array reference. The caller transfers one reference.
func wrap[T Element](name string, arr arrow.Array) *Series[T] {
	return &Series[T]{name: name, array: arr}
}

func buildArray[T Element](values []T, valid []bool, mem memory.Allocator) arrow.Array {
	switch v := any(values).(type) {
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, valid)
		return builder.NewArray()
	default:
		panic(fmt.Sprintf("unsupported type: %T", values))
	}
}

// valueAt reads position i of a stored array as T.
func valueAt[T Element](arr arrow.Array, i int) T {
	var out any
	switch a := arr.(type) {
	case *array.Int64:
		out = a.Value(i)
	case *array.Float64:
		out = a.Value(i)
	case *array.Boolean:
		out = a.Value(i)
	case *array.String:
		out = a.Value(i)
	}
	v, _ := out.(T)
	return v
}

// Name returns the column name
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the length of the series
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Values returns the data as a Go slice. Null object entries read as "".
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())
	for i := range result {
		result[i] = valueAt[T](s.array, i)
	}
	return result
}

// Value returns the value at the given index
func (s *Series[T]) Value(index int) T {
	if index < 0 || index >= s.array.Len() {
		var zero T
		return zero
	}
	return valueAt[T](s.array, index)
}

// DataType returns the Arrow data type
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// DType returns the column's category.
func (s *Series[T]) DType() dtype.DType {
	d, _ := dtype.FromArrow(s.array.DataType())
	return d
}

// IsNull checks if the value at index is the null marker
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// NullN returns the number of null entries.
func (s *Series[T]) NullN() int {
	return s.array.NullN()
}

// IsNA reports a missing value: the null marker for object columns,
// NaN for float columns. Integer and boolean values are never missing.
func (s *Series[T]) IsNA(index int) bool {
	switch a := s.array.(type) {
	case *array.Float64:
		return math.IsNaN(a.Value(index))
	case *array.String:
		return a.IsNull(index)
	default:
		return false
	}
}

// At returns the element at index as int64, float64, bool or string,
// or nil for the null marker.
func (s *Series[T]) At(index int) any {
	if s.array.IsNull(index) {
		return nil
	}
	return valueAt[T](s.array, index)
}

// GetAsString formats the element at index; the null marker reads "None".
func (s *Series[T]) GetAsString(index int) string {
	if s.array.IsNull(index) {
		return "None"
	}
	switch v := any(valueAt[T](s.array, index)).(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Take builds an independent series holding the elements at positions,
// in the given order. Positions must already be in range.
func (s *Series[T]) Take(positions []int, mem memory.Allocator) ISeries {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	values := make([]T, len(positions))
	var valid []bool
	if s.array.NullN() > 0 {
		valid = make([]bool, len(positions))
	}

	for i, p := range positions {
		values[i] = valueAt[T](s.array, p)
		if valid != nil {
			valid[i] = s.array.IsValid(p)
		}
	}

	return newWithValidity(s.name, values, valid, mem)
}

// Rename returns a series sharing this one's array under a new name.
func (s *Series[T]) Rename(name string) ISeries {
	s.array.Retain()
	return wrap[T](name, s.array)
}

// String returns a string representation of the series
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)", s.DType(), s.name, s.Len())
}

// Array returns the underlying Arrow array (retains a reference)
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}
