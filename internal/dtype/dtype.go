// Package dtype defines the closed set of column data types and the
// classification of raw Go/Arrow inputs into them.
//
// Raw inputs are first classified into a RawKind, which distinguishes
// fixed-width text ([]string) from opaque object values. Normalize then
// folds the raw kinds into the four DTypes every other package switches on.
package dtype

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/paveg/tisch/internal/errors"
)

// DType is the data type category of a column.
type DType int

const (
	Integer DType = iota
	Float
	Boolean
	Object
)

// String returns the name reported by Table.DTypes.
func (d DType) String() string {
	switch d {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Object:
		return "string"
	default:
		return fmt.Sprintf("dtype(%d)", int(d))
	}
}

// IsNumeric reports whether arithmetic reducers apply without conversion.
func (d DType) IsNumeric() bool {
	return d == Integer || d == Float
}

// ArrowType returns the Arrow storage type used for the category.
func (d DType) ArrowType() arrow.DataType {
	switch d {
	case Integer:
		return arrow.PrimitiveTypes.Int64
	case Float:
		return arrow.PrimitiveTypes.Float64
	case Boolean:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// FromArrow maps a stored Arrow type back to its category.
func FromArrow(dt arrow.DataType) (DType, error) {
	switch dt.ID() {
	case arrow.INT64:
		return Integer, nil
	case arrow.FLOAT64:
		return Float, nil
	case arrow.BOOL:
		return Boolean, nil
	case arrow.STRING:
		return Object, nil
	default:
		return Object, errors.NewTypeErrorf("dtype", "unsupported storage type: %s", dt)
	}
}

// RawKind is the element category of an input before normalization.
type RawKind int

const (
	RawInteger RawKind = iota
	RawFloat
	RawBoolean
	// RawText is fixed-width text storage, i.e. a []string.
	RawText
	// RawObject covers nullable strings and any non-primitive values.
	RawObject
)

// String returns a short name for the raw kind.
func (k RawKind) String() string {
	switch k {
	case RawInteger:
		return "integer"
	case RawFloat:
		return "float"
	case RawBoolean:
		return "boolean"
	case RawText:
		return "text"
	case RawObject:
		return "object"
	default:
		return fmt.Sprintf("rawkind(%d)", int(k))
	}
}

// Normalize folds a raw kind into its DType. Fixed-width text widens to
// Object so later assignments of arbitrary strings and nulls stay valid.
func Normalize(k RawKind) DType {
	switch k {
	case RawInteger:
		return Integer
	case RawFloat:
		return Float
	case RawBoolean:
		return Boolean
	default:
		return Object
	}
}

// Classify returns the raw element kind of a one-dimensional input.
// Shape checks (mapping, dimensionality) belong to the validation package;
// Classify only fails for element types it cannot store.
func Classify(values any) (RawKind, error) {
	switch v := values.(type) {
	case []int, []int8, []int16, []int32, []int64,
		[]uint, []uint8, []uint16, []uint32, []uint64:
		return RawInteger, nil
	case []float32, []float64:
		return RawFloat, nil
	case []bool:
		return RawBoolean, nil
	case []string:
		return RawText, nil
	case []*string:
		return RawObject, nil
	case []any:
		return classifyAny(v), nil
	case arrow.Array:
		return classifyArrow(v.DataType())
	default:
		return RawObject, errors.NewTypeErrorf("dtype", "unsupported element type: %T", values)
	}
}

func classifyArrow(dt arrow.DataType) (RawKind, error) {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return RawInteger, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return RawFloat, nil
	case arrow.BOOL:
		return RawBoolean, nil
	case arrow.STRING:
		return RawObject, nil
	default:
		return RawObject, errors.NewTypeErrorf("dtype", "unsupported arrow type: %s", dt)
	}
}

// classifyAny infers the narrowest kind able to hold every element.
// Integers mixed with floats widen to float; any other mixture is object.
func classifyAny(values []any) RawKind {
	if len(values) == 0 {
		return RawObject
	}

	var ints, floats, bools, strs int
	for _, v := range values {
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ints++
		case float32, float64:
			floats++
		case bool:
			bools++
		case string:
			strs++
		}
	}

	n := len(values)
	switch {
	case ints == n:
		return RawInteger
	case ints+floats == n:
		return RawFloat
	case bools == n:
		return RawBoolean
	case strs == n:
		return RawText
	default:
		return RawObject
	}
}
