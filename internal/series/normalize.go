package series

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch/internal/common"
	"github.com/paveg/tisch/internal/dtype"
	"github.com/paveg/tisch/internal/errors"
)

const opNormalize = "normalize"

// FromValues builds a series from any supported one-dimensional input,
// normalizing its element kind into one of the four storage types.
// The input is never modified; fixed-width text is copied into an object
// column.
func FromValues(name string, values any, mem memory.Allocator) (ISeries, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	kind, err := dtype.Classify(values)
	if err != nil {
		return nil, err
	}

	switch v := values.(type) {
	case []int64:
		return New(name, v, mem), nil
	case []int:
		return New(name, widenInts(v), mem), nil
	case []int8:
		return New(name, widenInts(v), mem), nil
	case []int16:
		return New(name, widenInts(v), mem), nil
	case []int32:
		return New(name, widenInts(v), mem), nil
	case []uint:
		return fromUnsigned(name, v, mem)
	case []uint8:
		return fromUnsigned(name, v, mem)
	case []uint16:
		return fromUnsigned(name, v, mem)
	case []uint32:
		return fromUnsigned(name, v, mem)
	case []uint64:
		return fromUnsigned(name, v, mem)
	case []float64:
		return New(name, v, mem), nil
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return New(name, out, mem), nil
	case []bool:
		return New(name, v, mem), nil
	case []string:
		return New(name, v, mem), nil
	case []*string:
		return NewNullable(name, v, mem), nil
	case []any:
		return fromAny(name, v, dtype.Normalize(kind), mem)
	case arrow.Array:
		return fromArrow(name, v, mem)
	default:
		return nil, errors.NewTypeErrorf(opNormalize, "unsupported element type: %T", values)
	}
}

// Broadcast repeats a scalar n times. Integers of any width become an
// integer column, strings an object column.
func Broadcast(name string, scalar any, n int, mem memory.Allocator) (ISeries, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	switch v := scalar.(type) {
	case bool:
		return New(name, repeat(v, n), mem), nil
	case string:
		return New(name, repeat(v, n), mem), nil
	case float32:
		return New(name, repeat(float64(v), n), mem), nil
	case float64:
		return New(name, repeat(v, n), mem), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := common.ToInt64(v)
		if err != nil {
			return nil, errors.NewValueError(opNormalize, err.Error())
		}
		return New(name, repeat(i, n), mem), nil
	default:
		return nil, errors.NewTypeErrorf(opNormalize, "cannot broadcast value of type %T", scalar)
	}
}

// IsScalar reports whether v can be broadcast into a column.
func IsScalar(v any) bool {
	switch v.(type) {
	case bool, string, float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func repeat[T Element](v T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}

type signed interface {
	int | int8 | int16 | int32 | int64
}

type unsigned interface {
	uint | uint8 | uint16 | uint32 | uint64
}

func widenInts[S signed](values []S) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func fromUnsigned[U unsigned](name string, values []U, mem memory.Allocator) (ISeries, error) {
	out := make([]int64, len(values))
	for i, v := range values {
		n, err := common.ToInt64(v)
		if err != nil {
			return nil, errors.NewColumnValueError(opNormalize, name, err.Error())
		}
		out[i] = n
	}
	return New(name, out, mem), nil
}

func fromAny(name string, values []any, target dtype.DType, mem memory.Allocator) (ISeries, error) {
	switch target {
	case dtype.Integer:
		out := make([]int64, len(values))
		for i, v := range values {
			n, err := common.ToInt64(v)
			if err != nil {
				return nil, errors.NewColumnValueError(opNormalize, name, err.Error())
			}
			out[i] = n
		}
		return New(name, out, mem), nil
	case dtype.Float:
		out := make([]float64, len(values))
		for i, v := range values {
			f, err := common.ToFloat64(v)
			if err != nil {
				return nil, errors.NewColumnValueError(opNormalize, name, err.Error())
			}
			out[i] = f
		}
		return New(name, out, mem), nil
	case dtype.Boolean:
		out := make([]bool, len(values))
		for i, v := range values {
			out[i], _ = v.(bool)
		}
		return New(name, out, mem), nil
	default:
		out := make([]*string, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			s := common.ToString(v)
			out[i] = &s
		}
		return NewNullable(name, out, mem), nil
	}
}

// arrowValuer is the read surface shared by Arrow's primitive arrays.
type arrowValuer[S any] interface {
	Len() int
	IsValid(i int) bool
	Value(i int) S
}

func fromArrow(name string, arr arrow.Array, mem memory.Allocator) (ISeries, error) {
	switch a := arr.(type) {
	case *array.Int64:
		if a.NullN() > 0 {
			return nil, errors.NewColumnValueError(opNormalize, name, "integer columns cannot hold nulls")
		}
		a.Retain()
		return wrap[int64](name, a), nil
	case *array.Float64:
		if a.NullN() > 0 {
			return nullsToNaN(name, a, mem), nil
		}
		a.Retain()
		return wrap[float64](name, a), nil
	case *array.Boolean:
		if a.NullN() > 0 {
			return nil, errors.NewColumnValueError(opNormalize, name, "boolean columns cannot hold nulls")
		}
		a.Retain()
		return wrap[bool](name, a), nil
	case *array.String:
		a.Retain()
		return wrap[string](name, a), nil
	case *array.Int8:
		return arrowInts[int8](name, a, mem)
	case *array.Int16:
		return arrowInts[int16](name, a, mem)
	case *array.Int32:
		return arrowInts[int32](name, a, mem)
	case *array.Uint8:
		return arrowInts[uint8](name, a, mem)
	case *array.Uint16:
		return arrowInts[uint16](name, a, mem)
	case *array.Uint32:
		return arrowInts[uint32](name, a, mem)
	case *array.Uint64:
		return arrowInts[uint64](name, a, mem)
	case *array.Float32:
		out := make([]float64, a.Len())
		for i := range out {
			if a.IsValid(i) {
				out[i] = float64(a.Value(i))
			} else {
				out[i] = math.NaN()
			}
		}
		return New(name, out, mem), nil
	default:
		return nil, errors.NewTypeErrorf(opNormalize, "unsupported arrow type: %s", arr.DataType())
	}
}

// arrowInts converts a narrower Arrow integer array. Integer columns have
// no missing-value marker, so nulls are rejected.
func arrowInts[S signed | unsigned](name string, a arrowValuer[S], mem memory.Allocator) (ISeries, error) {
	out := make([]int64, a.Len())
	for i := range out {
		if !a.IsValid(i) {
			return nil, errors.NewColumnValueError(opNormalize, name, "integer columns cannot hold nulls")
		}
		n, err := common.ToInt64(a.Value(i))
		if err != nil {
			return nil, errors.NewColumnValueError(opNormalize, name, err.Error())
		}
		out[i] = n
	}
	return New(name, out, mem), nil
}

// nullsToNaN rewrites Arrow float nulls as NaN, the float missing marker.
func nullsToNaN(name string, a *array.Float64, mem memory.Allocator) ISeries {
	out := make([]float64, a.Len())
	for i := range out {
		if a.IsValid(i) {
			out[i] = a.Value(i)
		} else {
			out[i] = math.NaN()
		}
	}
	return New(name, out, mem)
}
