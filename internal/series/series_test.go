package series

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch/internal/dtype"
	"github.com/paveg/tisch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeries(t *testing.T) {
	mem := memory.NewGoAllocator()

	tests := []struct {
		name          string
		columnName    string
		data          any
		expectedLen   int
		expectedDType dtype.DType
	}{
		{"string series", "names", []string{"alice", "bob", "charlie"}, 3, dtype.Object},
		{"int64 series", "ages", []int64{25, 30, 35}, 3, dtype.Integer},
		{"float64 series", "scores", []float64{85.5, 92.0, 78.3}, 3, dtype.Float},
		{"bool series", "active", []bool{true, false, true}, 3, dtype.Boolean},
		{"empty string series", "empty", []string{}, 0, dtype.Object},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ISeries
			switch data := tt.data.(type) {
			case []string:
				s = New(tt.columnName, data, mem)
			case []int64:
				s = New(tt.columnName, data, mem)
			case []float64:
				s = New(tt.columnName, data, mem)
			case []bool:
				s = New(tt.columnName, data, mem)
			}
			defer s.Release()

			assert.Equal(t, tt.columnName, s.Name())
			assert.Equal(t, tt.expectedLen, s.Len())
			assert.Equal(t, tt.expectedDType, s.DType())
		})
	}
}

func TestSeriesValues(t *testing.T) {
	s := New("x", []int64{1, 2, 3}, nil)
	defer s.Release()

	assert.Equal(t, []int64{1, 2, 3}, s.Values())
	assert.Equal(t, int64(2), s.Value(1))
	assert.Equal(t, int64(0), s.Value(10))
	assert.Equal(t, int64(3), s.At(2))
	assert.Equal(t, "Series[integer]: x (len=3)", s.String())
}

func TestNullableObjectSeries(t *testing.T) {
	a, b := "a", "b"
	s := NewNullable("obj", []*string{&a, nil, &b}, nil)
	defer s.Release()

	assert.Equal(t, dtype.Object, s.DType())
	assert.Equal(t, 1, s.NullN())
	assert.True(t, s.IsNull(1))
	assert.True(t, s.IsNA(1))
	assert.False(t, s.IsNA(0))
	assert.Nil(t, s.At(1))
	assert.Equal(t, "None", s.GetAsString(1))
	assert.Equal(t, "b", s.At(2))
}

func TestFloatIsNA(t *testing.T) {
	s := New("f", []float64{1, math.NaN()}, nil)
	defer s.Release()

	assert.False(t, s.IsNA(0))
	assert.True(t, s.IsNA(1))
}

func TestTakeIsIndependent(t *testing.T) {
	a, c := "a", "c"
	s := NewNullable("obj", []*string{&a, nil, &c}, nil)
	defer s.Release()

	taken := s.Take([]int{2, 1, 2}, nil)
	defer taken.Release()

	assert.Equal(t, 3, taken.Len())
	assert.Equal(t, "c", taken.At(0))
	assert.Nil(t, taken.At(1))
	assert.Equal(t, "c", taken.At(2))
	assert.Equal(t, "obj", taken.Name())

	// the source is untouched
	assert.Equal(t, "a", s.At(0))
}

func TestRenameSharesData(t *testing.T) {
	s := New("a", []bool{true, false}, nil)
	defer s.Release()

	r := s.Rename("b")
	defer r.Release()

	assert.Equal(t, "b", r.Name())
	assert.Equal(t, "a", s.Name())
	assert.Equal(t, false, r.At(1))
}

func TestGetAsString(t *testing.T) {
	f := New("f", []float64{0.5}, nil)
	defer f.Release()
	b := New("b", []bool{true}, nil)
	defer b.Release()

	assert.Equal(t, "0.5", f.GetAsString(0))
	assert.Equal(t, "True", b.GetAsString(0))
}

func TestFromValues(t *testing.T) {
	s := "s"
	tests := []struct {
		name     string
		values   any
		expected dtype.DType
		first    any
	}{
		{"ints", []int{4, 5}, dtype.Integer, int64(4)},
		{"int8", []int8{-1}, dtype.Integer, int64(-1)},
		{"uint16", []uint16{9}, dtype.Integer, int64(9)},
		{"float32", []float32{0.5}, dtype.Float, 0.5},
		{"bools", []bool{true}, dtype.Boolean, true},
		{"text widened", []string{"aa", "bb"}, dtype.Object, "aa"},
		{"nullable", []*string{nil, &s}, dtype.Object, nil},
		{"any ints", []any{1, int32(2)}, dtype.Integer, int64(1)},
		{"any numeric", []any{1, 2.5}, dtype.Float, 1.0},
		{"any mixed", []any{"x", 3, nil}, dtype.Object, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromValues("c", tt.values, nil)
			require.NoError(t, err)
			defer got.Release()

			assert.Equal(t, tt.expected, got.DType())
			assert.Equal(t, tt.first, got.At(0))
		})
	}
}

func TestFromValuesMixedObjectStringifies(t *testing.T) {
	got, err := FromValues("c", []any{"x", 3, nil}, nil)
	require.NoError(t, err)
	defer got.Release()

	assert.Equal(t, "3", got.At(1))
	assert.Nil(t, got.At(2))
}

func TestFromValuesDoesNotMutateInput(t *testing.T) {
	input := []string{"a", "b"}
	got, err := FromValues("c", input, nil)
	require.NoError(t, err)
	defer got.Release()

	assert.Equal(t, []string{"a", "b"}, input)
}

func TestFromValuesErrors(t *testing.T) {
	_, err := FromValues("c", []complex64{1}, nil)
	assert.ErrorIs(t, err, errors.ErrType)

	_, err = FromValues("c", []uint64{math.MaxUint64}, nil)
	assert.ErrorIs(t, err, errors.ErrValue)
}

func TestFromArrowArrays(t *testing.T) {
	mem := memory.NewGoAllocator()

	b := array.NewInt16Builder(mem)
	defer b.Release()
	b.AppendValues([]int16{1, 2}, nil)
	arr := b.NewArray()
	defer arr.Release()

	got, err := FromValues("i", arr, mem)
	require.NoError(t, err)
	defer got.Release()
	assert.Equal(t, arrow.PrimitiveTypes.Int64, got.DataType())
	assert.Equal(t, int64(2), got.At(1))

	fb := array.NewFloat64Builder(mem)
	defer fb.Release()
	fb.AppendValues([]float64{1, 0}, []bool{true, false})
	farr := fb.NewArray()
	defer farr.Release()

	fs, err := FromValues("f", farr, mem)
	require.NoError(t, err)
	defer fs.Release()
	assert.True(t, fs.IsNA(1))

	nb := array.NewInt32Builder(mem)
	defer nb.Release()
	nb.AppendNull()
	narr := nb.NewArray()
	defer narr.Release()

	_, err = FromValues("n", narr, mem)
	assert.ErrorIs(t, err, errors.ErrValue)
}

func TestBroadcast(t *testing.T) {
	tests := []struct {
		name     string
		scalar   any
		expected dtype.DType
	}{
		{"int", 5, dtype.Integer},
		{"uint8", uint8(5), dtype.Integer},
		{"float", 2.5, dtype.Float},
		{"bool", true, dtype.Boolean},
		{"string", "x", dtype.Object},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Broadcast("d", tt.scalar, 4, nil)
			require.NoError(t, err)
			defer s.Release()
			assert.Equal(t, 4, s.Len())
			assert.Equal(t, tt.expected, s.DType())
			assert.True(t, IsScalar(tt.scalar))
		})
	}

	_, err := Broadcast("d", []int{1}, 4, nil)
	assert.ErrorIs(t, err, errors.ErrType)
	assert.False(t, IsScalar(nil))
}

func TestCheckedAllocatorReleasesEverything(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	s, err := FromValues("c", []string{"x", "y", "z"}, mem)
	require.NoError(t, err)
	taken := s.Take([]int{0, 2}, mem)
	renamed := taken.Rename("d")

	s.Release()
	taken.Release()
	renamed.Release()
}
