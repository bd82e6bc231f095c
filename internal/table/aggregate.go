package table

import (
	"math"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch/internal/dtype"
	"github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/series"
	"golang.org/x/exp/constraints"
)

// AggOp is a column reduction.
type AggOp int

const (
	AggMin AggOp = iota
	AggMax
	AggMean
	AggMedian
	AggSum
	AggVar
	AggStd
	AggAll
	AggAny
	AggArgMax
	AggArgMin
)

var aggNames = [...]string{
	AggMin:    "min",
	AggMax:    "max",
	AggMean:   "mean",
	AggMedian: "median",
	AggSum:    "sum",
	AggVar:    "var",
	AggStd:    "std",
	AggAll:    "all",
	AggAny:    "any",
	AggArgMax: "argmax",
	AggArgMin: "argmin",
}

func (op AggOp) String() string {
	if op < 0 || int(op) >= len(aggNames) {
		return "unknown"
	}
	return aggNames[op]
}

// ParseAggOp looks up a reduction by its lower-case name.
func ParseAggOp(name string) (AggOp, error) {
	for op, n := range aggNames {
		if strings.EqualFold(n, name) {
			return AggOp(op), nil
		}
	}
	return 0, errors.NewValueErrorf("ParseAggOp", "unknown aggregation %q", name)
}

// number is the element set the arithmetic reducers work on.
type number interface {
	constraints.Integer | constraints.Float
}

// Aggregate reduces every column with op and returns a one-row table.
// Columns whose type the reduction does not apply to are left out of the
// result; an empty input to min, max, argmin or argmax is a value error.
func (t *Table) Aggregate(op AggOp) (*Table, error) {
	cols := make([]series.ISeries, 0, t.Width())
	for _, name := range t.store.order {
		col := t.store.columns[name]
		out, ok, err := reduceColumn(op, col, t.mem)
		if err != nil {
			releaseAll(cols)
			return nil, err
		}
		if !ok {
			t.logger.Debug("aggregation not applicable", "op", op.String(), "column", name, "dtype", col.DType().String())
			continue
		}
		cols = append(cols, out)
	}
	return t.adopt(cols), nil
}

// Min returns the smallest value of each column.
func (t *Table) Min() (*Table, error) { return t.Aggregate(AggMin) }

// Max returns the largest value of each column.
func (t *Table) Max() (*Table, error) { return t.Aggregate(AggMax) }

// Mean returns the arithmetic mean of each numeric or boolean column.
func (t *Table) Mean() (*Table, error) { return t.Aggregate(AggMean) }

// Median returns the median of each numeric or boolean column.
func (t *Table) Median() (*Table, error) { return t.Aggregate(AggMedian) }

// Sum returns the total of each numeric or boolean column. Booleans count
// as 0 and 1.
func (t *Table) Sum() (*Table, error) { return t.Aggregate(AggSum) }

// Var returns the population variance of each numeric or boolean column.
func (t *Table) Var() (*Table, error) { return t.Aggregate(AggVar) }

// Std returns the population standard deviation.
func (t *Table) Std() (*Table, error) { return t.Aggregate(AggStd) }

// All reports whether every value of each column is truthy.
func (t *Table) All() (*Table, error) { return t.Aggregate(AggAll) }

// Any reports whether some value of each column is truthy.
func (t *Table) Any() (*Table, error) { return t.Aggregate(AggAny) }

// ArgMax returns the position of the first largest value of each column.
func (t *Table) ArgMax() (*Table, error) { return t.Aggregate(AggArgMax) }

// ArgMin returns the position of the first smallest value of each column.
func (t *Table) ArgMin() (*Table, error) { return t.Aggregate(AggArgMin) }

// reduceColumn applies op to col. ok is false when op does not apply to the
// column's type.
func reduceColumn(op AggOp, col series.ISeries, mem memory.Allocator) (out series.ISeries, ok bool, err error) {
	name := col.Name()

	switch col.DType() {
	case dtype.Integer:
		return reduceNumbers(op, name, col.(*series.Series[int64]).Values(), mem)
	case dtype.Float:
		return reduceNumbers(op, name, col.(*series.Series[float64]).Values(), mem)
	case dtype.Boolean:
		return reduceBools(op, name, col.(*series.Series[bool]).Values(), mem)
	case dtype.Object:
		return reduceObjects(op, col.(*series.Series[string]), mem)
	default:
		return nil, false, nil
	}
}

func reduceNumbers[T int64 | float64](op AggOp, name string, values []T, mem memory.Allocator) (series.ISeries, bool, error) {
	switch op {
	case AggMin, AggMax:
		if len(values) == 0 {
			return nil, false, emptyReduction(op, name)
		}
		pos := argExtreme(values, op == AggMax)
		return series.New(name, []T{values[pos]}, mem), true, nil
	case AggArgMin, AggArgMax:
		if len(values) == 0 {
			return nil, false, emptyReduction(op, name)
		}
		pos := argExtreme(values, op == AggArgMax)
		return series.New(name, []int64{int64(pos)}, mem), true, nil
	case AggSum:
		return series.New(name, []T{sum(values)}, mem), true, nil
	case AggMean:
		return floatResult(name, mean(values), mem)
	case AggMedian:
		return floatResult(name, median(values), mem)
	case AggVar:
		return floatResult(name, variance(values), mem)
	case AggStd:
		return floatResult(name, math.Sqrt(variance(values)), mem)
	case AggAll:
		return boolResult(name, allOf(values, func(v T) bool { return v != 0 }), mem)
	case AggAny:
		return boolResult(name, anyOf(values, func(v T) bool { return v != 0 }), mem)
	default:
		return nil, false, nil
	}
}

// reduceBools treats true as 1 and false as 0; min and max stay boolean.
func reduceBools(op AggOp, name string, values []bool, mem memory.Allocator) (series.ISeries, bool, error) {
	truthy := func(v bool) bool { return v }

	switch op {
	case AggMin, AggMax:
		if len(values) == 0 {
			return nil, false, emptyReduction(op, name)
		}
		if op == AggMin {
			return boolResult(name, allOf(values, truthy), mem)
		}
		return boolResult(name, anyOf(values, truthy), mem)
	case AggAll:
		return boolResult(name, allOf(values, truthy), mem)
	case AggAny:
		return boolResult(name, anyOf(values, truthy), mem)
	default:
		ints := make([]int64, len(values))
		for i, v := range values {
			if v {
				ints[i] = 1
			}
		}
		return reduceNumbers(op, name, ints, mem)
	}
}

// reduceObjects orders strings lexically and sums them by concatenation.
// Neither is defined when the column holds the null marker, so min, max,
// sum, argmin and argmax only apply to columns without nulls. A string is
// truthy when present and non-empty.
func reduceObjects(op AggOp, col *series.Series[string], mem memory.Allocator) (series.ISeries, bool, error) {
	name := col.Name()

	switch op {
	case AggMin, AggMax, AggArgMin, AggArgMax:
		if col.NullN() > 0 {
			return nil, false, nil
		}
		values := col.Values()
		if len(values) == 0 {
			return nil, false, emptyReduction(op, name)
		}
		wantMax := op == AggMax || op == AggArgMax
		pos := argExtreme(values, wantMax)
		if op == AggMin || op == AggMax {
			return series.New(name, []string{values[pos]}, mem), true, nil
		}
		return series.New(name, []int64{int64(pos)}, mem), true, nil
	case AggSum:
		if col.NullN() > 0 {
			return nil, false, nil
		}
		return series.New(name, []string{strings.Join(col.Values(), "")}, mem), true, nil
	case AggAll, AggAny:
		truthy := make([]bool, col.Len())
		for i := range truthy {
			truthy[i] = !col.IsNull(i) && col.Value(i) != ""
		}
		return reduceBools(op, name, truthy, mem)
	default:
		return nil, false, nil
	}
}

func emptyReduction(op AggOp, column string) error {
	return errors.NewColumnValueError(op.String(), column,
		"attempt to get "+op.String()+" of an empty sequence")
}

func floatResult(name string, v float64, mem memory.Allocator) (series.ISeries, bool, error) {
	return series.New(name, []float64{v}, mem), true, nil
}

func boolResult(name string, v bool, mem memory.Allocator) (series.ISeries, bool, error) {
	return series.New(name, []bool{v}, mem), true, nil
}

// argExtreme returns the position of the first smallest or largest value.
// A NaN compares unequal to itself and wins as soon as it is seen.
func argExtreme[T constraints.Ordered](values []T, wantMax bool) int {
	best := 0
	for i, v := range values {
		if v != v {
			return i
		}
		if (wantMax && v > values[best]) || (!wantMax && v < values[best]) {
			best = i
		}
	}
	return best
}

func sum[T number](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

func mean[T number](values []T) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var total float64
	for _, v := range values {
		total += float64(v)
	}
	return total / float64(len(values))
}

func median[T number](values []T) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) {
			return math.NaN()
		}
		sorted[i] = f
	}
	slices.Sort(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// variance is the population variance (divisor n).
func variance[T number](values []T) float64 {
	m := mean(values)
	if math.IsNaN(m) {
		return m
	}
	var ss float64
	for _, v := range values {
		d := float64(v) - m
		ss += d * d
	}
	return ss / float64(len(values))
}

func allOf[T any](values []T, pred func(T) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func anyOf[T any](values []T, pred func(T) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}
