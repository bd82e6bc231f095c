// Package tisch provides an in-memory columnar table for interactive
// exploration: construction from named one-dimensional arrays, bracket-style
// selection, column assignment, per-column reductions, counting and
// text/HTML rendering.
// This package is the sole public API for the library.
package tisch

import (
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch/internal/config"
	"github.com/paveg/tisch/internal/dtype"
	"github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/series"
	"github.com/paveg/tisch/internal/table"
)

// ISeries provides a type-erased interface for a column.
type ISeries = series.ISeries

// DType is the category of a column's values.
type DType = dtype.DType

const (
	Integer = dtype.Integer
	Float   = dtype.Float
	Boolean = dtype.Boolean
	Object  = dtype.Object
)

// Field is one named column of constructor input.
type Field = table.Field

// Data is ordered constructor input.
type Data = table.Data

// Option configures a Table at construction.
type Option = table.Option

// Config holds display and selection settings.
type Config = config.Config

// Index expressions and their row and column parts.
type (
	Index        = table.Index
	Label        = table.Label
	Labels       = table.Labels
	RowCol       = table.RowCol
	RowSelector  = table.RowSelector
	RowPosition  = table.RowPosition
	RowPositions = table.RowPositions
	RowBools     = table.RowBools
	ColSelector  = table.ColSelector
	ColPosition  = table.ColPosition
	ColLabel     = table.ColLabel
	ColLabels    = table.ColLabels
	ColPositions = table.ColPositions
	ColMixed     = table.ColMixed
	Slice        = table.Slice
	Tuple        = table.Tuple
)

// AggOp is a column reduction.
type AggOp = table.AggOp

const (
	AggMin    = table.AggMin
	AggMax    = table.AggMax
	AggMean   = table.AggMean
	AggMedian = table.AggMedian
	AggSum    = table.AggSum
	AggVar    = table.AggVar
	AggStd    = table.AggStd
	AggAll    = table.AggAll
	AggAny    = table.AggAny
	AggArgMax = table.AggArgMax
	AggArgMin = table.AggArgMin
)

// TableError is the error type returned by every failing operation.
type TableError = errors.TableError

// Sentinels for errors.Is: every TableError matches the one of its kind.
var (
	ErrType   = errors.ErrType
	ErrValue  = errors.ErrValue
	ErrLookup = errors.ErrLookup
)

// Table is the public type for a table.
// It wraps the internal table.Table to hide implementation details.
type Table struct {
	t *table.Table
}

// WithAllocator sets the Arrow allocator for the table and its results.
func WithAllocator(mem memory.Allocator) Option { return table.WithAllocator(mem) }

// WithConfig overrides the global configuration for one table.
func WithConfig(cfg Config) Option { return table.WithConfig(cfg) }

// WithLogger attaches a logger that records selections and mutations at
// debug level.
func WithLogger(logger *slog.Logger) Option { return table.WithLogger(logger) }

// NewConfig returns the default configuration.
func NewConfig() Config { return config.NewConfig() }

// SetConfig replaces the global configuration used by new tables. Zero
// fields take their defaults; an invalid config is rejected.
func SetConfig(cfg Config) error { return config.SetGlobalConfig(cfg) }

// New builds a Table from a mapping of column name to values. raw may be
// a Data for explicit column order, or a map keyed by strings, ordered by
// name.
func New(raw any, opts ...Option) (*Table, error) {
	t, err := table.New(raw, opts...)
	if err != nil {
		return nil, err
	}
	return &Table{t: t}, nil
}

// FromSeries builds a Table from existing columns, taking ownership of them.
func FromSeries(cols []ISeries, opts ...Option) (*Table, error) {
	t, err := table.FromSeries(cols, opts...)
	if err != nil {
		return nil, err
	}
	return &Table{t: t}, nil
}

// NewSeries creates a new typed column from values.
func NewSeries[T series.Element](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// NewNullableSeries creates an object column where nil entries are null.
func NewNullableSeries(name string, values []*string, mem memory.Allocator) ISeries {
	return series.NewNullable(name, values, mem)
}

// Span returns the slice [start:stop].
func Span(start, stop any) Slice { return table.Span(start, stop) }

// All returns the slice selecting everything.
func All() Slice { return table.All() }

// MaskBy returns the index filtering rows by a one-column boolean table.
func MaskBy(mask *Table) Index {
	return table.Mask{Table: mask.inner()}
}

// RowsWhere returns the row selector keeping rows where mask is true.
func RowsWhere(mask *Table) RowSelector {
	return table.RowMask{Table: mask.inner()}
}

// ParseAggOp looks up a reduction by name.
func ParseAggOp(name string) (AggOp, error) { return table.ParseAggOp(name) }

func (d *Table) inner() *table.Table {
	if d == nil {
		return nil
	}
	return d.t
}

func wrap(t *table.Table, err error) (*Table, error) {
	if err != nil {
		return nil, err
	}
	return &Table{t: t}, nil
}

func wrapAll(ts []*table.Table) []*Table {
	out := make([]*Table, len(ts))
	for i, t := range ts {
		out[i] = &Table{t: t}
	}
	return out
}

// unwrap replaces public tables inside an index or value with the
// internal ones the engine understands.
func unwrap(v any) any {
	switch x := v.(type) {
	case *Table:
		return x.inner()
	case Tuple:
		out := make(Tuple, len(x))
		for i, e := range x {
			out[i] = unwrap(e)
		}
		return out
	default:
		return v
	}
}

// Table methods

// Columns returns the column names in order.
func (d *Table) Columns() []string { return d.t.Columns() }

// SetColumns renames every column positionally.
func (d *Table) SetColumns(names any) error { return d.t.SetColumns(names) }

// Len returns the number of rows.
func (d *Table) Len() int { return d.t.Len() }

// Width returns the number of columns.
func (d *Table) Width() int { return d.t.Width() }

// Shape returns the row and column counts.
func (d *Table) Shape() (rows, cols int) { return d.t.Shape() }

// Column returns the column with the given name.
func (d *Table) Column(name string) (ISeries, bool) { return d.t.Column(name) }

// HasColumn checks if a column exists.
func (d *Table) HasColumn(name string) bool { return d.t.HasColumn(name) }

// DType returns the category of the named column.
func (d *Table) DType(name string) (DType, error) { return d.t.DType(name) }

// DTypes lists every column with the name of its type.
func (d *Table) DTypes() *Table { return &Table{t: d.t.DTypes()} }

// Values returns the table as rows of cells.
func (d *Table) Values() [][]any { return d.t.Values() }

// Get selects with a column name, a list of names, a one-column boolean
// Table, a Tuple of rows and columns, or a typed Index.
func (d *Table) Get(index any) (*Table, error) { return wrap(d.t.Get(unwrap(index))) }

// Loc selects rows and columns together.
func (d *Table) Loc(rows, cols any) (*Table, error) {
	return wrap(d.t.Loc(unwrap(rows), unwrap(cols)))
}

// Select resolves a typed index.
func (d *Table) Select(idx Index) (*Table, error) { return wrap(d.t.Select(idx)) }

// Head returns the first n rows.
func (d *Table) Head(n ...int) (*Table, error) { return wrap(d.t.Head(n...)) }

// Tail returns the last n rows.
func (d *Table) Tail(n ...int) (*Table, error) { return wrap(d.t.Tail(n...)) }

// Set assigns an array, one-column Table or scalar to a column.
func (d *Table) Set(key any, value any) error { return d.t.Set(key, unwrap(value)) }

// Aggregate reduces every applicable column with op.
func (d *Table) Aggregate(op AggOp) (*Table, error) { return wrap(d.t.Aggregate(op)) }

// Min returns the smallest value of each column.
func (d *Table) Min() (*Table, error) { return wrap(d.t.Min()) }

// Max returns the largest value of each column.
func (d *Table) Max() (*Table, error) { return wrap(d.t.Max()) }

// Mean returns the mean of each numeric column.
func (d *Table) Mean() (*Table, error) { return wrap(d.t.Mean()) }

// Median returns the median of each numeric column.
func (d *Table) Median() (*Table, error) { return wrap(d.t.Median()) }

// Sum returns the total of each numeric column.
func (d *Table) Sum() (*Table, error) { return wrap(d.t.Sum()) }

// Var returns the population variance of each numeric column.
func (d *Table) Var() (*Table, error) { return wrap(d.t.Var()) }

// Std returns the population standard deviation of each numeric column.
func (d *Table) Std() (*Table, error) { return wrap(d.t.Std()) }

// All reports whether every value of each column is truthy.
func (d *Table) All() (*Table, error) { return wrap(d.t.All()) }

// Any reports whether some value of each column is truthy.
func (d *Table) Any() (*Table, error) { return wrap(d.t.Any()) }

// ArgMax returns the position of the largest value of each column.
func (d *Table) ArgMax() (*Table, error) { return wrap(d.t.ArgMax()) }

// ArgMin returns the position of the smallest value of each column.
func (d *Table) ArgMin() (*Table, error) { return wrap(d.t.ArgMin()) }

// IsNA marks missing values.
func (d *Table) IsNA() *Table { return &Table{t: d.t.IsNA()} }

// Count returns the number of non-missing values per column.
func (d *Table) Count() *Table { return &Table{t: d.t.Count()} }

// Unique returns one table of distinct values per column.
func (d *Table) Unique() []*Table { return wrapAll(d.t.Unique()) }

// NUnique returns the number of distinct values per column.
func (d *Table) NUnique() *Table { return &Table{t: d.t.NUnique()} }

// ValueCounts returns per-column frequency tables.
func (d *Table) ValueCounts(normalize bool) ([]*Table, error) {
	ts, err := d.t.ValueCounts(normalize)
	if err != nil {
		return nil, err
	}
	return wrapAll(ts), nil
}

// String returns a short summary of the table.
func (d *Table) String() string { return d.t.String() }

// Text renders the table as an aligned text grid.
func (d *Table) Text() string { return d.t.Text() }

// HTML renders the table as an HTML table.
func (d *Table) HTML() string { return d.t.HTML() }

// Release releases all underlying Arrow memory.
func (d *Table) Release() { d.t.Release() }
