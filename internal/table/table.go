// Package table provides the in-memory columnar Table: an ordered mapping
// from unique column names to equal-length, homogeneously typed columns,
// with bracket-style selection, column assignment, aggregation and
// counting on top.
//
// A Table is not safe for concurrent mutation. Callers sharing one across
// goroutines must hold an exclusive lock around Set and SetColumns.
package table

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch/internal/config"
	"github.com/paveg/tisch/internal/display"
	"github.com/paveg/tisch/internal/dtype"
	"github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/series"
	"github.com/paveg/tisch/internal/validation"
)

// Field is one named column of constructor input.
type Field = validation.Field

// Data is ordered constructor input: the columns appear in the order given.
type Data = []Field

// Table represents a table of data with typed columns
type Table struct {
	store  *columnStore
	mem    memory.Allocator
	cfg    config.Config
	logger *slog.Logger

	optErr error // set by an option that could not be applied
}

// Option configures a Table at construction.
type Option func(*Table)

// WithAllocator sets the Arrow allocator used for every column built by
// the table and the tables derived from it.
func WithAllocator(mem memory.Allocator) Option {
	return func(t *Table) {
		if mem != nil {
			t.mem = mem
		}
	}
}

// WithConfig overrides the global configuration for this table. Zero
// fields take their defaults; a config that fails validation makes the
// constructor return a value error.
func WithConfig(cfg config.Config) Option {
	return func(t *Table) {
		resolved, err := cfg.Resolve()
		if err != nil {
			t.optErr = errors.NewValueError("WithConfig", err.Error())
			return
		}
		t.cfg = resolved
	}
}

// WithLogger attaches a logger that records selections and mutations at
// debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func newTable(opts []Option) (*Table, error) {
	t := &Table{
		mem:    memory.NewGoAllocator(),
		cfg:    config.GetGlobalConfig(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.optErr != nil {
		return nil, t.optErr
	}
	return t, nil
}

// New builds a Table from a mapping of column name to one-dimensional
// values. raw may be a Data (ordered), or a Go map keyed by strings, in
// which case columns are ordered by name.
//
// Input is validated before anything is built: a non-mapping input, a
// non-string key or a non-array value is a type error; a value with more
// than one dimension, unequal lengths or an empty name is a value error.
// Text columns are stored as object columns.
func New(raw any, opts ...Option) (*Table, error) {
	const op = "New"

	fields, err := validation.ValidateInput(op, raw)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(fields))
	lengths := make([]int, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		lengths[i] = arrayLen(f.Values)
	}

	if err := validation.NewCompoundValidator(
		validation.NewNameValidator(op, names),
		validation.NewLengthValidator(op, names, lengths),
	).Validate(); err != nil {
		return nil, err
	}

	t, err := newTable(opts)
	if err != nil {
		return nil, err
	}
	cols := make([]series.ISeries, 0, len(fields))
	for _, f := range fields {
		col, err := series.FromValues(f.Name, f.Values, t.mem)
		if err != nil {
			releaseAll(cols)
			return nil, err
		}
		cols = append(cols, col)
	}

	t.store = newColumnStore(cols)
	return t, nil
}

// FromSeries builds a Table from existing columns. The table takes
// ownership of the series, releasing them if validation fails.
func FromSeries(cols []series.ISeries, opts ...Option) (*Table, error) {
	t, err := newTable(opts)
	if err != nil {
		releaseAll(cols)
		return nil, err
	}
	if err := validateColumns("FromSeries", cols); err != nil {
		releaseAll(cols)
		return nil, err
	}
	t.store = newColumnStore(cols)
	return t, nil
}

// derive builds a new table inheriting this table's allocator, config and
// logger. It takes ownership of cols and re-validates names and lengths.
func (t *Table) derive(op string, cols []series.ISeries) (*Table, error) {
	if err := validateColumns(op, cols); err != nil {
		releaseAll(cols)
		return nil, err
	}
	return t.adopt(cols), nil
}

// adopt is derive for columns already known to be valid.
func (t *Table) adopt(cols []series.ISeries) *Table {
	return &Table{
		store:  newColumnStore(cols),
		mem:    t.mem,
		cfg:    t.cfg,
		logger: t.logger,
	}
}

func validateColumns(op string, cols []series.ISeries) error {
	names := make([]string, len(cols))
	lengths := make([]int, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
		lengths[i] = c.Len()
	}
	return validation.NewCompoundValidator(
		validation.NewNameValidator(op, names),
		validation.NewLengthValidator(op, names, lengths),
	).Validate()
}

func arrayLen(values any) int {
	if arr, ok := values.(arrow.Array); ok {
		return arr.Len()
	}
	return reflect.ValueOf(values).Len()
}

func releaseAll(cols []series.ISeries) {
	for _, c := range cols {
		c.Release()
	}
}

// Columns returns the names of all columns in order
func (t *Table) Columns() []string {
	return t.store.names()
}

// SetColumns replaces every column name positionally. names must be a
// []string or []any of strings, as long as the current column list, with
// no duplicates. On error the table is unchanged.
func (t *Table) SetColumns(names any) error {
	const op = "SetColumns"

	validated, err := validation.ValidateColumnRename(op, t.store.width(), names)
	if err != nil {
		return err
	}

	t.logger.Debug("renaming columns", "from", t.store.order, "to", validated)
	t.store.renameAll(validated)
	return nil
}

// Len returns the number of rows. A table without columns has no rows.
func (t *Table) Len() int {
	return t.store.length()
}

// Width returns the number of columns
func (t *Table) Width() int {
	return t.store.width()
}

// Shape returns the row and column counts.
func (t *Table) Shape() (rows, cols int) {
	return t.Len(), t.Width()
}

// Column returns the series for the given column name
func (t *Table) Column(name string) (series.ISeries, bool) {
	col, exists := t.store.columns[name]
	return col, exists
}

// HasColumn checks if a column exists
func (t *Table) HasColumn(name string) bool {
	_, exists := t.store.columns[name]
	return exists
}

// DType returns the category of the named column.
func (t *Table) DType(name string) (dtype.DType, error) {
	col, err := t.store.get("DType", name)
	if err != nil {
		return dtype.Object, err
	}
	return col.DType(), nil
}

// Values returns the table as rows of cells, each cell an int64, float64,
// bool, string or nil for the object null marker.
func (t *Table) Values() [][]any {
	rows := make([][]any, t.Len())
	for r := range rows {
		row := make([]any, t.Width())
		for c := range row {
			row[c] = t.store.at(c).At(r)
		}
		rows[r] = row
	}
	return rows
}

// DTypes returns a two-column table listing every column name and the
// name of its data type.
func (t *Table) DTypes() *Table {
	names := t.Columns()
	kinds := make([]string, len(names))
	for i := range names {
		kinds[i] = t.store.at(i).DType().String()
	}

	return t.adopt([]series.ISeries{
		series.New("Column Name", names, t.mem),
		series.New("Data Type", kinds, t.mem),
	})
}

// String returns a short summary of the table's shape and column types.
func (t *Table) String() string {
	if t.store.width() == 0 {
		return "Table[empty]"
	}

	parts := []string{fmt.Sprintf("Table[%dx%d]", t.Len(), t.Width())}
	for _, name := range t.store.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, t.store.columns[name].DType()))
	}
	return strings.Join(parts, "\n")
}

// Text renders the table as an aligned text grid, truncating long tables
// to their first and last rows.
func (t *Table) Text() string {
	return display.Text(displaySource{t}, display.OptionsFromConfig(t.cfg))
}

// HTML renders the table as an HTML table, truncating like Text.
func (t *Table) HTML() string {
	return display.HTML(displaySource{t}, display.OptionsFromConfig(t.cfg))
}

// Release releases all underlying Arrow memory
func (t *Table) Release() {
	t.store.release()
}

// displaySource exposes a table through the renderer's read interface.
type displaySource struct {
	t *Table
}

func (d displaySource) Columns() []string { return d.t.store.order }

func (d displaySource) Len() int { return d.t.Len() }

func (d displaySource) DTypeAt(col int) dtype.DType { return d.t.store.at(col).DType() }

func (d displaySource) At(col, row int) any { return d.t.store.at(col).At(row) }
