package table

import (
	"fmt"

	"github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/series"
	"github.com/paveg/tisch/internal/validation"
)

const opSet = "Set"

// Set assigns value to the column named key, replacing an existing column
// in place or appending a new one.
//
// value may be a one-dimensional slice or Arrow array, a one-column Table,
// or a scalar int, float, bool or string that is repeated down every row.
// The new column must match the table's row count; a table with no columns
// adopts the length of the first array assigned to it. Text is stored as an
// object column. On error the table is left unchanged.
func (t *Table) Set(key any, value any) error {
	name, ok := key.(string)
	if !ok {
		return errors.NewTypeErrorf(opSet, "column key must be a string, got %T", key)
	}
	if name == "" {
		return errors.NewValueError(opSet, "column name cannot be empty")
	}

	col, err := t.buildAssigned(name, value)
	if err != nil {
		return err
	}

	if t.Width() > 0 && col.Len() != t.Len() {
		col.Release()
		return errors.NewColumnValueError(opSet, name,
			"length of values does not match length of table").
			WithHint(lengthHint(col.Len(), t.Len()))
	}

	t.logger.Debug("assigning column", "column", name, "dtype", col.DType().String(), "rows", col.Len())
	t.store.set(col)
	return nil
}

// buildAssigned converts an assigned value into a column named name
// without touching the store.
func (t *Table) buildAssigned(name string, value any) (series.ISeries, error) {
	switch v := value.(type) {
	case *Table:
		return t.columnFromTable(name, v)
	case nil:
		return nil, errors.NewTypeError(opSet, "cannot assign nil")
	}

	if series.IsScalar(value) {
		if t.Width() == 0 {
			return nil, errors.NewColumnValueError(opSet, name,
				"cannot broadcast a scalar into a table without columns")
		}
		return series.Broadcast(name, value, t.Len(), t.mem)
	}

	if err := validation.ValidateArrayLike(opSet, name, value); err != nil {
		return nil, err
	}
	return series.FromValues(name, value, t.mem)
}

func (t *Table) columnFromTable(name string, src *Table) (series.ISeries, error) {
	if src == nil {
		return nil, errors.NewTypeError(opSet, "cannot assign a nil table")
	}
	if src.Width() != 1 {
		return nil, errors.NewColumnValueError(opSet, name, "assigned table must have exactly one column")
	}
	return src.store.at(0).Rename(name), nil
}

func lengthHint(got, want int) string {
	return fmt.Sprintf("got %d values for %d rows", got, want)
}
