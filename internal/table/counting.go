package table

import (
	"slices"

	"github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/series"
)

const countColumn = "count"

// IsNA returns a boolean table of the same shape marking missing values:
// the null marker in object columns and NaN in float columns.
func (t *Table) IsNA() *Table {
	cols := make([]series.ISeries, t.Width())
	for i, name := range t.store.order {
		col := t.store.columns[name]
		flags := make([]bool, col.Len())
		for row := range flags {
			flags[row] = col.IsNA(row)
		}
		cols[i] = series.New(name, flags, t.mem)
	}
	return t.adopt(cols)
}

// Count returns a one-row table with the number of non-missing values in
// each column.
func (t *Table) Count() *Table {
	cols := make([]series.ISeries, t.Width())
	for i, name := range t.store.order {
		col := t.store.columns[name]
		var present int64
		for row := 0; row < col.Len(); row++ {
			if !col.IsNA(row) {
				present++
			}
		}
		cols[i] = series.New(name, []int64{present}, t.mem)
	}
	return t.adopt(cols)
}

// Unique returns one single-column table per column holding its distinct
// values in order of first appearance.
func (t *Table) Unique() []*Table {
	out := make([]*Table, t.Width())
	for i, name := range t.store.order {
		col := t.store.columns[name]
		rows := indexColumn(col).firstRows()
		out[i] = t.adopt([]series.ISeries{col.Take(rows, t.mem)})
	}
	return out
}

// NUnique returns a one-row table with the number of distinct values in
// each column. NaN counts once.
func (t *Table) NUnique() *Table {
	cols := make([]series.ISeries, t.Width())
	for i, name := range t.store.order {
		n := indexColumn(t.store.columns[name]).size()
		cols[i] = series.New(name, []int64{int64(n)}, t.mem)
	}
	return t.adopt(cols)
}

// ValueCounts returns, for each column, a two-column table of its distinct
// values and how often each occurs, most frequent first. Ties keep the
// order of first appearance. With normalize the counts are divided by the
// number of rows.
func (t *Table) ValueCounts(normalize bool) ([]*Table, error) {
	const op = "ValueCounts"

	if t.HasColumn(countColumn) {
		return nil, errors.NewColumnValueError(op, countColumn,
			"column name collides with the generated count column").
			WithHint("rename the column before counting")
	}

	out := make([]*Table, 0, t.Width())
	for _, name := range t.store.order {
		col := t.store.columns[name]
		groups := indexColumn(col).groups
		slices.SortStableFunc(groups, func(a, b distinctGroup) int {
			return b.count - a.count
		})

		rows := make([]int, len(groups))
		for i, g := range groups {
			rows[i] = g.first
		}

		values := col.Take(rows, t.mem)
		var counts series.ISeries
		if normalize {
			freq := make([]float64, len(groups))
			for i, g := range groups {
				freq[i] = float64(g.count) / float64(t.Len())
			}
			counts = series.New(countColumn, freq, t.mem)
		} else {
			n := make([]int64, len(groups))
			for i, g := range groups {
				n[i] = int64(g.count)
			}
			counts = series.New(countColumn, n, t.mem)
		}

		out = append(out, t.adopt([]series.ISeries{values, counts}))
	}

	t.logger.Debug("counted values", "columns", len(out), "normalize", normalize)
	return out, nil
}
