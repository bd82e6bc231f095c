package table

import (
	"github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/series"
)

// columnStore is the ordered mapping from column name to column values.
// Keys always equal the Name of the series stored under them.
type columnStore struct {
	columns map[string]series.ISeries
	order   []string // Maintains column order
}

func newColumnStore(cols []series.ISeries) *columnStore {
	s := &columnStore{
		columns: make(map[string]series.ISeries, len(cols)),
		order:   make([]string, 0, len(cols)),
	}
	for _, c := range cols {
		s.columns[c.Name()] = c
		s.order = append(s.order, c.Name())
	}
	return s
}

// get returns the named column or a lookup error.
func (s *columnStore) get(op, name string) (series.ISeries, error) {
	col, ok := s.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError(op, name, s.names())
	}
	return col, nil
}

// set inserts or overwrites a column. An overwrite keeps the column's
// position and releases the previous values; an insert appends.
func (s *columnStore) set(col series.ISeries) {
	name := col.Name()
	if old, exists := s.columns[name]; exists {
		old.Release()
	} else {
		s.order = append(s.order, name)
	}
	s.columns[name] = col
}

// renameAll replaces every key positionally. len(names) must equal width.
func (s *columnStore) renameAll(names []string) {
	columns := make(map[string]series.ISeries, len(names))
	for i, old := range s.order {
		col := s.columns[old]
		columns[names[i]] = col.Rename(names[i])
		col.Release()
	}
	s.columns = columns
	s.order = append([]string(nil), names...)
}

// length is the shared row count, taken from the first column.
func (s *columnStore) length() int {
	if len(s.order) == 0 {
		return 0
	}
	return s.columns[s.order[0]].Len()
}

func (s *columnStore) width() int {
	return len(s.order)
}

func (s *columnStore) names() []string {
	return append([]string{}, s.order...)
}

// at returns the column at position i in display order.
func (s *columnStore) at(i int) series.ISeries {
	return s.columns[s.order[i]]
}

func (s *columnStore) release() {
	for _, col := range s.columns {
		col.Release()
	}
}
