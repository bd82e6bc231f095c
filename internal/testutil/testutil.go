// Package testutil provides shared fixtures and assertions for table tests:
// leak-checked allocators, a standard employee table, and table equality
// helpers.
package testutil

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test tables.
	defaultRowCount = 4
)

// TestMemoryContext provides a leak-checked allocator.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	tb        testing.TB
}

// Release asserts that every byte handed out has been returned.
func (tmc *TestMemoryContext) Release() {
	tmc.Allocator.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a checked allocator for a test. Call Release
// once every table built on it has been released.
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewCheckedAllocator(memory.NewGoAllocator()),
		tb:        tb,
	}
}

// TestTableOption configures test table creation.
type TestTableOption func(*testTableConfig)

type testTableConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls adds a "manager" object column holding the null marker on
// every third row, and NaN to the "score" column on the same rows.
func WithNulls() TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestTableOption {
	return func(cfg *testTableConfig) {
		cfg.withActive = true
	}
}

// CreateTestTable creates a standard employee table:
//
//   - name (object): Alice, Bob, Charlie, David, ...
//   - age (integer): 25, 30, 35, 28, ...
//   - department (object): Engineering, Sales, Engineering, Marketing, ...
//   - score (float): 1.5, 2.5, 3.5, 4.5, ...
func CreateTestTable(tb testing.TB, allocator memory.Allocator, opts ...TestTableOption) *table.Table {
	tb.Helper()

	cfg := &testTableConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	data := table.Data{
		{Name: "name", Values: cycle(cfg.rowCount, []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"})},
		{Name: "age", Values: cycle(cfg.rowCount, []int64{25, 30, 35, 28, 32, 45, 29, 38})},
		{Name: "department", Values: cycle(cfg.rowCount, []string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"})},
		{Name: "score", Values: generateScores(cfg.rowCount, cfg.includeNulls)},
	}
	if cfg.withActive {
		data = append(data, table.Field{Name: "active", Values: cycle(cfg.rowCount, []bool{true, true, false, true, true, false, true, false})})
	}
	if cfg.includeNulls {
		data = append(data, table.Field{Name: "manager", Values: generateManagers(cfg.rowCount)})
	}

	t, err := table.New(data, table.WithAllocator(allocator))
	require.NoError(tb, err)
	return t
}

// MustNew builds a table from raw input, failing the test on error.
func MustNew(tb testing.TB, allocator memory.Allocator, raw any) *table.Table {
	tb.Helper()
	t, err := table.New(raw, table.WithAllocator(allocator))
	require.NoError(tb, err)
	return t
}

// AssertTableEqual compares column names, types and every cell. NaN cells
// are equal to each other.
func AssertTableEqual(tb testing.TB, expected, actual *table.Table) {
	tb.Helper()

	require.NotNil(tb, expected, "expected table should not be nil")
	require.NotNil(tb, actual, "actual table should not be nil")

	assert.Equal(tb, expected.Columns(), actual.Columns(), "table columns should match")
	require.Equal(tb, expected.Len(), actual.Len(), "table lengths should match")
	for _, name := range expected.Columns() {
		ed, _ := expected.DType(name)
		ad, _ := actual.DType(name)
		assert.Equal(tb, ed, ad, "column %s dtype should match", name)
	}

	want, got := expected.Values(), actual.Values()
	for r := range want {
		for c := range want[r] {
			assert.True(tb, cellsEqual(want[r][c], got[r][c]),
				"cell (%d, %d): expected %v, got %v", r, c, want[r][c], got[r][c])
		}
	}
}

// AssertTableHasColumns verifies that a table has exactly the expected
// columns in order.
func AssertTableHasColumns(tb testing.TB, t *table.Table, expectedColumns []string) {
	tb.Helper()

	require.NotNil(tb, t, "table should not be nil")
	assert.Equal(tb, expectedColumns, t.Columns())
}

// ColumnValues returns the cells of the named column.
func ColumnValues(tb testing.TB, t *table.Table, name string) []any {
	tb.Helper()

	col, ok := t.Column(name)
	require.True(tb, ok, "column %s should exist", name)
	out := make([]any, col.Len())
	for i := range out {
		out[i] = col.At(i)
	}
	return out
}

func cycle[T any](count int, base []T) []T {
	out := make([]T, count)
	for i := range count {
		out[i] = base[i%len(base)]
	}
	return out
}

func generateScores(count int, withNaN bool) []float64 {
	scores := make([]float64, count)
	for i := range count {
		scores[i] = float64(i) + 1.5
		if withNaN && i%3 == 2 {
			scores[i] = math.NaN()
		}
	}
	return scores
}

func generateManagers(count int) []*string {
	base := []string{"Grace", "Henry"}
	managers := make([]*string, count)
	for i := range count {
		if i%3 == 2 {
			continue
		}
		m := base[i%len(base)]
		managers[i] = &m
	}
	return managers
}

func cellsEqual(a, b any) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return a == b
}
