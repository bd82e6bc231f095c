package table_test

import (
	"math"
	"testing"

	tischerrors "github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/table"
	"github.com/paveg/tisch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNAAndCount(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.MustNew(t, mem.Allocator, table.Data{
		{Name: "i", Values: []int{1, 2, 3}},
		{Name: "f", Values: []float64{1, math.NaN(), 3}},
		{Name: "o", Values: []any{nil, "b", nil}},
		{Name: "b", Values: []bool{true, false, true}},
	})
	defer tbl.Release()

	na := tbl.IsNA()
	defer na.Release()
	assert.Equal(t, tbl.Columns(), na.Columns())
	assert.Equal(t, [][]any{
		{false, false, true, false},
		{false, true, false, false},
		{false, false, true, false},
	}, na.Values())

	count := tbl.Count()
	defer count.Release()
	assert.Equal(t, [][]any{{int64(3), int64(2), int64(1), int64(3)}}, count.Values())
}

func TestUnique(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.MustNew(t, mem.Allocator, table.Data{
		{Name: "i", Values: []int{2, 1, 2, 3, 1}},
		{Name: "o", Values: []any{"x", nil, "x", nil, "y"}},
	})
	defer tbl.Release()

	uniques := tbl.Unique()
	require.Len(t, uniques, 2)
	defer func() {
		for _, u := range uniques {
			u.Release()
		}
	}()

	assert.Equal(t, []any{int64(2), int64(1), int64(3)}, testutil.ColumnValues(t, uniques[0], "i"))
	assert.Equal(t, []any{"x", nil, "y"}, testutil.ColumnValues(t, uniques[1], "o"))

	single := testutil.MustNew(t, mem.Allocator, map[string]any{"a": []bool{true, true}})
	defer single.Release()
	one := single.Unique()
	require.Len(t, one, 1)
	defer one[0].Release()
	assert.Equal(t, []any{true}, testutil.ColumnValues(t, one[0], "a"))
}

func TestNUnique(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.MustNew(t, mem.Allocator, table.Data{
		{Name: "f", Values: []float64{math.NaN(), 0, math.Copysign(0, -1), math.NaN(), 1}},
		{Name: "i", Values: []int{0, 0, 0, 0, 0}},
		{Name: "o", Values: []any{"0", nil, "0", nil, ""}},
	})
	defer tbl.Release()

	n := tbl.NUnique()
	defer n.Release()
	assert.Equal(t, [][]any{{int64(3), int64(1), int64(3)}}, n.Values())
}

func TestValueCounts(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.MustNew(t, mem.Allocator, table.Data{
		{Name: "s", Values: []string{"b", "a", "b", "c", "a", "a"}},
		{Name: "tie", Values: []int{5, 4, 4, 5, 6, 6}},
	})
	defer tbl.Release()

	counts, err := tbl.ValueCounts(false)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	defer func() {
		for _, c := range counts {
			c.Release()
		}
	}()

	assert.Equal(t, []string{"s", "count"}, counts[0].Columns())
	assert.Equal(t, [][]any{
		{"a", int64(3)},
		{"b", int64(2)},
		{"c", int64(1)},
	}, counts[0].Values())

	assert.Equal(t, [][]any{
		{int64(5), int64(2)},
		{int64(4), int64(2)},
		{int64(6), int64(2)},
	}, counts[1].Values())
}

func TestValueCountsNormalize(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.MustNew(t, mem.Allocator, map[string]any{
		"o": []any{"x", nil, nil, "y"},
	})
	defer tbl.Release()

	counts, err := tbl.ValueCounts(true)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	defer counts[0].Release()

	assert.Equal(t, [][]any{
		{nil, 0.5},
		{"x", 0.25},
		{"y", 0.25},
	}, counts[0].Values())
}

func TestValueCountsRejectsCountColumn(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.MustNew(t, mem.Allocator, map[string]any{"count": []int{1}})
	defer tbl.Release()

	_, err := tbl.ValueCounts(false)
	assert.ErrorIs(t, err, tischerrors.ErrValue)
}
