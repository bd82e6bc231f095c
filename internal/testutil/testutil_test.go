package testutil_test

import (
	"math"
	"testing"

	"github.com/paveg/tisch/internal/dtype"
	"github.com/paveg/tisch/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCreateTestTable(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	t.Run("default configuration", func(t *testing.T) {
		tbl := testutil.CreateTestTable(t, mem.Allocator)
		defer tbl.Release()

		assert.Equal(t, 4, tbl.Len())
		testutil.AssertTableHasColumns(t, tbl, []string{"name", "age", "department", "score"})

		kind, err := tbl.DType("name")
		assert.NoError(t, err)
		assert.Equal(t, dtype.Object, kind)
	})

	t.Run("with options", func(t *testing.T) {
		tbl := testutil.CreateTestTable(t, mem.Allocator,
			testutil.WithRowCount(10), testutil.WithActiveColumn(), testutil.WithNulls())
		defer tbl.Release()

		assert.Equal(t, 10, tbl.Len())
		testutil.AssertTableHasColumns(t, tbl,
			[]string{"name", "age", "department", "score", "active", "manager"})

		managers := testutil.ColumnValues(t, tbl, "manager")
		assert.Nil(t, managers[2])
		assert.Equal(t, "Grace", managers[0])

		scores := testutil.ColumnValues(t, tbl, "score")
		assert.True(t, math.IsNaN(scores[2].(float64)))
	})
}

func TestAssertTableEqual(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	a := testutil.CreateTestTable(t, mem.Allocator, testutil.WithNulls())
	defer a.Release()
	b := testutil.CreateTestTable(t, mem.Allocator, testutil.WithNulls())
	defer b.Release()

	testutil.AssertTableEqual(t, a, b)
}

func TestMustNew(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	tbl := testutil.MustNew(t, mem.Allocator, map[string]any{"x": []int{1, 2}})
	defer tbl.Release()

	assert.Equal(t, []any{int64(1), int64(2)}, testutil.ColumnValues(t, tbl, "x"))
}
