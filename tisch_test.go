package tisch_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tisch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPeople(t *testing.T, opts ...tisch.Option) *tisch.Table {
	t.Helper()
	tbl, err := tisch.New(tisch.Data{
		{Name: "name", Values: []string{"Ann", "Ben", "Cid", "Dee"}},
		{Name: "age", Values: []int{31, 45, 27, 52}},
		{Name: "score", Values: []float64{7.5, 6.0, 9.25, 8.0}},
	}, opts...)
	require.NoError(t, err)
	return tbl
}

func TestNewAndInspect(t *testing.T) {
	tbl := newPeople(t)
	defer tbl.Release()

	rows, cols := tbl.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"name", "age", "score"}, tbl.Columns())

	kind, err := tbl.DType("age")
	require.NoError(t, err)
	assert.Equal(t, tisch.Integer, kind)
}

func TestNewErrorsMatchSentinels(t *testing.T) {
	_, err := tisch.New([]int{1, 2})
	assert.ErrorIs(t, err, tisch.ErrType)

	_, err = tisch.New(map[string]any{"a": []int{1}, "b": []int{1, 2}})
	assert.ErrorIs(t, err, tisch.ErrValue)

	var te *tisch.TableError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "New", te.Op)
}

func TestMaskSelection(t *testing.T) {
	tbl := newPeople(t)
	defer tbl.Release()

	require.NoError(t, tbl.Set("senior", []bool{false, true, false, true}))
	mask, err := tbl.Get("senior")
	require.NoError(t, err)
	defer mask.Release()

	seniors, err := tbl.Get(mask)
	require.NoError(t, err)
	defer seniors.Release()
	assert.Equal(t, 2, seniors.Len())

	typed, err := tbl.Select(tisch.MaskBy(mask))
	require.NoError(t, err)
	defer typed.Release()
	assert.Equal(t, seniors.Values(), typed.Values())

	names, err := tbl.Loc(mask, "name")
	require.NoError(t, err)
	defer names.Release()
	assert.Equal(t, [][]any{{"Ben"}, {"Dee"}}, names.Values())

	viaRowCol, err := tbl.Select(tisch.RowCol{Rows: tisch.RowsWhere(mask), Cols: tisch.ColLabel("name")})
	require.NoError(t, err)
	defer viaRowCol.Release()
	assert.Equal(t, names.Values(), viaRowCol.Values())

	tupled, err := tbl.Get(tisch.Tuple{mask, []string{"name"}})
	require.NoError(t, err)
	defer tupled.Release()
	assert.Equal(t, names.Values(), tupled.Values())
}

func TestLocSpan(t *testing.T) {
	tbl := newPeople(t)
	defer tbl.Release()

	window, err := tbl.Loc(tisch.Span(1, 3), tisch.Span("age", "score"))
	require.NoError(t, err)
	defer window.Release()

	assert.Equal(t, [][]any{{int64(45), 6.0}, {int64(27), 9.25}}, window.Values())
}

func TestSetFromPublicTable(t *testing.T) {
	tbl := newPeople(t)
	defer tbl.Release()

	age, err := tbl.Get("age")
	require.NoError(t, err)
	defer age.Release()

	require.NoError(t, tbl.Set("age_copy", age))
	col, ok := tbl.Column("age_copy")
	require.True(t, ok)
	assert.Equal(t, tisch.Integer, col.DType())
}

func TestAggregationAndCounting(t *testing.T) {
	tbl := newPeople(t)
	defer tbl.Release()

	mean, err := tbl.Mean()
	require.NoError(t, err)
	defer mean.Release()
	assert.Equal(t, []string{"age", "score"}, mean.Columns())
	assert.Equal(t, []any{38.75, 7.6875}, mean.Values()[0])

	op, err := tisch.ParseAggOp("max")
	require.NoError(t, err)
	maxOut, err := tbl.Aggregate(op)
	require.NoError(t, err)
	defer maxOut.Release()
	assert.Equal(t, []any{"Dee", int64(52), 9.25}, maxOut.Values()[0])

	nunique := tbl.NUnique()
	defer nunique.Release()
	assert.Equal(t, []any{int64(4), int64(4), int64(4)}, nunique.Values()[0])

	uniques := tbl.Unique()
	require.Len(t, uniques, 3)
	for _, u := range uniques {
		assert.Equal(t, 4, u.Len())
		u.Release()
	}

	counts, err := tbl.ValueCounts(true)
	require.NoError(t, err)
	for _, c := range counts {
		assert.Equal(t, "count", c.Columns()[1])
		c.Release()
	}
}

func TestFromSeries(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	name := "n"
	tbl, err := tisch.FromSeries([]tisch.ISeries{
		tisch.NewSeries("id", []int64{1, 2}, mem),
		tisch.NewNullableSeries("note", []*string{&name, nil}, mem),
	}, tisch.WithAllocator(mem))
	require.NoError(t, err)

	head, err := tbl.Head(1)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1), "n"}}, head.Values())
	head.Release()

	assert.Contains(t, tbl.Text(), "None")
	assert.Contains(t, tbl.HTML(), "<th>id")
	tbl.Release()
}

func TestWithConfigAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := tisch.NewConfig()
	cfg.DefaultPreviewRows = 2
	cfg.StrictColumnList = true

	tbl := newPeople(t, tisch.WithConfig(cfg), tisch.WithLogger(logger))
	defer tbl.Release()

	head, err := tbl.Head()
	require.NoError(t, err)
	defer head.Release()
	assert.Equal(t, 2, head.Len())

	_, err = tbl.Loc(tisch.All(), []any{0, 1.5})
	assert.ErrorIs(t, err, tisch.ErrType)

	assert.Contains(t, buf.String(), "select rows and columns")
}

func TestDTypesAndString(t *testing.T) {
	tbl := newPeople(t)
	defer tbl.Release()

	types := tbl.DTypes()
	defer types.Release()
	assert.Equal(t, []any{"score", "float"}, types.Values()[2])

	assert.Contains(t, tbl.String(), "Table[4x3]")
	require.NoError(t, tbl.SetColumns([]string{"n", "a", "s"}))
	assert.True(t, tbl.HasColumn("s"))
	assert.Equal(t, 3, tbl.Width())

	na := tbl.IsNA()
	defer na.Release()
	count := tbl.Count()
	defer count.Release()
	assert.Equal(t, []any{int64(4), int64(4), int64(4)}, count.Values()[0])

	tail, err := tbl.Tail(1)
	require.NoError(t, err)
	defer tail.Release()
	assert.Equal(t, "Dee", tail.Values()[0][0])
}

func TestSetConfigRejectsInvalid(t *testing.T) {
	bad := tisch.NewConfig()
	bad.FloatPrecision = 40
	assert.Error(t, tisch.SetConfig(bad))

	tbl := newPeople(t)
	defer tbl.Release()
	head, err := tbl.Head()
	require.NoError(t, err)
	defer head.Release()
	assert.Positive(t, head.Len())
}
