package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/paveg/tisch"
	"github.com/paveg/tisch/internal/config"
)

const (
	baseAge       = 25
	ageRange      = 40
	baseScore     = 50.0
	scoreRange    = 7
	activeModulus = 3
)

var departments = []string{"Engineering", "Sales", "Marketing", "HR"}

// demoData builds an employee table with one column of each type.
func demoData(rows int) tisch.Data {
	names := make([]string, rows)
	ages := make([]int64, rows)
	depts := make([]string, rows)
	scores := make([]float64, rows)
	active := make([]bool, rows)

	for i := range rows {
		names[i] = fmt.Sprintf("Employee_%d", i+1)
		ages[i] = int64(baseAge + (i*7)%ageRange)
		depts[i] = departments[i%len(departments)]
		scores[i] = baseScore + float64((i*13)%scoreRange)*1.25
		active[i] = i%activeModulus != 0
	}

	return tisch.Data{
		{Name: "name", Values: names},
		{Name: "age", Values: ages},
		{Name: "department", Values: depts},
		{Name: "score", Values: scores},
		{Name: "active", Values: active},
	}
}

type demo struct {
	w    io.Writer
	html bool
}

func (d demo) section(title string, t *tisch.Table) {
	fmt.Fprintf(d.w, "\n== %s ==\n", title)
	if d.html {
		fmt.Fprintln(d.w, t.HTML())
		return
	}
	fmt.Fprint(d.w, t.Text())
}

func runDemo(w io.Writer, logger *slog.Logger, cfg config.Config, rows int, html bool) error {
	if rows <= 0 {
		rows = defaultDemoRows
	}

	t, err := tisch.New(demoData(rows), tisch.WithConfig(cfg), tisch.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("building demo table: %w", err)
	}
	defer t.Release()

	logger.Info("demo table built", "rows", t.Len(), "columns", t.Width())
	d := demo{w: w, html: html}
	d.section("table", t)

	dtypes := t.DTypes()
	defer dtypes.Release()
	d.section("dtypes", dtypes)

	head, err := t.Head(5)
	if err != nil {
		return err
	}
	defer head.Release()
	d.section("head(5)", head)

	window, err := t.Loc(tisch.Span(0, 3), tisch.Span("name", "age"))
	if err != nil {
		return err
	}
	defer window.Release()
	d.section("rows 0:3, columns name:age", window)

	activeMask, err := t.Get("active")
	if err != nil {
		return err
	}
	defer activeMask.Release()

	activeRows, err := t.Get(activeMask)
	if err != nil {
		return err
	}
	defer activeRows.Release()

	if err := activeRows.Set("bonus", 500); err != nil {
		return err
	}
	tail, err := activeRows.Tail(3)
	if err != nil {
		return err
	}
	defer tail.Release()
	d.section("active employees with bonus, last 3", tail)

	means, err := t.Mean()
	if err != nil {
		return err
	}
	defer means.Release()
	d.section("mean", means)

	numeric, err := t.Get([]string{"age", "score"})
	if err != nil {
		return err
	}
	defer numeric.Release()
	std, err := numeric.Std()
	if err != nil {
		return err
	}
	defer std.Release()
	d.section("std of age and score", std)

	depts, err := t.Get("department")
	if err != nil {
		return err
	}
	defer depts.Release()
	counts, err := depts.ValueCounts(false)
	if err != nil {
		return err
	}
	for _, c := range counts {
		d.section("department counts", c)
		c.Release()
	}

	nunique := t.NUnique()
	defer nunique.Release()
	d.section("distinct values", nunique)
	return nil
}
