// Package display renders a table as an aligned text grid or an HTML
// table. Long tables are truncated to their leading and trailing rows
// around an ellipsis row.
package display

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paveg/tisch/internal/config"
	"github.com/paveg/tisch/internal/dtype"
)

// Ellipsis marks the rows left out of a truncated rendering.
const Ellipsis = "..."

// Source is the read view a renderer needs of a table.
type Source interface {
	Columns() []string
	Len() int
	DTypeAt(col int) dtype.DType
	// At returns an int64, float64, bool, string, or nil for the null marker.
	At(col, row int) any
}

// Options controls truncation and cell formatting.
type Options struct {
	MaxRows        int
	HeadRows       int
	TailRows       int
	FloatPrecision int
	CellWidth      int
}

// OptionsFromConfig takes the display settings of cfg.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		MaxRows:        cfg.DisplayMaxRows,
		HeadRows:       cfg.DisplayHeadRows,
		TailRows:       cfg.DisplayTailRows,
		FloatPrecision: cfg.FloatPrecision,
		CellWidth:      cfg.CellWidth,
	}
}

// DefaultOptions returns the options of the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.NewConfig())
}

// rowPlan lists the rows to render. A truncated plan renders head, an
// ellipsis row, then tail.
type rowPlan struct {
	head      []int
	tail      []int
	truncated bool
}

func planRows(n int, opts Options) rowPlan {
	if n <= opts.MaxRows {
		return rowPlan{head: span(0, n)}
	}
	return rowPlan{
		head:      span(0, min(opts.HeadRows, n)),
		tail:      span(max(n-opts.TailRows, 0), n),
		truncated: true,
	}
}

func span(from, to int) []int {
	rows := make([]int, 0, max(to-from, 0))
	for i := from; i < to; i++ {
		rows = append(rows, i)
	}
	return rows
}

// formatCell renders one value by its column type: floats fixed-point,
// integers right-aligned, text left-aligned with the null marker as None,
// booleans as True or False.
func formatCell(kind dtype.DType, v any, opts Options) string {
	if v == nil {
		return fmt.Sprintf("%-*s", opts.CellWidth, "None")
	}

	switch kind {
	case dtype.Float:
		f, _ := v.(float64)
		if math.IsNaN(f) {
			return fmt.Sprintf("%*s", opts.CellWidth, "nan")
		}
		return fmt.Sprintf("%*.*f", opts.CellWidth, opts.FloatPrecision, f)
	case dtype.Integer:
		i, _ := v.(int64)
		return fmt.Sprintf("%*d", opts.CellWidth, i)
	case dtype.Boolean:
		b, _ := v.(bool)
		if b {
			return "True"
		}
		return "False"
	case dtype.Object:
		s, _ := v.(string)
		return fmt.Sprintf("%-*s", opts.CellWidth, s)
	default:
		return fmt.Sprint(v)
	}
}

func formatHeader(name string, opts Options) string {
	return fmt.Sprintf("%-*s", opts.CellWidth, name)
}

func rowLabel(row int) string {
	return strconv.Itoa(row)
}
