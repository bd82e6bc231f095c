package display

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Text renders src as a tab-aligned grid with a leading row-position
// column.
func Text(src Source, opts Options) string {
	columns := src.Columns()
	if len(columns) == 0 {
		return "Empty table\n"
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	header := make([]string, 0, len(columns)+1)
	header = append(header, "")
	for _, name := range columns {
		header = append(header, strings.TrimRight(formatHeader(name, opts), " "))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	writeRows := func(rows []int) {
		for _, row := range rows {
			cells := make([]string, 0, len(columns)+1)
			cells = append(cells, rowLabel(row))
			for col := range columns {
				cells = append(cells, strings.TrimSpace(formatCell(src.DTypeAt(col), src.At(col, row), opts)))
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
	}

	plan := planRows(src.Len(), opts)
	writeRows(plan.head)
	if plan.truncated {
		cells := make([]string, len(columns)+1)
		for i := range cells {
			cells[i] = Ellipsis
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		writeRows(plan.tail)
	}

	_ = tw.Flush()
	return sb.String()
}
