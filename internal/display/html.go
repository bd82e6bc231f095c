package display

import (
	"html"
	"strings"
)

// HTML renders src as an HTML table. The first cell of each body row holds
// the row position in bold. Names and cell text are escaped.
func HTML(src Source, opts Options) string {
	var sb strings.Builder
	columns := src.Columns()

	sb.WriteString("<table><thead><tr><th></th>")
	for _, name := range columns {
		sb.WriteString("<th>")
		sb.WriteString(html.EscapeString(formatHeader(name, opts)))
		sb.WriteString("</th>")
	}
	sb.WriteString("</tr></thead><tbody>")

	writeRows := func(rows []int) {
		for _, row := range rows {
			sb.WriteString("<tr><td><strong>")
			sb.WriteString(rowLabel(row))
			sb.WriteString("</strong></td>")
			for col := range columns {
				sb.WriteString("<td>")
				sb.WriteString(html.EscapeString(formatCell(src.DTypeAt(col), src.At(col, row), opts)))
				sb.WriteString("</td>")
			}
			sb.WriteString("</tr>")
		}
	}

	plan := planRows(src.Len(), opts)
	writeRows(plan.head)
	if plan.truncated {
		sb.WriteString("<tr><td><strong>" + Ellipsis + "</strong></td>")
		for range columns {
			sb.WriteString("<td>" + Ellipsis + "</td>")
		}
		sb.WriteString("</tr>")
		writeRows(plan.tail)
	}

	sb.WriteString("</tbody></table>")
	return sb.String()
}
