package html2md

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minSeparatorWidth keeps aligned separator cells valid GFM delimiters.
const minSeparatorWidth = 3

// TableRows returns the rows of a table in DOM order: rows of thead
// sections first, then direct tr children and tbody rows in tree order,
// then rows of tfoot sections. Rows of nested tables are not included.
func TableRows(table *Element) []*Element {
	var head, body, foot []*Element
	for _, c := range table.Children {
		el, ok := c.(*Element)
		if !ok {
			continue
		}
		switch el.Tag {
		case "tr":
			body = append(body, el)
		case "thead":
			head = append(head, el.ChildElements("tr")...)
		case "tbody":
			body = append(body, el.ChildElements("tr")...)
		case "tfoot":
			foot = append(foot, el.ChildElements("tr")...)
		}
	}

	rows := make([]*Element, 0, len(head)+len(body)+len(foot))
	rows = append(rows, head...)
	rows = append(rows, body...)
	return append(rows, foot...)
}

// RowCells returns the td and th children of a row, in order.
func RowCells(row *Element) []*Element {
	var cells []*Element
	for _, c := range row.Children {
		if el, ok := c.(*Element); ok && (el.Tag == "td" || el.Tag == "th") {
			cells = append(cells, el)
		}
	}
	return cells
}

// renderTable serializes a table as a pipe table. Row 0 is the header.
// A table without rows yields "".
func (r *Renderer) renderTable(table *Element) string {
	rows := TableRows(table)
	if len(rows) == 0 {
		return ""
	}

	grid := make([][]string, len(rows))
	for i, row := range rows {
		cells := RowCells(row)
		grid[i] = make([]string, len(cells))
		for j, cell := range cells {
			grid[i][j] = r.ExtractCell(cell)
		}
	}

	if r.AlignTables {
		return formatAlignedTable(grid)
	}
	return formatTable(grid)
}

// formatTable writes the header row, one separator segment per header
// column, then the remaining rows as they are. Rows with a different cell
// count are not reconciled.
func formatTable(grid [][]string) string {
	var sb strings.Builder
	writeRow(&sb, grid[0])

	seps := make([]string, len(grid[0]))
	for j := range seps {
		seps[j] = " --- "
	}
	writeSeparator(&sb, seps)

	for _, row := range grid[1:] {
		writeRow(&sb, row)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(cells, " | "))
	sb.WriteString(" |\n")
}

// writeSeparator writes the delimiter row. A header without cells still
// gets both outer pipes.
func writeSeparator(sb *strings.Builder, segments []string) {
	sb.WriteByte('|')
	sb.WriteString(strings.Join(segments, "|"))
	sb.WriteString("|\n")
}

// formatAlignedTable is formatTable with every cell padded to the widest
// display width in its column.
func formatAlignedTable(grid [][]string) string {
	var widths []int
	for _, row := range grid {
		for j, cell := range row {
			if j == len(widths) {
				widths = append(widths, minSeparatorWidth)
			}
			if w := runewidth.StringWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}

	pad := func(row []string) []string {
		out := make([]string, len(row))
		for j, cell := range row {
			out[j] = runewidth.FillRight(cell, widths[j])
		}
		return out
	}

	var sb strings.Builder
	writeRow(&sb, pad(grid[0]))

	seps := make([]string, len(grid[0]))
	for j := range seps {
		seps[j] = " " + strings.Repeat("-", widths[j]) + " "
	}
	writeSeparator(&sb, seps)

	for _, row := range grid[1:] {
		writeRow(&sb, pad(row))
	}
	return sb.String()
}

// ExtractCell renders a table cell on a single line: inline content only,
// whitespace collapsed, pipes escaped.
func (r *Renderer) ExtractCell(cell Node) string {
	s := collapseSpace(r.extract(cell))
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func (r *Renderer) extract(n Node) string {
	switch v := n.(type) {
	case *Text:
		return trimSpace(v.Content)
	case *Element:
		switch v.Tag {
		case "a":
			text := trimSpace(v.TextContent())
			if r.CellLinks == CellLinksNormalize {
				return formatLink(text, r.resolveAttr(v, "href"))
			}
			return "[" + text + "](" + r.resolveAttr(v, "href") + ")"
		case "strong", "b":
			return "**" + trimSpace(v.TextContent()) + "**"
		case "p":
			return trimSpace(v.TextContent()) + " "
		default:
			var sb strings.Builder
			for _, c := range v.Children {
				sb.WriteString(r.extract(c))
			}
			return sb.String()
		}
	}
	return ""
}
