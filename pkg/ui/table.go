package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn represents a column in the table
type TableColumn struct {
	Header   string
	Width    int    // Minimum width
	MaxWidth int    // Longer cells are truncated with an ellipsis; 0 means no limit
	Align    string // "left", "right", "center"
}

// Table represents a data table
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

// NewTable creates a new table with specified columns
func NewTable(columns []TableColumn) *Table {
	return &Table{
		Columns: columns,
		Rows:    [][]string{},
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render renders the table as a string
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	var builder strings.Builder

	cells := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells[r] = make([]string, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				cells[r][i] = Truncate(flatten(row[i]), t.Columns[i].MaxWidth)
			}
		}
	}

	// Widths are measured in terminal cells, not bytes
	colWidths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		colWidths[i] = max(lipgloss.Width(col.Header), col.Width)
	}
	for _, row := range cells {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], lipgloss.Width(cell))
		}
	}

	headerParts := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headerParts[i] = padString(col.Header, colWidths[i], "left")
	}
	builder.WriteString(StyleTableHeader.Render(strings.Join(headerParts, "  ")))
	builder.WriteString("\n")

	separatorParts := make([]string, len(t.Columns))
	for i := range t.Columns {
		separatorParts[i] = strings.Repeat("─", colWidths[i])
	}
	builder.WriteString(StyleTableBorder.Render(strings.Join(separatorParts, "  ")))
	builder.WriteString("\n")

	for idx, row := range cells {
		rowParts := make([]string, len(t.Columns))
		for i, cell := range row {
			rowParts[i] = padString(cell, colWidths[i], t.Columns[i].Align)
		}

		rowStyle := StyleTableRow
		if idx%2 == 1 {
			rowStyle = StyleTableRowAlt
		}
		builder.WriteString(rowStyle.Render(strings.Join(rowParts, "  ")))
		builder.WriteString("\n")
	}

	return builder.String()
}

// Truncate shortens s to width cells, ending with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// flatten keeps multi-line values on one table row
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func padString(s string, width int, align string) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}

	padding := width - w

	switch align {
	case "right":
		return strings.Repeat(" ", padding) + s
	case "center":
		leftPad := padding / 2
		rightPad := padding - leftPad
		return strings.Repeat(" ", leftPad) + s + strings.Repeat(" ", rightPad)
	default:
		return s + strings.Repeat(" ", padding)
	}
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s",
		StyleAccent.Render(key),
		value,
	)
}
