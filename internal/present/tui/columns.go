package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"
)

const (
	minColWidth = 12
	maxColWidth = 32
	// cell padding added by the table styles
	colPad = 2
)

// colWidth spreads the terminal width over the fields, within bounds.
func (m *model) colWidth() int {
	if m.width <= 0 || len(m.fields) == 0 {
		return 20
	}
	w := m.width/len(m.fields) - colPad
	return min(maxColWidth, max(minColWidth, w))
}

// visibleCols is how many columns fit the terminal at colWidth.
func (m *model) visibleCols() int {
	if m.width <= 0 {
		return len(m.fields)
	}
	return max(1, min(len(m.fields), m.width/(m.colWidth()+colPad)))
}

// rebuild re-renders columns and rows for the window of fields that
// contains the column cursor.
func (m *model) rebuild() {
	if len(m.fields) == 0 {
		m.col, m.colOff = 0, 0
		m.table.SetRows(nil)
		m.table.SetColumns(nil)
		return
	}
	m.col = min(max(m.col, 0), len(m.fields)-1)
	n := m.visibleCols()
	if m.col < m.colOff {
		m.colOff = m.col
	}
	if m.col >= m.colOff+n {
		m.colOff = m.col - n + 1
	}
	m.colOff = min(m.colOff, len(m.fields)-n)

	w := m.colWidth()
	cols := make([]table.Column, 0, n)
	for i := m.colOff; i < m.colOff+n; i++ {
		title := m.fields[i].Name
		if i == m.col {
			title = "▸ " + title
		}
		cols = append(cols, table.Column{Title: title, Width: w})
	}
	rows := make([]table.Row, 0, len(m.cells))
	for _, rec := range m.cells {
		rows = append(rows, table.Row(rec[m.colOff:m.colOff+n]))
	}

	// rows wider than the columns cannot be rendered, so clear them first
	cur := m.table.Cursor()
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(min(max(cur, 0), len(rows)-1))
	}
}

// cellLine flattens text to a single line for a grid cell.
func cellLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "…")
}
