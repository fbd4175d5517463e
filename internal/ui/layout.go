package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the file column is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for the full date column.
	LayoutWideWidth = 140
)

// Fixed column widths in the record table.
const (
	colDate      = 19
	colDateShort = 11 // MM-DD HH:MM
	colType      = 9
	colLevel     = 11
	colGap       = 1
)

// Timing constants.
const (
	// DefaultUIInterval is how often the view re-reads the store.
	DefaultUIInterval = time.Second
)

// chromeHeight is the header, command bar and status line.
const chromeHeight = 3

// tableShare is the fraction of the content height given to the table.
const tableShare = 0.55

// paneHeights splits the content area between the table and detail boxes.
func (m Model) paneHeights() (table, detail int) {
	content := max(0, m.height-chromeHeight)
	table = int(float64(content) * tableShare)
	detail = content - table
	return table, detail
}

// tableRows is the number of record rows that fit in the table box,
// excluding borders and the column header.
func (m Model) tableRows() int {
	table, _ := m.paneHeights()
	return max(0, table-3)
}
