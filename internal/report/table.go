package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/wpreport/internal/errorlog"
)

const (
	defaultTableWidth = 120
	minMessageWidth   = 20
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	levelStyles = map[string]lipgloss.Style{
		"Fatal error": cellStyle.Foreground(lipgloss.Color("#ff5555")).Bold(true),
		"Error":       cellStyle.Foreground(lipgloss.Color("#ff5555")),
		"Crit":        cellStyle.Foreground(lipgloss.Color("#ff5555")),
		"Warning":     cellStyle.Foreground(lipgloss.Color("#f1fa8c")),
		"Warn":        cellStyle.Foreground(lipgloss.Color("#f1fa8c")),
		"Notice":      cellStyle.Foreground(lipgloss.Color("#8be9fd")),
		"Deprecated":  cellStyle.Foreground(lipgloss.Color("#6272a4")),
	}
)

// WriteTable renders records as a bordered terminal table no wider than width.
func WriteTable(w io.Writer, records []errorlog.Record, width int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, emptyText)
		return err
	}
	if width <= 0 {
		width = defaultTableWidth
	}

	// date, type, level, file columns plus borders and padding
	fixed := 19 + 9 + 11 + 2*4 + 6
	fileWidth := max(12, (width-fixed)/3)
	msgWidth := max(minMessageWidth, width-fixed-fileWidth-2)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.DateTime,
			string(r.LogType),
			r.Level,
			Truncate(r.Message, msgWidth),
			TruncateLeft(r.File, fileWidth),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Type", "Level", "Message", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(rows) {
				if s, ok := levelStyles[rows[row][2]]; ok {
					return s
				}
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Truncate shortens s to at most width runes, ending in "...".
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// TruncateLeft keeps the tail of s, which is the useful end of a path.
func TruncateLeft(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[len(r)-width:])
	}
	return "..." + string(r[len(r)-width+3:])
}
