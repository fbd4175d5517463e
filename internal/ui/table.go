package ui

import (
	"strings"

	"github.com/five82/wpreport/internal/errorlog"
)

// tableColumns computes column widths for the current terminal width.
// fileWidth is zero in compact layouts.
func (m Model) tableColumns(inner int) (dateWidth, msgWidth, fileWidth int) {
	dateWidth = colDate
	if m.width < LayoutWideWidth {
		dateWidth = colDateShort
	}
	rest := inner - dateWidth - colType - colLevel - 3*colGap
	if m.width >= LayoutCompactWidth {
		fileWidth = max(16, rest/3)
		rest -= fileWidth + colGap
	}
	msgWidth = max(10, rest)
	return dateWidth, msgWidth, fileWidth
}

// renderTable renders the record list with the selection highlighted.
func (m Model) renderTable(inner, rows int) string {
	styles := m.theme.Styles()
	if len(m.visible) == 0 {
		msg := "No recent errors found in log files."
		if m.search.regex != nil {
			msg = "No records match /" + m.search.query
		}
		return styles.MutedText.Render(msg)
	}

	dateWidth, msgWidth, fileWidth := m.tableColumns(inner)

	var b strings.Builder
	header := []string{
		padRight("Date", dateWidth),
		padRight("Type", colType),
		padRight("Level", colLevel),
		padRight("Message", msgWidth),
	}
	if fileWidth > 0 {
		header = append(header, padRight("File", fileWidth))
	}
	b.WriteString(styles.AccentText.Bold(true).Render(strings.Join(header, " ")))

	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	end := min(len(m.visible), start+rows)
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.visible[i], i == m.selectedRow, dateWidth, msgWidth, fileWidth))
	}
	return b.String()
}

func (m Model) renderRow(r errorlog.Record, selected bool, dateWidth, msgWidth, fileWidth int) string {
	styles := m.theme.Styles()

	date := r.DateTime
	if dateWidth < colDate {
		date = shortDate(date)
	}
	cells := []string{
		padRight(truncate(date, dateWidth), dateWidth),
		padRight(truncate(string(r.LogType), colType), colType),
		padRight(truncate(r.Level, colLevel), colLevel),
		padRight(truncate(singleLine(r.Message), msgWidth), msgWidth),
	}
	if fileWidth > 0 {
		cells = append(cells, padRight(truncateMiddle(r.File, fileWidth), fileWidth))
	}

	if selected {
		return styles.Selected.Render(strings.Join(cells, " "))
	}
	cells[0] = styles.MutedText.Render(cells[0])
	cells[1] = styles.Text.Render(cells[1])
	cells[2] = styles.LevelStyle(r.Level).Render(cells[2])
	cells[3] = styles.Text.Render(cells[3])
	if fileWidth > 0 {
		cells[4] = styles.FaintText.Render(cells[4])
	}
	return strings.Join(cells, " ")
}

// shortDate turns "2006-01-02 15:04:05" into "01-02 15:04". Other values
// pass through for truncation.
func shortDate(value string) string {
	if len(value) == len("2006-01-02 15:04:05") && value[4] == '-' && value[10] == ' ' {
		return value[5:16]
	}
	return value
}

// singleLine collapses whitespace runs so multi-line messages fit a row.
func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
