package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// resizeDetail fits the viewport into the detail box.
func (m *Model) resizeDetail() {
	_, detail := m.paneHeights()
	m.detailViewport.Width = max(0, m.width-4)
	m.detailViewport.Height = max(0, detail-2)
}

// updateDetailViewport re-renders the selected record. reset scrolls back
// to the top, used when the selection moves to a different record.
func (m *Model) updateDetailViewport(reset bool) {
	if !m.ready {
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent())
	if reset {
		m.detailViewport.GotoTop()
	}
}

func (m Model) renderDetailContent() string {
	styles := m.theme.Styles()
	r, ok := m.selected()
	if !ok {
		return styles.MutedText.Render("Select an error to see its details.")
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(10)
	row := func(name, value string, style lipgloss.Style) string {
		return label.Render(name) + style.Render(value)
	}

	width := max(20, m.detailViewport.Width)
	var b strings.Builder
	b.WriteString(row("Date", r.DateTime, styles.Text))
	b.WriteString("\n")
	b.WriteString(row("Type", string(r.LogType), styles.Text))
	b.WriteString("\n")
	b.WriteString(row("Level", r.Level, styles.LevelStyle(r.Level).Bold(true)))
	b.WriteString("\n")
	b.WriteString(row("File", r.File, styles.AccentText))
	b.WriteString("\n")
	b.WriteString(row("ID", r.ID, styles.FaintText))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(width).Render(r.Message))
	return b.String()
}

func (m Model) detailTitle() string {
	if len(m.visible) == 0 {
		return "Detail"
	}
	return fmt.Sprintf("Detail %d/%d", m.selectedRow+1, len(m.visible))
}
