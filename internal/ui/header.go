package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wpreport/internal/errorlog"
)

// renderMain renders the header, table, detail pane and status line.
func (m Model) renderMain() string {
	tableHeight, detailHeight := m.paneHeights()
	inner := max(0, m.width-4)

	tableTitle := "Errors (" + m.filter.Label() + ")"
	if m.search.regex != nil {
		tableTitle += " /" + m.search.query
	}

	parts := []string{
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderBox(tableTitle, m.renderTable(inner, m.tableRows()), m.width, tableHeight, m.focusedPane == PaneTable),
		m.renderBox(m.detailTitle(), m.detailViewport.View(), m.width, detailHeight, m.focusedPane == PaneDetail),
		m.renderStatus(),
	}
	return strings.Join(parts, "\n")
}

// renderHeader shows the site, record counts and refresh age.
func (m Model) renderHeader() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles()

	parts := []string{bg.Render("wpreport", styles.Logo)}
	if m.site != "" {
		parts = append(parts, bg.Render(m.site, styles.MutedText))
	}

	wp, srv := 0, 0
	for _, r := range m.snapshot.Records {
		if r.LogType == errorlog.WordPress {
			wp++
		} else {
			srv++
		}
	}
	parts = append(parts,
		bg.Render(fmt.Sprintf("%d errors", len(m.visible)), styles.Text),
		bg.Render(fmt.Sprintf("WP %d", wp), styles.AccentText),
		bg.Render(fmt.Sprintf("Server %d", srv), styles.InfoText),
	)

	if !m.snapshot.LastUpdated.IsZero() {
		age := humanizeDuration(m.now().Sub(m.snapshot.LastUpdated))
		parts = append(parts, bg.Render("updated "+age, styles.FaintText))
	}
	if m.snapshot.LastError != nil {
		parts = append(parts, bg.Render(m.snapshot.LastError.Error(), styles.DangerText))
	}

	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// renderCommandBar lists the most used keys.
func (m Model) renderCommandBar() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()

	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, bg.Render("<"+h.Key+">", styles.AccentText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// renderStatus shows the search prompt, a search error or the last action.
func (m Model) renderStatus() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()

	switch {
	case m.search.active:
		return bg.FillLine(m.search.input.View(), m.width)
	case m.search.err != "":
		return bg.FillLine(bg.Render(m.search.err, styles.DangerText), m.width)
	case m.status != "":
		style := styles.SuccessText
		if m.statusErr {
			style = styles.DangerText
		}
		return bg.FillLine(bg.Render(m.status, style), m.width)
	case m.search.regex != nil:
		text := fmt.Sprintf("/%s - %d matches - Esc to clear", m.search.query, len(m.visible))
		return bg.FillLine(bg.Render(text, styles.AccentText), m.width)
	}
	return bg.FillLine("", m.width)
}

// renderBox draws a bordered pane with a title in the top border.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	border := lipgloss.RoundedBorder()
	box := lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Width(width - 2).
		Height(height - 2)

	rendered := box.Render(clipLines(content, height-2))

	// Splice the title into the top border.
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text)).Bold(focused)
	label := " " + truncate(title, width-6) + " "
	lines := strings.SplitN(rendered, "\n", 2)
	edge := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	fill := max(0, width-2-1-lipgloss.Width(label))
	top := edge.Render(border.TopLeft+border.Top) + titleStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, fill)+border.TopRight)
	if len(lines) == 2 {
		return top + "\n" + lines[1]
	}
	return top
}
