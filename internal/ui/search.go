package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wpreport/internal/errorlog"
)

// handleSearchInput handles keyboard input while the search prompt has focus.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := strings.TrimSpace(m.search.input.Value())
		m.search.active = false
		m.search.input.Blur()
		if query == "" {
			m.clearSearch()
			return m, nil
		}

		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			m.search.err = "Invalid pattern: " + err.Error()
			return m, nil
		}
		m.search.regex = re
		m.search.query = query
		m.search.err = ""
		m.rebuildVisible()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		// Cancel input, keep any applied search
		m.search.active = false
		m.search.input.Blur()
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// clearSearch drops the applied pattern and shows every record again.
func (m *Model) clearSearch() {
	m.search.regex = nil
	m.search.query = ""
	m.search.err = ""
	m.search.input.SetValue("")
	m.rebuildVisible()
}

// matchesRecord reports whether the pattern hits the message, file or level.
func matchesRecord(re *regexp.Regexp, r errorlog.Record) bool {
	return re.MatchString(r.Message) || re.MatchString(r.File) || re.MatchString(r.Level)
}
