package ui

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/prefs"
	"github.com/five82/wpreport/internal/sources"
	"github.com/five82/wpreport/internal/state"
)

// Pane identifies which half of the screen receives navigation keys.
type Pane int

const (
	PaneTable Pane = iota
	PaneDetail
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Refresh   func() // asks the poller for an immediate refresh; may be nil
	ExportDir string
	Site      string
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Logger    zerolog.Logger
	Now       func() time.Time
}

// searchState holds the record search input and compiled pattern.
type searchState struct {
	input  textinput.Model
	active bool // input has focus
	query  string
	regex  *regexp.Regexp
	err    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	refresh   func()
	exportDir string
	site      string
	prefsPath string
	pollTick  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
	keys      keyMap

	// UI state
	theme       Theme
	width       int
	height      int
	ready       bool
	focusedPane Pane
	showHelp    bool

	// Data state
	snapshot state.Snapshot
	filter   sources.Filter
	visible  []errorlog.Record

	// Selection follows the record id across refreshes.
	selectedRow int
	selectedID  string

	detailViewport viewport.Model
	search         searchState

	// Status line
	status    string
	statusErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	exportDir := strings.TrimSpace(opts.ExportDir)
	if exportDir == "" {
		exportDir = "."
	}

	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "regex over message, file and level"
	input.CharLimit = 256

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		refresh:   opts.Refresh,
		exportDir: exportDir,
		site:      opts.Site,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		logger:    opts.Logger,
		now:       now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		search:    searchState{input: input},
	}
	if opts.Store != nil {
		m.filter = opts.Store.Filter()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeDetail()
		m.updateDetailViewport(false)
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus("Export failed: "+msg.err.Error(), true)
			m.logger.Error().Err(msg.err).Str("kind", msg.kind).Msg("export failed")
		} else {
			m.setStatus("Exported "+msg.kind+" to "+msg.path, false)
			m.logger.Info().Str("path", msg.path).Int("records", msg.count).Msg("export written")
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.search.active {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport(false)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focusedPane == PaneTable {
			m.focusedPane = PaneDetail
		} else {
			m.focusedPane = PaneTable
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleFilter):
		m.cycleFilter()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.requestRefresh()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.search.active = true
		m.search.err = ""
		m.search.input.SetValue(m.search.query)
		m.search.input.CursorEnd()
		return m, m.search.input.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.search.regex != nil {
			m.clearSearch()
		}
		m.focusedPane = PaneTable
		return m, nil

	case key.Matches(msg, m.keys.ExportCSV):
		return m, m.exportCmd(exportCSV)

	case key.Matches(msg, m.keys.ExportPDF):
		return m, m.exportCmd(exportPDF)
	}

	if m.focusedPane == PaneDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleTableKey(msg)
}

// handleTableKey moves the selection.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.visible)
	if count == 0 {
		return m, nil
	}

	page := max(1, m.tableRows())
	row := m.selectedRow
	switch {
	case key.Matches(msg, m.keys.Down):
		row++
	case key.Matches(msg, m.keys.Up):
		row--
	case key.Matches(msg, m.keys.Top):
		row = 0
	case key.Matches(msg, m.keys.Bottom):
		row = count - 1
	case key.Matches(msg, m.keys.PageDown):
		row += page
	case key.Matches(msg, m.keys.PageUp):
		row -= page
	default:
		return m, nil
	}
	m.selectRow(row)
	return m, nil
}

// handleDetailKey scrolls the detail viewport.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// handleTick schedules the next snapshot read.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

// applySnapshot installs new data and re-resolves the selection by id.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.rebuildVisible()
}

// rebuildVisible filters the snapshot by log type and search pattern.
func (m *Model) rebuildVisible() {
	want := filterLogType(m.filter)
	visible := make([]errorlog.Record, 0, len(m.snapshot.Records))
	for _, r := range m.snapshot.Records {
		if want != "" && r.LogType != want {
			continue
		}
		if m.search.regex != nil && !matchesRecord(m.search.regex, r) {
			continue
		}
		visible = append(visible, r)
	}
	m.visible = visible

	row := m.selectedRow
	if m.selectedID != "" {
		for i, r := range visible {
			if r.ID == m.selectedID {
				row = i
				break
			}
		}
	}
	m.selectRow(row)
}

// selectRow clamps row into range and records the selected id.
func (m *Model) selectRow(row int) {
	if len(m.visible) == 0 {
		m.selectedRow = 0
		changed := m.selectedID != ""
		m.selectedID = ""
		m.updateDetailViewport(changed)
		return
	}
	row = min(max(row, 0), len(m.visible)-1)
	id := m.visible[row].ID
	changed := id != m.selectedID
	m.selectedRow = row
	m.selectedID = id
	m.updateDetailViewport(changed)
}

// selected returns the highlighted record, if any.
func (m Model) selected() (errorlog.Record, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.visible) {
		return errorlog.Record{}, false
	}
	return m.visible[m.selectedRow], true
}

// cycleFilter advances the log type filter, persists it and asks for a refresh.
func (m *Model) cycleFilter() {
	m.filter = m.filter.Next()
	if m.store != nil {
		m.store.SetFilter(m.filter)
	}
	m.savePrefs()
	m.requestRefresh()
	m.rebuildVisible()
	m.setStatus("Log type: "+m.filter.Label(), false)
}

func (m *Model) requestRefresh() {
	if m.refresh != nil {
		m.refresh()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LogType: string(m.filter)}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Msg("save prefs")
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// filterLogType maps a filter to the record type it keeps. Empty keeps all.
func filterLogType(f sources.Filter) errorlog.LogType {
	switch f {
	case sources.FilterWordPress:
		return errorlog.WordPress
	case sources.FilterServer:
		return errorlog.Server
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
