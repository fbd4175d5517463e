package ui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/report"
)

type exportKind string

const (
	exportCSV exportKind = "csv"
	exportPDF exportKind = "pdf"
)

type exportDoneMsg struct {
	kind  string
	path  string
	count int
	err   error
}

// exportCmd writes the visible records to the export directory.
func (m Model) exportCmd(kind exportKind) tea.Cmd {
	records := append([]errorlog.Record(nil), m.visible...)
	dir := m.exportDir
	now := m.now()
	opts := report.PDFOptions{Site: m.site, GeneratedAt: now}
	if m.filter != "" {
		opts.Filter = m.filter.Label()
	}

	return func() tea.Msg {
		path := filepath.Join(dir, report.Filename("errors", string(kind), now))
		err := writeExport(path, kind, records, opts)
		return exportDoneMsg{kind: string(kind), path: path, count: len(records), err: err}
	}
}

func writeExport(path string, kind exportKind, records []errorlog.Record, opts report.PDFOptions) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	switch kind {
	case exportPDF:
		return report.WritePDF(f, records, opts)
	default:
		return report.WriteCSV(f, records)
	}
}
