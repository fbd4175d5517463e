package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/five82/wpreport/internal/errorlog"
)

const (
	emptyText = "No recent errors found in log files."
	noteText  = "Showing the most recent errors from WordPress debug logs and server error logs."

	pdfFont        = "Helvetica"
	pdfMargin      = 12.0
	headerHeight   = 8.0
	lineHeight     = 4.0
	rowPadding     = 2.0
	minRowHeight   = 8.0
	maxMessageRows = 4
	ellipsis       = "..."
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 35, "L"},
	{"Type", 22, "C"},
	{"Level", 25, "C"},
	{"Message", 130, "L"},
	{"File", 65, "L"},
}

// PDFOptions describe the report header.
type PDFOptions struct {
	Title       string
	Site        string
	Filter      string
	GeneratedAt time.Time
}

// WritePDF renders a landscape A4 report.
func WritePDF(w io.Writer, records []errorlog.Record, opts PDFOptions) error {
	pdf := buildPDF(records, opts)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func buildPDF(records []errorlog.Record, opts PDFOptions) *fpdf.Fpdf {
	if opts.Title == "" {
		opts.Title = "Recent Errors Report"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("wpreport", true)
	pdf.SetCreationDate(opts.GeneratedAt)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	writeSummary(pdf, tr, records, opts)

	if len(records) == 0 {
		pdf.SetFont(pdfFont, "", 11)
		pdf.CellFormat(0, 8, emptyText, "", 1, "L", false, 0, "")
		return pdf
	}

	pdf.SetFont(pdfFont, "I", 9)
	pdf.CellFormat(0, 6, noteText, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeTableHeader(pdf)
	_, pageHeight := pdf.GetPageSize()
	for i, r := range records {
		pdf.SetFont(pdfFont, "", 8)
		lines := messageLines(pdf, tr(r.Message), pdfColumns[3].width-2)
		height := rowHeight(len(lines))
		if pdf.GetY()+height > pageHeight-pdfMargin {
			pdf.AddPage()
			writeTableHeader(pdf)
			pdf.SetFont(pdfFont, "", 8)
		}
		writeRow(pdf, tr, r, lines, height, i%2 == 1)
	}
	return pdf
}

func writeSummary(pdf *fpdf.Fpdf, tr func(string) string, records []errorlog.Record, opts PDFOptions) {
	pdf.SetFont(pdfFont, "B", 20)
	pdf.CellFormat(0, 12, tr(opts.Title), "", 1, "L", false, 0, "")
	if opts.Site != "" {
		pdf.SetFont(pdfFont, "", 12)
		pdf.CellFormat(0, 7, tr(opts.Site), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	counts := Counts(records)
	summary := [][2]string{
		{"Recent errors", fmt.Sprint(len(records))},
		{"WordPress", fmt.Sprint(counts[errorlog.WordPress])},
		{"Server", fmt.Sprint(counts[errorlog.Server])},
	}
	if opts.Filter != "" {
		summary = append(summary, [2]string{"Log type", opts.Filter})
	}
	pdf.SetFont(pdfFont, "", 10)
	for _, kv := range summary {
		pdf.CellFormat(40, 6, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	pdf.SetFont(pdfFont, "", 8)
	pdf.CellFormat(0, 5, "Generated on: "+opts.GeneratedAt.Format("January 2, 2006 at 3:04 PM MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func writeTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont(pdfFont, "B", 9)
	pdf.SetFillColor(240, 240, 240)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, headerHeight, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func writeRow(pdf *fpdf.Fpdf, tr func(string) string, r errorlog.Record, lines []string, height float64, shaded bool) {
	if shaded {
		pdf.SetFillColor(250, 250, 250)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	x, y := pdf.GetXY()

	cells := []string{tr(r.DateTime), tr(string(r.LogType)), tr(r.Level), "", tr(r.File)}
	for i, col := range pdfColumns {
		text := cells[i]
		if i == 4 {
			text = fitLeft(pdf, text, col.width-2)
		} else if i != 3 {
			text = fitRight(pdf, text, col.width-2)
		}
		pdf.CellFormat(col.width, height, text, "1", 0, col.align, true, 0, "")
	}

	msgX := x + pdfColumns[0].width + pdfColumns[1].width + pdfColumns[2].width + 1
	msgY := y + (height-float64(len(lines))*lineHeight)/2
	for i, line := range lines {
		pdf.SetXY(msgX, msgY+float64(i)*lineHeight)
		pdf.CellFormat(pdfColumns[3].width-2, lineHeight, line, "", 0, "L", false, 0, "")
	}
	pdf.SetXY(x, y+height)
}

func rowHeight(lines int) float64 {
	return max(minRowHeight, float64(lines)*lineHeight+rowPadding)
}

// Text reaching the helpers below has been through the cp1252 translator,
// so byte slicing never splits a character.

// messageLines wraps text to width and caps it at maxMessageRows lines,
// ending the last kept line with an ellipsis when text was dropped.
func messageLines(pdf *fpdf.Fpdf, text string, width float64) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	raw := pdf.SplitLines([]byte(text), width)
	lines := make([]string, 0, min(len(raw), maxMessageRows))
	for i, b := range raw {
		if i == maxMessageRows {
			break
		}
		lines = append(lines, string(b))
	}
	if len(raw) > maxMessageRows {
		last := lines[maxMessageRows-1]
		for last != "" && pdf.GetStringWidth(last+ellipsis) > width {
			last = last[:len(last)-1]
		}
		lines[maxMessageRows-1] = strings.TrimRight(last, " ") + ellipsis
	}
	return lines
}

func fitRight(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for text != "" && pdf.GetStringWidth(text+ellipsis) > width {
		text = text[:len(text)-1]
	}
	return text + ellipsis
}

func fitLeft(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for text != "" && pdf.GetStringWidth(ellipsis+text) > width {
		text = text[1:]
	}
	return ellipsis + text
}
