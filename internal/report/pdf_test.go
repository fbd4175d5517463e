package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/five82/wpreport/internal/errorlog"
)

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	opts := PDFOptions{GeneratedAt: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	if err := WritePDF(&buf, sampleRecords(), opts); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
}

func TestBuildPDFEmpty(t *testing.T) {
	pdf := buildPDF(nil, PDFOptions{})
	if pdf.Err() {
		t.Fatalf("pdf error: %v", pdf.Error())
	}
	if got := pdf.PageCount(); got != 1 {
		t.Fatalf("PageCount = %d, want 1", got)
	}
}

func TestBuildPDFPaginates(t *testing.T) {
	long := strings.Repeat("Allowed memory size exhausted while loading a very large option ", 12)
	records := make([]errorlog.Record, 0, 80)
	for i := 0; i < 80; i++ {
		records = append(records, errorlog.Record{
			ID:       fmt.Sprint(i),
			DateTime: "2024-01-15 10:30:00",
			LogType:  errorlog.WordPress,
			Level:    "Fatal error",
			Message:  long,
			File:     "/wp-content/plugins/some-very-long-plugin-directory-name/includes/class-loader.php:123",
		})
	}
	pdf := buildPDF(records, PDFOptions{Site: "Example Site", Filter: "WordPress"})
	if pdf.Err() {
		t.Fatalf("pdf error: %v", pdf.Error())
	}
	// 80 rows of 18 mm cannot fit on one landscape page.
	if got := pdf.PageCount(); got < 2 {
		t.Fatalf("PageCount = %d, want at least 2", got)
	}
}

func newMeasurePDF() *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", 8)
	return pdf
}

func TestMessageLines(t *testing.T) {
	pdf := newMeasurePDF()
	width := pdfColumns[3].width - 2

	if got := messageLines(pdf, "", width); len(got) != 0 {
		t.Fatalf("empty message lines = %v", got)
	}
	if got := messageLines(pdf, "short   message\n", width); len(got) != 1 || got[0] != "short message" {
		t.Fatalf("short message lines = %q", got)
	}

	long := strings.Repeat("word ", 400)
	got := messageLines(pdf, long, width)
	if len(got) != maxMessageRows {
		t.Fatalf("long message lines = %d, want %d", len(got), maxMessageRows)
	}
	last := got[len(got)-1]
	if !strings.HasSuffix(last, ellipsis) {
		t.Fatalf("last line %q missing ellipsis", last)
	}
	if w := pdf.GetStringWidth(last); w > width {
		t.Fatalf("last line width %.1f exceeds %.1f", w, width)
	}
}

func TestRowHeight(t *testing.T) {
	if got := rowHeight(1); got != minRowHeight {
		t.Fatalf("rowHeight(1) = %v, want %v", got, minRowHeight)
	}
	if got := rowHeight(4); got != 18 {
		t.Fatalf("rowHeight(4) = %v, want 18", got)
	}
}

func TestFitLeftKeepsTail(t *testing.T) {
	pdf := newMeasurePDF()
	path := "/wp-content/plugins/some-very-long-plugin-directory-name/includes/class-loader.php:123"
	got := fitLeft(pdf, path, 40)
	if !strings.HasPrefix(got, ellipsis) || !strings.HasSuffix(got, "php:123") {
		t.Fatalf("fitLeft = %q", got)
	}
	if w := pdf.GetStringWidth(got); w > 40 {
		t.Fatalf("fitLeft width %.1f exceeds 40", w)
	}
	if got := fitRight(pdf, "short", 40); got != "short" {
		t.Fatalf("fitRight short = %q", got)
	}
}
