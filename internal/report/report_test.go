package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/five82/wpreport/internal/errorlog"
)

func sampleRecords() []errorlog.Record {
	return []errorlog.Record{
		{
			ID:       "a1",
			DateTime: "2024-01-15 10:30:00",
			LogType:  errorlog.WordPress,
			Level:    "Fatal error",
			Message:  `Uncaught Error: Call to undefined function "foo", bar()`,
			File:     "/wp-content/plugins/x/y.php:12",
		},
		{
			ID:       "b2",
			DateTime: "2024-01-15 10:31:00",
			LogType:  errorlog.Server,
			Level:    "Error",
			Message:  "open() failed (2: No such file or directory)",
			File:     errorlog.NoFile,
		},
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		kind, ext, want string
	}{
		{"errors", "csv", "wp-reporter-errors-2024-03-05-07-08-09.csv"},
		{"errors", ".pdf", "wp-reporter-errors-2024-03-05-07-08-09.pdf"},
		{"", "csv", "wp-reporter-errors-2024-03-05-07-08-09.csv"},
	}
	for _, tt := range tests {
		if got := Filename(tt.kind, tt.ext, now); got != tt.want {
			t.Fatalf("Filename(%q, %q) = %q, want %q", tt.kind, tt.ext, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "id,datetime,log_type,level,message,file" {
		t.Fatalf("header = %q", got)
	}
	if rows[1][4] != `Uncaught Error: Call to undefined function "foo", bar()` {
		t.Fatalf("quoted message round-trip = %q", rows[1][4])
	}
	if rows[2][2] != "Server" || rows[2][5] != "N/A" {
		t.Fatalf("server row = %v", rows[2])
	}
}

func TestWriteCSVEmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != "id,datetime,log_type,level,message,file\n" {
		t.Fatalf("empty csv = %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON(nil): %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Fatalf("WriteJSON(nil) = %q, want []", got)
	}

	buf.Reset()
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[0]["log_type"] != "WordPress" || decoded[1]["datetime"] != "2024-01-15 10:31:00" {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestCounts(t *testing.T) {
	counts := Counts(sampleRecords())
	if counts[errorlog.WordPress] != 1 || counts[errorlog.Server] != 1 {
		t.Fatalf("Counts = %v", counts)
	}
	if empty := Counts(nil); empty[errorlog.Server] != 0 {
		t.Fatalf("Counts(nil) = %v", empty)
	}
}
