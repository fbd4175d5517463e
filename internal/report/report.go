package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/five82/wpreport/internal/errorlog"
)

const filenameLayout = "2006-01-02-15-04-05"

// Filename returns wp-reporter-<kind>-YYYY-MM-DD-HH-MM-SS.<ext>.
func Filename(kind, ext string, now time.Time) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "errors"
	}
	return fmt.Sprintf("wp-reporter-%s-%s.%s", kind, now.Format(filenameLayout), strings.TrimPrefix(ext, "."))
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []errorlog.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(errorlog.FieldNames()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes records as an indented JSON array. A nil slice is written as [].
func WriteJSON(w io.Writer, records []errorlog.Record) error {
	if records == nil {
		records = []errorlog.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Counts tallies records per log type.
func Counts(records []errorlog.Record) map[errorlog.LogType]int {
	counts := map[errorlog.LogType]int{errorlog.WordPress: 0, errorlog.Server: 0}
	for _, r := range records {
		counts[r.LogType]++
	}
	return counts
}
