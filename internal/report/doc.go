// Package report renders extracted error records for people and tools.
//
// Four sinks share the same record slice:
//
//   - WriteCSV: RFC 4180 rows under an id,datetime,log_type,level,message,file header
//   - WriteJSON: an indented array of records
//   - WriteTable: a lipgloss table sized to the terminal width
//   - WritePDF: a landscape A4 report with a summary block and a paged error table
//
// Filename produces the wp-reporter-<kind>-<timestamp>.<ext> names used by
// the TUI exports and the HTTP attachments.
package report
