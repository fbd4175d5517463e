// Package ui provides the interactive error viewer built on Bubble Tea.
//
// # Layout
//
//	┌ header: site, counts per log type, refresh age, last error ┐
//	│ command bar: most used keys                                 │
//	├ Errors (All) ───────────────────────────────────────────────┤
//	│ Date  Type  Level  Message                       File       │
//	├ Detail 3/10 ────────────────────────────────────────────────┤
//	│ full record in a scrollable viewport                        │
//	└ status: search prompt, export result or search summary     ┘
//
// # Data flow
//
// The Model never extracts records itself. A tick re-reads state.Store and
// the background poller in package app keeps the store current. Changing
// the log type filter writes it to the store and calls Options.Refresh so
// the poller re-extracts immediately.
//
// Records are filtered locally by log type and by the search pattern. The
// selection is tracked by record id so refreshes that prepend new errors do
// not move the highlight to a different record.
//
// # Files
//
//   - app.go: Model, Update loop, selection and filter handling
//   - table.go: record table columns and rows
//   - detail.go: detail viewport content
//   - search.go: regex search prompt
//   - export.go: CSV and PDF export commands
//   - header.go: header, command bar, status line and boxes
//   - theme.go: palettes and level colors
//   - keys.go, help.go: bindings and the help overlay
package ui
