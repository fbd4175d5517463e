// Package app is the composition root for the interactive viewer.
//
// # Overview
//
// Run wires configuration, extraction, polling, state and the UI:
//
//  1. Open the file logger named by [logging] file so the terminal stays clean
//  2. Load user preferences (theme and last log type filter)
//  3. Build a Service: candidate provider, classifier and extractor for the
//     configured WordPress install
//  4. Create the shared state.Store and run one refresh synchronously
//  5. Start the Poller goroutine
//  6. Run the bubbletea program until the user quits or ctx is cancelled
//
// # Refresh triggers
//
// The Poller re-extracts when any of these happen:
//
//   - the ticker fires (default 5s, --poll overrides)
//   - fsnotify reports a write, create, remove or rename on a watched log file
//   - the UI calls Trigger, for example after the filter changes
//
// Only candidate files that exist are watched. Files that appear later are
// picked up on the next refresh. A failing watcher is logged and the ticker
// keeps the view current.
//
// # Service
//
// Service is also used by the CLI and the HTTP server. Each caller runs its
// own extraction. There is no shared cache.
package app
