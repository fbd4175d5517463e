// Package state shares the latest extraction result between the background
// poller and the UI.
//
// The poller is the single writer. It calls Update after every refresh.
// The UI reads with Snapshot on its own tick and never blocks the poller for
// longer than a slice copy.
//
// A failed refresh keeps the previous records and records the error, so the
// view keeps showing the last good data while surfacing the failure:
//
//	store.Update(records, paths, filter, nil) // replace records, clear error
//	store.Update(nil, nil, filter, err)       // keep records, set LastError
//
// Snapshot clones the record and source slices. Callers may mutate the
// returned snapshot freely.
//
// The store also carries the category filter chosen in the UI. The poller
// reads it with Filter before each extraction.
package state
