package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/sources"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Records     []errorlog.Record
	Sources     []string // candidate paths consulted on the last refresh
	Filter      sources.Filter
	LastUpdated time.Time
	LastError   error
	Refreshes   int
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	filter   sources.Filter
}

// Update replaces the stored records. When err is non-nil the previous
// records are kept but the error is recorded for visibility.
func (s *Store) Update(records []errorlog.Record, paths []string, filter sources.Filter, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		return
	}

	s.snapshot.Records = cloneRecords(records)
	s.snapshot.Sources = append([]string(nil), paths...)
	s.snapshot.Filter = filter
	s.snapshot.LastError = nil
	s.snapshot.Refreshes++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Records = cloneRecords(s.snapshot.Records)
	snap.Sources = append([]string(nil), s.snapshot.Sources...)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Filter returns the category the next refresh should scan.
func (s *Store) Filter() sources.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter changes the category scanned by subsequent refreshes.
func (s *Store) SetFilter(f sources.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

func cloneRecords(records []errorlog.Record) []errorlog.Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]errorlog.Record, len(records))
	copy(dup, records)
	return dup
}
