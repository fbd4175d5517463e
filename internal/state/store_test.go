package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/sources"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	records := []errorlog.Record{{ID: "a", Message: "one"}, {ID: "b", Message: "two"}}
	paths := []string{"/var/www/html/wp-content/debug.log"}

	before := time.Now()
	s.Update(records, paths, sources.FilterWordPress, nil)

	snap := s.Snapshot()
	if len(snap.Records) != 2 || snap.Records[0].ID != "a" {
		t.Fatalf("snapshot records = %#v, want 2 records", snap.Records)
	}
	if len(snap.Sources) != 1 || snap.Filter != sources.FilterWordPress {
		t.Fatalf("snapshot sources = %v filter = %q", snap.Sources, snap.Filter)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil || snap.Refreshes != 1 {
		t.Fatalf("LastError = %v Refreshes = %d, want nil/1", snap.LastError, snap.Refreshes)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Records[0].ID = "mutated"
	snap.Sources[0] = "mutated"
	records[1].ID = "mutated"
	snap2 := s.Snapshot()
	if snap2.Records[0].ID != "a" || snap2.Records[1].ID != "b" || snap2.Sources[0] == "mutated" {
		t.Fatalf("Snapshot should clone slices; got %#v", snap2)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]errorlog.Record{{ID: "a"}}, nil, sources.FilterAll, nil)

	origErr := errors.New("watch failed")
	s.Update(nil, nil, sources.FilterAll, origErr)

	snap := s.Snapshot()
	if len(snap.Records) != 1 || snap.Records[0].ID != "a" {
		t.Fatalf("records changed on error: %#v", snap.Records)
	}
	if snap.LastError == nil || snap.LastError.Error() != "watch failed" {
		t.Fatalf("LastError = %v, want watch failed", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if snap.Refreshes != 1 {
		t.Fatalf("Refreshes = %d, want 1", snap.Refreshes)
	}

	s.Update(nil, nil, sources.FilterAll, nil)
	if snap := s.Snapshot(); snap.LastError != nil || snap.Records != nil {
		t.Fatalf("successful empty refresh = %#v, want cleared", snap)
	}
}

func TestStore_Filter(t *testing.T) {
	var s Store
	if got := s.Filter(); got != sources.FilterAll {
		t.Fatalf("Filter = %q, want all", got)
	}
	s.SetFilter(sources.FilterServer)
	if got := s.Filter(); got != sources.FilterServer {
		t.Fatalf("Filter = %q, want server", got)
	}
}
