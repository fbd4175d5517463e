package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/wpreport/internal/config"
	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/sources"
	"github.com/five82/wpreport/internal/state"
)

// testSite lays out a WordPress install under a temp dir and returns a
// config pointing at it plus the debug.log path.
func testSite(t *testing.T) (config.Config, string) {
	t.Helper()
	root := t.TempDir()
	abspath := filepath.Join(root, "public")
	content := filepath.Join(abspath, "wp-content")
	if err := os.MkdirAll(content, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	cfg := config.Default()
	cfg.WordPress.ABSPath = abspath
	cfg.WordPress.ContentDir = content
	cfg.WordPress.PluginDir = filepath.Join(content, "plugins")
	cfg.WordPress.MUPluginDir = filepath.Join(content, "mu-plugins")
	cfg.Logs.Location = time.UTC
	return cfg, filepath.Join(content, "debug.log")
}

func phpLine(minute int, msg string) string {
	return fmt.Sprintf("[01-Jan-2024 10:%02d:00 UTC] PHP Warning:  %s in /tmp/x.php on line 1\n", minute, msg)
}

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestServiceRecords(t *testing.T) {
	cfg, debugLog := testSite(t)
	cfg.Logs.MaxResults = 2
	writeLines(t, debugLog,
		phpLine(1, "first"),
		"garbage that does not classify\n",
		phpLine(2, "second"),
		phpLine(3, "third"),
	)

	svc := NewService(cfg, zerolog.Nop())

	got := svc.Records(context.Background(), sources.FilterWordPress, 0)
	if len(got) != 2 {
		t.Fatalf("Records = %d, want default limit 2", len(got))
	}
	if got[0].Message != "third" || got[1].Message != "second" {
		t.Fatalf("Records order = %q, %q, want newest first", got[0].Message, got[1].Message)
	}
	if got[0].DateTime != "2024-01-01 10:03:00" {
		t.Fatalf("DateTime = %q", got[0].DateTime)
	}

	if all := svc.Records(context.Background(), sources.FilterWordPress, 10); len(all) != 3 {
		t.Fatalf("Records(limit 10) = %d, want 3", len(all))
	}
}

func TestServicePathsDeduplicates(t *testing.T) {
	cfg, debugLog := testSite(t)
	cfg.WordPress.DebugLog = debugLog // same as content/debug.log

	svc := NewService(cfg, zerolog.Nop())
	paths := svc.Paths(sources.FilterWordPress)

	count := 0
	for _, p := range paths {
		if p == debugLog {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("debug.log listed %d times in %v", count, paths)
	}
}

func TestPollerRefresh(t *testing.T) {
	cfg, debugLog := testSite(t)
	writeLines(t, debugLog, phpLine(1, "only"))

	store := &state.Store{}
	store.SetFilter(sources.FilterWordPress)
	p := NewPoller(NewService(cfg, zerolog.Nop()), store, time.Hour, zerolog.Nop())

	p.Refresh(context.Background())

	snap := store.Snapshot()
	if len(snap.Records) != 1 || snap.Records[0].Message != "only" {
		t.Fatalf("snapshot records = %#v", snap.Records)
	}
	if snap.Filter != sources.FilterWordPress || len(snap.Sources) == 0 {
		t.Fatalf("snapshot filter = %q sources = %v", snap.Filter, snap.Sources)
	}
}

func TestPollerRefreshSkipsCancelled(t *testing.T) {
	cfg, _ := testSite(t)
	store := &state.Store{}
	p := NewPoller(NewService(cfg, zerolog.Nop()), store, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Refresh(ctx)

	if snap := store.Snapshot(); snap.Refreshes != 0 {
		t.Fatalf("Refreshes = %d, want 0 after cancelled refresh", snap.Refreshes)
	}
}

func TestNewPollerDefaultInterval(t *testing.T) {
	p := NewPoller(nil, &state.Store{}, 0, zerolog.Nop())
	if p.interval != defaultPollInterval {
		t.Fatalf("interval = %v, want %v", p.interval, defaultPollInterval)
	}
}

func TestPollerTriggerCoalesces(t *testing.T) {
	p := NewPoller(nil, &state.Store{}, time.Hour, zerolog.Nop())
	p.Trigger()
	p.Trigger()
	if got := len(p.trigger); got != 1 {
		t.Fatalf("pending triggers = %d, want 1", got)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestPollerPicksUpWritesAndTriggers(t *testing.T) {
	cfg, debugLog := testSite(t)
	writeLines(t, debugLog, phpLine(1, "first"))

	store := &state.Store{}
	store.SetFilter(sources.FilterWordPress)
	p := NewPoller(NewService(cfg, zerolog.Nop()), store, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Refresh(ctx)
	p.Start(ctx)

	if len(store.Snapshot().Records) != 1 {
		t.Fatalf("initial refresh did not run")
	}

	// Append through the watcher path; the hour-long ticker cannot fire.
	f, err := os.OpenFile(debugLog, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString(phpLine(2, "second")); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	_ = f.Close()

	// Trigger as well so the test does not depend on inotify being available.
	time.Sleep(100 * time.Millisecond)
	if len(store.Snapshot().Records) != 2 {
		p.Trigger()
	}
	if !waitFor(t, 3*time.Second, func() bool { return len(store.Snapshot().Records) == 2 }) {
		t.Fatalf("records after append = %d, want 2", len(store.Snapshot().Records))
	}
}

func TestPollerStartDoesNotRepeatInitialRefresh(t *testing.T) {
	cfg, debugLog := testSite(t)
	writeLines(t, debugLog, phpLine(1, "only"))

	store := &state.Store{}
	p := NewPoller(NewService(cfg, zerolog.Nop()), store, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Refresh(ctx)
	p.Start(ctx)

	time.Sleep(150 * time.Millisecond)
	if got := store.Snapshot().Refreshes; got != 1 {
		t.Fatalf("Refreshes = %d after Start, want 1", got)
	}

	p.Trigger()
	if !waitFor(t, 2*time.Second, func() bool { return store.Snapshot().Refreshes == 2 }) {
		t.Fatalf("Refreshes = %d after Trigger, want 2", store.Snapshot().Refreshes)
	}
}

func TestPollerRefreshFailureKeepsRecords(t *testing.T) {
	failing := false
	tail := func(path string, n int) ([]string, error) {
		if failing {
			return nil, errors.New("input/output error")
		}
		return []string{strings.TrimSpace(phpLine(1, "kept"))}, nil
	}
	svc := &Service{
		Provider:     &sources.Static{WordPress: []string{"/logs/debug.log"}},
		Extractor:    errorlog.NewExtractor(errorlog.Options{Tail: tail, Logger: zerolog.Nop()}),
		DefaultLimit: 10,
	}
	store := &state.Store{}
	p := NewPoller(svc, store, time.Hour, zerolog.Nop())

	p.Refresh(context.Background())
	if snap := store.Snapshot(); len(snap.Records) != 1 || snap.LastError != nil {
		t.Fatalf("first refresh: records=%d err=%v", len(snap.Records), snap.LastError)
	}

	failing = true
	p.Refresh(context.Background())
	snap := store.Snapshot()
	if snap.LastError == nil || !strings.Contains(snap.LastError.Error(), "input/output error") {
		t.Fatalf("LastError = %v, want the read failure", snap.LastError)
	}
	if len(snap.Records) != 1 || snap.Records[0].Message != "kept" {
		t.Fatalf("records after failure = %+v, want previous record kept", snap.Records)
	}

	failing = false
	p.Refresh(context.Background())
	if snap := store.Snapshot(); snap.LastError != nil {
		t.Fatalf("LastError = %v after recovery, want nil", snap.LastError)
	}
}
