package errorlog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/five82/wpreport/internal/logtail"
)

// Default per-file line budgets. They exceed typical result counts because
// not every line classifies.
const (
	DefaultWordPressLines = 50
	DefaultServerLines    = 30
)

// Candidate is a log file to scan and the category its lines belong to.
type Candidate struct {
	Path string
	Type LogType
}

// TailFunc reads the last n non-blank lines of a file, oldest first.
type TailFunc func(path string, n int) ([]string, error)

// Options configure an Extractor.
type Options struct {
	Classifier     *Classifier
	WordPressLines int
	ServerLines    int
	Logger         zerolog.Logger
	Tail           TailFunc // nil uses logtail.Read
}

// Extractor collects recent error records from candidate log files.
type Extractor struct {
	classifier *Classifier
	budgets    map[LogType]int
	logger     zerolog.Logger
	tail       TailFunc
}

// NewExtractor builds an Extractor, filling unset options with defaults.
func NewExtractor(opts Options) *Extractor {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = NewClassifier(nil, nil)
	}
	wpLines := opts.WordPressLines
	if wpLines <= 0 {
		wpLines = DefaultWordPressLines
	}
	serverLines := opts.ServerLines
	if serverLines <= 0 {
		serverLines = DefaultServerLines
	}
	tail := opts.Tail
	if tail == nil {
		tail = logtail.Read
	}
	return &Extractor{
		classifier: classifier,
		budgets:    map[LogType]int{WordPress: wpLines, Server: serverLines},
		logger:     opts.Logger,
		tail:       tail,
	}
}

// Extract reads every candidate in order and returns at most maxResults
// records, most recent first by read order. Records are not sorted by
// timestamp across files. Unreadable files are skipped. A cancelled ctx
// stops the scan between files.
func (e *Extractor) Extract(ctx context.Context, candidates []Candidate, maxResults int) []Record {
	records, _ := e.Scan(ctx, candidates, maxResults)
	return records
}

// Scan is Extract that also reports a failed scan: ctx ended before every
// candidate was read, or every file that exists failed to read. Records
// collected so far are returned either way.
func (e *Extractor) Scan(ctx context.Context, candidates []Candidate, maxResults int) ([]Record, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	var (
		pool     []Record
		readErrs []error
		read     int
		scanErr  error
	)
	for _, cand := range dedupe(candidates) {
		if err := ctx.Err(); err != nil {
			e.logger.Debug().Err(err).Msg("extraction cancelled")
			scanErr = fmt.Errorf("scan cancelled: %w", err)
			break
		}
		records, ok, err := e.scan(cand)
		if err != nil {
			readErrs = append(readErrs, err)
			continue
		}
		if ok {
			read++
		}
		pool = append(pool, records...)
	}
	if scanErr == nil && read == 0 && len(readErrs) > 0 {
		scanErr = fmt.Errorf("no log could be read: %w", errors.Join(readErrs...))
	}

	// Reverse into most-recent-first order.
	for i, j := 0, len(pool)-1; i < j; i, j = i+1, j-1 {
		pool[i], pool[j] = pool[j], pool[i]
	}
	if len(pool) > maxResults {
		pool = pool[:maxResults]
	}
	return pool, scanErr
}

// scan reads one candidate. ok reports that the file had data.
func (e *Extractor) scan(cand Candidate) ([]Record, bool, error) {
	budget := e.budgets[cand.Type]
	if budget <= 0 {
		budget = DefaultServerLines
	}
	lines, err := e.tail(cand.Path, budget)
	if err != nil {
		e.logger.Warn().Err(err).Str("path", cand.Path).Msg("skipping unreadable log")
		return nil, false, fmt.Errorf("%s: %w", cand.Path, err)
	}
	if len(lines) == 0 {
		e.logger.Debug().Str("path", cand.Path).Msg("no log data")
		return nil, false, nil
	}

	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if rec, ok := e.classifier.Classify(line, cand.Type); ok {
			records = append(records, rec)
		}
	}
	e.logger.Debug().
		Str("path", cand.Path).
		Str("log_type", string(cand.Type)).
		Int("lines", len(lines)).
		Int("records", len(records)).
		Msg("scanned log")
	return records, true, nil
}

// dedupe drops empty paths and later repeats of the same cleaned path.
func dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		path := strings.TrimSpace(cand.Path)
		if path == "" {
			continue
		}
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, Candidate{Path: path, Type: cand.Type})
	}
	return out
}
