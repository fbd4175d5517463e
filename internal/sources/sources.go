// Package sources lists the log files wpreport scans.
package sources

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/five82/wpreport/internal/config"
	"github.com/five82/wpreport/internal/errorlog"
)

// Filter selects which category of candidates to scan.
type Filter string

const (
	FilterAll       Filter = ""
	FilterWordPress Filter = "wordpress"
	FilterServer    Filter = "server"
)

// ParseFilter accepts "", "all", "wordpress" and "server" in any case.
func ParseFilter(value string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return FilterAll, nil
	case "wordpress", "wp":
		return FilterWordPress, nil
	case "server":
		return FilterServer, nil
	default:
		return FilterAll, fmt.Errorf("unknown log type %q (want wordpress or server)", value)
	}
}

// Label returns a display name for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterWordPress:
		return "WordPress"
	case FilterServer:
		return "Server"
	default:
		return "All"
	}
}

// Next cycles All → WordPress → Server → All.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterWordPress
	case FilterWordPress:
		return FilterServer
	default:
		return FilterAll
	}
}

// Provider supplies candidate log files.
type Provider interface {
	Candidates(filter Filter) []errorlog.Candidate
	// Paths returns the distinct paths Candidates would yield.
	Paths(filter Filter) []string
}

// Static is a Provider backed by fixed path lists. Entries containing glob
// meta characters are expanded on every call.
type Static struct {
	WordPress []string
	Server    []string
	glob      func(pattern string) ([]string, error)
}

// Well-known server log locations on Apache, Nginx, PHP-FPM and shared hosts.
var defaultServerPaths = []string{
	"/var/log/apache2/error.log",
	"/var/log/apache2/error_log",
	"/var/log/httpd/error_log",
	"/usr/local/apache/logs/error_log",
	"/var/log/nginx/error.log",
	"/var/log/php_errors.log",
	"/var/log/php-fpm.log",
}

// FromConfig builds the candidate lists for cfg's WordPress install.
func FromConfig(cfg config.Config) *Static {
	wp := cfg.WordPress
	wordpress := []string{
		filepath.Join(wp.ContentDir, "debug.log"),
		filepath.Join(wp.ABSPath, "wp-content", "debug.log"),
		filepath.Join(wp.ABSPath, "error_log"),
		filepath.Join(wp.ABSPath, "wp-content", "error_log"),
		wp.DebugLog,
	}

	server := []string{cfg.Logs.PHPErrorLog}
	server = append(server, defaultServerPaths...)
	parent := filepath.Dir(filepath.Clean(wp.ABSPath))
	server = append(server,
		filepath.Join(parent, "logs", "error_log"),
		filepath.Join(parent, "error_logs", "error_log"),
	)
	server = append(server, cfg.Logs.ServerPaths...)

	return &Static{WordPress: wordpress, Server: server}
}

// Candidates implements Provider.
func (s *Static) Candidates(filter Filter) []errorlog.Candidate {
	var out []errorlog.Candidate
	if filter == FilterAll || filter == FilterWordPress {
		out = append(out, s.expand(s.WordPress, errorlog.WordPress)...)
	}
	if filter == FilterAll || filter == FilterServer {
		out = append(out, s.expand(s.Server, errorlog.Server)...)
	}
	return out
}

// Paths implements Provider.
func (s *Static) Paths(filter Filter) []string {
	cands := s.Candidates(filter)
	seen := make(map[string]struct{}, len(cands))
	paths := make([]string, 0, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.Path]; ok {
			continue
		}
		seen[c.Path] = struct{}{}
		paths = append(paths, c.Path)
	}
	return paths
}

func (s *Static) expand(paths []string, typ errorlog.LogType) []errorlog.Candidate {
	glob := s.glob
	if glob == nil {
		glob = expandGlob
	}
	var out []errorlog.Candidate
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !hasMeta(p) {
			out = append(out, errorlog.Candidate{Path: filepath.Clean(p), Type: typ})
			continue
		}
		matches, err := glob(p)
		if err != nil {
			continue
		}
		for _, m := range matches {
			out = append(out, errorlog.Candidate{Path: m, Type: typ})
		}
	}
	return out
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// expandGlob resolves a pattern to files, including ** recursion.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
}
