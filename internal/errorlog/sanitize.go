package errorlog

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Roots are the absolute WordPress directories redacted from file paths.
type Roots struct {
	ABSPath     string
	ContentDir  string
	PluginDir   string
	MUPluginDir string
}

// PathSanitizer rewrites absolute paths into short web-safe markers.
type PathSanitizer struct {
	replacements []replacement
}

type replacement struct {
	root   string
	marker string
}

var (
	deepAbsPrefix  = regexp.MustCompile(`^/[^/]+/[^/]+/[^/]+`)
	markerPrefixes = []string{"/wp-content", "/wp-includes", "/wp-admin", "..."}
)

// NewPathSanitizer builds a sanitizer for the given roots. Empty roots are ignored.
func NewPathSanitizer(roots Roots) *PathSanitizer {
	candidates := []replacement{
		{root: roots.ABSPath, marker: ""},
		{root: roots.ContentDir, marker: "/wp-content"},
		{root: roots.MUPluginDir, marker: "/wp-content/mu-plugins"},
		{root: roots.PluginDir, marker: "/wp-content/plugins"},
	}
	s := &PathSanitizer{}
	for _, c := range candidates {
		root := strings.TrimSpace(c.root)
		if root == "" {
			continue
		}
		root = strings.TrimRight(filepath.ToSlash(root), "/")
		if root == "" {
			continue
		}
		s.replacements = append(s.replacements, replacement{root: root, marker: c.marker})
	}
	// Nested roots: the plugin dir must win over the content dir and ABSPATH.
	sort.SliceStable(s.replacements, func(i, j int) bool {
		return len(s.replacements[i].root) > len(s.replacements[j].root)
	})
	return s
}

// Sanitize redacts path. Already sanitized values come back unchanged.
func (s *PathSanitizer) Sanitize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == NoFile {
		return path
	}
	if s != nil {
		for _, r := range s.replacements {
			if path == r.root {
				return r.marker
			}
			if strings.HasPrefix(path, r.root+"/") {
				path = r.marker + strings.TrimPrefix(path, r.root)
				break
			}
		}
	}
	// Rewritten paths go through the same collapse so a second pass is a no-op.
	if hasMarkerPrefix(path) {
		return path
	}
	return deepAbsPrefix.ReplaceAllString(path, "...")
}

func hasMarkerPrefix(path string) bool {
	for _, prefix := range markerPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
