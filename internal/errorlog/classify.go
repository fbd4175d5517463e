package errorlog

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// selfLogMarker prefixes lines this tool writes into PHP's error log.
const selfLogMarker = "WP Reporter:"

// matcher recognizes one log line shape and builds a record from its submatches.
type matcher struct {
	name  string
	re    *regexp.Regexp
	build func(c *Classifier, m []string, category LogType) Record
}

var (
	fileInMessageRe = regexp.MustCompile(`\b(?:in|at|from)\s+([^\s,]+\.php)`)
	bareFileRe      = regexp.MustCompile(`([^\s]+\.php)`)
	microsRe        = regexp.MustCompile(`\.\d+`)
)

// defaultMatchers is the priority order. The first match wins.
var defaultMatchers = []matcher{
	{
		name: "php_file",
		re:   regexp.MustCompile(`^\[([^\]]+)\]\s+PHP\s+([^:]+):\s+(.+?)\s+in\s+(\S+)\s+on\s+line\s+(\d+)`),
		build: func(c *Classifier, m []string, category LogType) Record {
			return Record{
				DateTime: c.times.Normalize(m[1]),
				LogType:  category,
				Level:    strings.TrimSpace(m[2]),
				Message:  strings.TrimSpace(m[3]),
				File:     c.paths.Sanitize(m[4]) + ":" + m[5],
			}
		},
	},
	{
		name: "php",
		re:   regexp.MustCompile(`^\[([^\]]+)\]\s+PHP\s+([^:]+):\s+(.+)`),
		build: func(c *Classifier, m []string, category LogType) Record {
			message := strings.TrimSpace(m[3])
			return Record{
				DateTime: c.times.Normalize(m[1]),
				LogType:  category,
				Level:    strings.TrimSpace(m[2]),
				Message:  message,
				File:     c.fileFromMessage(message),
			}
		},
	},
	{
		name: "apache",
		re:   regexp.MustCompile(`^\[([^\]]+)\]\s+\[([^\]]+)\]\s+(?:\[[^\]]+\]\s+)?(.+)`),
		build: func(c *Classifier, m []string, _ LogType) Record {
			message := strings.TrimSpace(m[3])
			return Record{
				DateTime: c.apacheTime(m[1]),
				LogType:  Server,
				Level:    upperFirst(strings.TrimSpace(m[2])),
				Message:  message,
				File:     c.fileFromMessage(message),
			}
		},
	},
	{
		name: "nginx",
		re:   regexp.MustCompile(`^(\d{4}/\d{2}/\d{2}\s+\d{2}:\d{2}:\d{2})\s+\[([^\]]+)\]\s+[^:]+:\s*(.+)`),
		build: func(c *Classifier, m []string, _ LogType) Record {
			message := strings.TrimSpace(m[3])
			return Record{
				DateTime: c.times.Normalize(strings.ReplaceAll(m[1], "/", "-")),
				LogType:  Server,
				Level:    upperFirst(strings.TrimSpace(m[2])),
				Message:  message,
				File:     c.fileFromMessage(message),
			}
		},
	},
	{
		name: "generic",
		re:   regexp.MustCompile(`^\[([^\]]+)\]\s+(.+)`),
		build: func(c *Classifier, m []string, category LogType) Record {
			message := strings.TrimSpace(m[2])
			return Record{
				DateTime: c.times.Normalize(m[1]),
				LogType:  category,
				Level:    "Error",
				Message:  message,
				File:     c.fileFromMessage(message),
			}
		},
	},
}

// Classifier turns raw log lines into records. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	paths    *PathSanitizer
	times    *TimeNormalizer
	matchers []matcher
}

// NewClassifier builds a classifier using the default format priority.
func NewClassifier(paths *PathSanitizer, times *TimeNormalizer) *Classifier {
	if paths == nil {
		paths = NewPathSanitizer(Roots{})
	}
	if times == nil {
		times = NewTimeNormalizer(nil)
	}
	return &Classifier{paths: paths, times: times, matchers: defaultMatchers}
}

// Classify returns the record for line, or false when no format matches.
// category is the LogType of the file the line came from.
func (c *Classifier) Classify(line string, category LogType) (Record, bool) {
	line = strings.TrimSpace(line)
	mt, m := c.match(line)
	if m == nil {
		return Record{}, false
	}
	rec := mt.build(c, m, category)
	rec.ID = LineID(line)
	return rec, true
}

// match returns the first matcher that recognizes the trimmed line and its
// submatches. Blank lines and the reporter's own log lines never match.
func (c *Classifier) match(line string) (matcher, []string) {
	if line == "" || strings.Contains(line, selfLogMarker) {
		return matcher{}, nil
	}
	for _, mt := range c.matchers {
		if m := mt.re.FindStringSubmatch(line); m != nil {
			return mt, m
		}
	}
	return matcher{}, nil
}

func (c *Classifier) fileFromMessage(message string) string {
	if m := fileInMessageRe.FindStringSubmatch(message); m != nil {
		return c.paths.Sanitize(m[1])
	}
	if m := bareFileRe.FindStringSubmatch(message); m != nil {
		return c.paths.Sanitize(m[1])
	}
	return NoFile
}

// apacheTime drops fractional seconds ("Mon Jan 01 12:00:00.123456 2024").
func (c *Classifier) apacheTime(raw string) string {
	if normalized, ok := c.times.normalize(microsRe.ReplaceAllString(raw, "")); ok {
		return normalized
	}
	return raw
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
