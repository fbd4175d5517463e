package errorlog

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateTimeLayout is the normalized datetime representation.
const DateTimeLayout = "2006-01-02 15:04:05"

// Layouts seen in PHP, Apache and Nginx error logs, tried before the
// general-purpose parser.
var knownLayouts = []string{
	"02-Jan-2006 15:04:05 MST",
	"02-Jan-2006 15:04:05",
	"Mon Jan 02 15:04:05 2006",
	"Mon Jan _2 15:04:05 2006",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"02/Jan/2006:15:04:05 -0700",
	time.RFC3339,
}

// Offsets for zone abbreviations PHP and syslog commonly print. time.Parse
// gives any abbreviation it does not know a zero offset, so these are
// resolved before the layouts are tried.
var zoneAbbreviations = map[string]int{
	"UTC": 0, "GMT": 0, "WET": 0,
	"BST": 1 * 3600, "WEST": 1 * 3600, "CET": 1 * 3600,
	"CEST": 2 * 3600, "EET": 2 * 3600,
	"EEST": 3 * 3600, "MSK": 3 * 3600,
	"IST": 5*3600 + 1800,
	"JST": 9 * 3600, "KST": 9 * 3600,
	"AWST": 8 * 3600, "ACST": 9*3600 + 1800, "AEST": 10 * 3600, "AEDT": 11 * 3600,
	"NZST": 12 * 3600, "NZDT": 13 * 3600,
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
	"AKST": -9 * 3600, "AKDT": -8 * 3600,
	"HST": -10 * 3600,
}

// TimeNormalizer rewrites timestamp text into DateTimeLayout.
type TimeNormalizer struct {
	loc *time.Location
}

// NewTimeNormalizer interprets zone-less timestamps in loc and renders every
// result in loc. A nil loc means time.Local.
func NewTimeNormalizer(loc *time.Location) *TimeNormalizer {
	if loc == nil {
		loc = time.Local
	}
	return &TimeNormalizer{loc: loc}
}

// Normalize returns raw in DateTimeLayout, or raw unchanged when it cannot be parsed.
func (n *TimeNormalizer) Normalize(raw string) string {
	if normalized, ok := n.normalize(raw); ok {
		return normalized
	}
	return raw
}

func (n *TimeNormalizer) normalize(raw string) (string, bool) {
	t, ok := n.parse(raw)
	if !ok {
		return "", false
	}
	return t.In(n.location()).Format(DateTimeLayout), true
}

func (n *TimeNormalizer) location() *time.Location {
	if n == nil || n.loc == nil {
		return time.Local
	}
	return n.loc
}

func (n *TimeNormalizer) parse(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	loc := n.location()

	if idx := strings.LastIndexByte(value, ' '); idx > 0 {
		zone := value[idx+1:]
		// PHP writes the zone as an identifier ("01-Jan-2024 10:00:00 Europe/Berlin").
		if strings.Contains(zone, "/") {
			if loc, err := time.LoadLocation(zone); err == nil {
				if t, ok := parseKnown(value[:idx], loc); ok {
					return t, true
				}
			}
		}
		if offset, ok := zoneAbbreviations[zone]; ok {
			if t, ok := parseKnown(value[:idx], time.FixedZone(zone, offset)); ok {
				return t, true
			}
		}
	}
	if t, ok := parseKnown(value, loc); ok {
		return t, true
	}
	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseKnown(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range knownLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		if fabricatedZone(t, loc) {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// fabricatedZone reports whether t carries an abbreviation that neither loc
// nor UTC defines. time.Parse records those with a zero offset.
func fabricatedZone(t time.Time, loc *time.Location) bool {
	if t.Location() == loc || t.Location() == time.UTC {
		return false
	}
	name, offset := t.Zone()
	return offset == 0 && name != "" && name != "UTC" && name != "GMT"
}
