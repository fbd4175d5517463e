package errorlog

import (
	"testing"
	"time"
)

func TestTimeNormalizer_Normalize(t *testing.T) {
	n := NewTimeNormalizer(time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{"01-Jan-2024 10:00:00 UTC", "2024-01-01 10:00:00"},
		{"01-Jan-2024 10:00:00", "2024-01-01 10:00:00"},
		{"01-Jan-2024 10:00:00 Europe/Berlin", "2024-01-01 09:00:00"},
		{"01-Jan-2024 10:00:00 EST", "2024-01-01 15:00:00"},
		{"01-Jan-2024 10:00:00 CET", "2024-01-01 09:00:00"},
		{"01-Jul-2024 10:00:00 PDT", "2024-07-01 17:00:00"},
		{"01-Jan-2024 10:00:00 GMT", "2024-01-01 10:00:00"},
		{"Mon Jan 01 12:00:00 2024", "2024-01-01 12:00:00"},
		{"Tue Feb  6 09:15:01 2024", "2024-02-06 09:15:01"},
		{"2024-01-02 03:04:05", "2024-01-02 03:04:05"},
		{"2024/01/02 03:04:05", "2024-01-02 03:04:05"},
		{"2024-01-02T03:04:05+02:00", "2024-01-02 01:04:05"},
		{"not a date", "not a date"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := n.Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeNormalizer_UsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("TEST", 3*3600)
	n := NewTimeNormalizer(loc)

	// zone-less input is read in loc and stays unchanged
	if got := n.Normalize("2024-01-02 03:04:05"); got != "2024-01-02 03:04:05" {
		t.Fatalf("Normalize zone-less = %q", got)
	}
	// explicit UTC is converted into loc
	if got := n.Normalize("01-Jan-2024 10:00:00 UTC"); got != "2024-01-01 13:00:00" {
		t.Fatalf("Normalize UTC = %q", got)
	}
}

func TestTimeNormalizer_AbbreviationWinsOverLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	n := NewTimeNormalizer(ny)

	if got := n.Normalize("01-Jan-2024 10:00:00 EST"); got != "2024-01-01 10:00:00" {
		t.Fatalf("Normalize EST in New York = %q", got)
	}
	if got := n.Normalize("01-Jan-2024 10:00:00 CET"); got != "2024-01-01 04:00:00" {
		t.Fatalf("Normalize CET in New York = %q", got)
	}
}

func TestFabricatedZone(t *testing.T) {
	parsed, err := time.ParseInLocation("02-Jan-2006 15:04:05 MST", "01-Jan-2024 10:00:00 XYZ", time.UTC)
	if err != nil {
		t.Fatalf("ParseInLocation: %v", err)
	}
	if !fabricatedZone(parsed, time.UTC) {
		t.Fatalf("XYZ should be reported as fabricated")
	}
	if fabricatedZone(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC) {
		t.Fatalf("UTC reported as fabricated")
	}
	numeric := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("", 0))
	if fabricatedZone(numeric, time.FixedZone("TEST", 3600)) {
		t.Fatalf("numeric +0000 offset reported as fabricated")
	}
}
