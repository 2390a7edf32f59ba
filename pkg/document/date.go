package document

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// DisplayDateLayout is the lt-LT short date.
const DisplayDateLayout = "2006-01-02"

// DisplayLocation is where deadlines are read and shown. Falls back to UTC
// when the zone database is unavailable.
var DisplayLocation = loadLocation("Europe/Vilnius")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006",
	"2006.01.02",
	"2006/01/02",
	"02-01-2006",
}

// FormatDate renders a deadline for display as a Vilnius calendar date.
// Strings that already carry both Lithuanian markers ("2025 m. birželio 4 d.
// 10 val.") are returned as is, anything unparseable comes back unchanged.
func FormatDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if hasLocaleMarker(s) {
		return raw
	}
	if t, ok := ParseDate(s); ok {
		return t.In(DisplayLocation).Format(DisplayDateLayout)
	}
	return raw
}

// ParseDate tries the known layouts in order. Values without an offset are
// taken as Vilnius local time.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, DisplayLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func hasLocaleMarker(s string) bool {
	return strings.Contains(s, "d.") && strings.Contains(s, "val.")
}
