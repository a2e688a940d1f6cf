package activity

import (
	"strings"
	"time"
)

// Instant is a parsed Jira timestamp. Values without an offset are naive and
// hold their wall clock in a UTC time.
type Instant struct {
	Time      time.Time
	HasOffset bool
}

type dateLayout struct {
	layout    string
	hasOffset bool
}

// Tried in order; the first successful parse wins
var dateLayouts = []dateLayout{
	{"2006-01-02T15:04:05.999999999-0700", true},
	{"2006-01-02T15:04:05-0700", true},
	{"2006-01-02T15:04:05.999999999Z07:00", true},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02", false},
}

// ParseInstant parses the timestamp formats Jira deployments emit. A trailing
// "Z" is read as +0000. The second result is false when nothing matched.
func ParseInstant(raw string) (Instant, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Instant{}, false
	}

	clean := raw
	if strings.HasSuffix(clean, "Z") {
		clean = strings.TrimSuffix(clean, "Z") + "+0000"
	}

	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, clean)
		if err == nil {
			return Instant{Time: t, HasOffset: l.hasOffset}, true
		}
	}
	return Instant{}, false
}

// Aware wraps a time that carries its own zone
func Aware(t time.Time) Instant {
	return Instant{Time: t, HasOffset: true}
}

// AtOrAfter reports whether a is at or after b. When exactly one side is
// naive it is taken as UTC; when both are naive their wall clocks compare.
func AtOrAfter(a, b Instant) bool {
	ta, tb := a.Time, b.Time

	switch {
	case a.HasOffset && b.HasOffset:
	case !a.HasOffset && !b.HasOffset:
		ta, tb = wallClock(ta), wallClock(tb)
	case !a.HasOffset:
		ta = wallClock(ta)
	default:
		tb = wallClock(tb)
	}

	return !ta.Before(tb)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
