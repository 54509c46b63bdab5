package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date formats accepted on the command line and used with external tools.
const (
	// DateOnlyFormat is what git --after/--before and svn {date} boundaries take.
	DateOnlyFormat = "2006-01-02"

	// DateTimeFormat is the full timestamp representation.
	DateTimeFormat = time.RFC3339
)

// Captures "N [units] ago", e.g. "2 years ago", "3 months ago", "1 week ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// ParseRelativeTime converts strings like "2 years ago" into a time.Time in
// the past, relative to now.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.Add(time.Duration(-value) * 7 * 24 * time.Hour), nil
	case "day":
		return now.Add(time.Duration(-value) * 24 * time.Hour), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	case "minute":
		return now.Add(time.Duration(-value) * time.Minute), nil
	default:
		// Should be caught by the regex, but good for safety
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", unit)
	}
}

// ParseTimeInput converts a user-provided boundary into a time.Time. It
// accepts a date ("2023-04-01"), a full timestamp (RFC3339), or a relative
// phrase ("6 months ago").
func ParseTimeInput(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateOnlyFormat, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t.UTC(), nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Expected YYYY-MM-DD, RFC3339, or 'N [units] ago'", s)
	}
	return t.UTC(), nil
}

// GetNow returns the current time in UTC. Report math compares tool output
// (normalized to UTC) against it, so both sides must share a location.
func GetNow() time.Time {
	return time.Now().UTC()
}
