// Package schedule parses free-text weekly availability and evaluates it
// against a reference instant. Everything here is pure: no clocks, no I/O.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Interval is one availability window, in minutes of day (0..1439).
type Interval struct {
	Start int
	End   int
}

// Parse converts comma-separated "HH:MM-HH:MM" ranges into intervals.
// Malformed segments are skipped, never fatal: one bad segment must not
// invalidate the rest of the schedule. The skipped count is returned so
// callers that ingest driver records can log it.
func Parse(text string) (intervals []Interval, skipped int) {
	if strings.TrimSpace(text) == "" {
		return nil, 0
	}
	for _, seg := range strings.Split(text, ",") {
		seg = strings.TrimSpace(seg)
		start, end, ok := strings.Cut(seg, "-")
		if !ok {
			skipped++
			continue
		}
		s, err := minuteOfDay(start)
		if err != nil {
			skipped++
			continue
		}
		e, err := minuteOfDay(end)
		if err != nil {
			skipped++
			continue
		}
		intervals = append(intervals, Interval{Start: s, End: e})
	}
	return intervals, skipped
}

func minuteOfDay(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, strconv.ErrSyntax
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, strconv.ErrRange
	}
	return h*60 + m, nil
}

// Matches reports whether the instant falls inside any interval, bounds
// inclusive. Intervals with End < Start never match: the check is a plain
// inclusive range comparison, so overnight windows are not wrapped.
func Matches(intervals []Interval, at time.Time) bool {
	now := at.Hour()*60 + at.Minute()
	for _, iv := range intervals {
		if now >= iv.Start && now <= iv.End {
			return true
		}
	}
	return false
}

// Available answers "is this driver available at the given instant?".
// A manual override always wins over schedule text. Without an override,
// the schedule text is parsed and matched; no usable intervals means
// unavailable.
func Available(override *bool, text string, at time.Time) bool {
	if override != nil {
		return *override
	}
	intervals, _ := Parse(text)
	return Matches(intervals, at)
}
