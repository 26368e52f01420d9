package utils

import (
	"sort"
	"time"

	"github.com/julianstephens/phaseflow/internal/constants"
)

// Day truncates t to midnight of its calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayIn returns midnight in loc of t's calendar day as read in t's own
// location. The year, month and day are kept; the instant is not.
func DayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateKey returns the canonical YYYY-MM-DD key of day.
func DateKey(day time.Time) string {
	return day.Format(constants.DateFormat)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// IsWeekendDay reports whether day is a Saturday or Sunday.
func IsWeekendDay(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// EnumerateDays returns every calendar day from start to end, inclusive on
// both ends, each at midnight. It returns nil when end is before start.
func EnumerateDays(start, end time.Time) []time.Time {
	first, last := Day(start), Day(end)
	if last.Before(first) {
		return nil
	}

	var days []time.Time
	y, m, d := first.Date()
	loc := first.Location()
	// Stepping through time.Date keeps every element at midnight across DST changes
	for i := 0; ; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		if day.After(last) {
			break
		}
		days = append(days, day)
	}
	return days
}

// DaysBetween returns the inclusive day count between start and end, or 0
// when end is before start.
func DaysBetween(start, end time.Time) int {
	return len(EnumerateDays(start, end))
}

// MinDay returns the earlier of two days.
func MinDay(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// ExcludeDays returns days without any day whose key appears in excluded.
func ExcludeDays(days []time.Time, excluded []time.Time) []time.Time {
	if len(excluded) == 0 {
		return days
	}
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[DateKey(e)] = true
	}
	kept := make([]time.Time, 0, len(days))
	for _, d := range days {
		if !skip[DateKey(d)] {
			kept = append(kept, d)
		}
	}
	return kept
}

// UniqueSortedDays normalises days to midnight, removes duplicates and sorts
// them in ascending order.
func UniqueSortedDays(days []time.Time) []time.Time {
	seen := make(map[string]bool, len(days))
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		norm := Day(d)
		key := DateKey(norm)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, norm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
