// Package analytics computes streaks, completion rates and dashboard
// statistics from a habit's completion history. Streak, rate and aggregate
// functions take the current date as asOf; only Today and TodayIn read the
// wall clock.
package analytics

import (
	"time"
)

// DateLayout is the canonical form of a calendar date in storage and on the wire.
const DateLayout = "2006-01-02"

// Civil dates are carried as midnight UTC values holding the local year,
// month and day. Day arithmetic on them is immune to DST transitions.

// Day truncates t to the calendar day seen in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays moves a calendar date n days forward (or backward for negative n).
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// FormatDate renders t as YYYY-MM-DD using t's local components.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD into a civil date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func Today() string {
	return FormatDate(time.Now())
}

func TodayIn(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return FormatDate(time.Now().In(loc))
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func MonthStart(t time.Time) time.Time {
	d := Day(t)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DateRange lists every date from start to end inclusive, ascending.
// It is empty when start is after end.
func DateRange(start, end time.Time) []string {
	from, to := Day(start), Day(end)
	if from.After(to) {
		return []string{}
	}
	days := int(to.Sub(from).Hours()/24) + 1
	out := make([]string, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, FormatDate(d))
	}
	return out
}

// DayName returns the lowercase weekday name of t, sunday through saturday.
func DayName(t time.Time) string {
	return dayNames[t.Weekday()]
}

// dateSet parses and deduplicates completion dates. Malformed entries are dropped.
func dateSet(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil {
			continue
		}
		set[FormatDate(d)] = struct{}{}
	}
	return set
}
