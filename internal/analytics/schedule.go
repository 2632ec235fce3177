package analytics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrUnknownWeekday = errors.New("unknown weekday name")

// Indexed by time.Weekday.
var dayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Schedule is the weekly schedule of a habit. The zero value schedules every day.
type Schedule struct {
	days       [7]bool
	restricted bool
}

// NewSchedule builds a schedule from weekday names. An empty list means the
// habit is daily. Unknown names are ignored, so a list holding only unknown
// names schedules nothing.
func NewSchedule(selectedDays []string) Schedule {
	s := Schedule{restricted: len(selectedDays) > 0}
	for _, name := range selectedDays {
		if i := weekdayIndex(name); i >= 0 {
			s.days[i] = true
		}
	}
	return s
}

// Daily reports whether every date is scheduled.
func (s Schedule) Daily() bool {
	return !s.restricted || s.days == [7]bool{true, true, true, true, true, true, true}
}

// Includes reports whether the calendar date t is a scheduled day.
func (s Schedule) Includes(t time.Time) bool {
	if !s.restricted {
		return true
	}
	return s.days[t.Weekday()]
}

// Empty reports whether no weekday at all is scheduled.
func (s Schedule) Empty() bool {
	return s.restricted && s.days == [7]bool{}
}

// next returns the first scheduled date strictly after t, looking at most a week ahead.
func (s Schedule) next(t time.Time) (time.Time, bool) {
	for i := 1; i <= 7; i++ {
		d := t.AddDate(0, 0, i)
		if s.Includes(d) {
			return d, true
		}
	}
	return time.Time{}, false
}

// IsScheduled reports whether the YYYY-MM-DD date is scheduled for a habit
// with the given weekdays. Empty selectedDays schedule every date.
func IsScheduled(date string, selectedDays []string) bool {
	if len(selectedDays) == 0 {
		return true
	}
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return ScheduledOn(d, selectedDays)
}

// ScheduledOn is IsScheduled for an already parsed date.
func ScheduledOn(t time.Time, selectedDays []string) bool {
	return NewSchedule(selectedDays).Includes(t)
}

// NormalizeDays validates weekday names and returns them lowercased,
// deduplicated and ordered Monday first.
func NormalizeDays(days []string) ([]string, error) {
	seen := [7]bool{}
	for _, name := range days {
		i := weekdayIndex(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
		}
		seen[i] = true
	}
	out := make([]string, 0, len(days))
	for i := 1; i <= 7; i++ {
		if seen[i%7] {
			out = append(out, dayNames[i%7])
		}
	}
	return out, nil
}

func weekdayIndex(name string) int {
	return slices.Index(dayNames[:], strings.ToLower(strings.TrimSpace(name)))
}
