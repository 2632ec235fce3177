package analytics

import (
	"slices"
	"time"
)

// MaxStreakWalk bounds how many days CurrentStreak looks back from today.
const MaxStreakWalk = 365

// CurrentStreak counts consecutive completed scheduled days ending at asOf.
//
// Today is optimistic: a completed scheduled today counts, an incomplete
// today is skipped rather than breaking the streak. Unscheduled days are
// passed over without counting or breaking. The walk stops at the first
// scheduled day without a completion or after MaxStreakWalk days.
func CurrentStreak(completions []string, selectedDays []string, asOf time.Time) int {
	schedule := NewSchedule(selectedDays)
	if len(completions) == 0 || schedule.Empty() {
		return 0
	}
	done := dateSet(completions)
	today := Day(asOf)

	streak := 0
	if _, ok := done[FormatDate(today)]; ok && schedule.Includes(today) {
		streak = 1
	}
	for i := 1; i <= MaxStreakWalk; i++ {
		day := today.AddDate(0, 0, -i)
		if !schedule.Includes(day) {
			continue
		}
		if _, ok := done[FormatDate(day)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// BestStreak returns the longest run of completions in the history.
//
// For a daily habit a run is a sequence of dates one calendar day apart.
// With a weekly schedule only completions on scheduled days count, and a
// completion extends the run when it falls on the next scheduled day after
// the previous one. Daily habits are the special case where every day is
// scheduled, so both go through the same pass.
func BestStreak(completions []string, selectedDays []string) int {
	schedule := NewSchedule(selectedDays)
	if schedule.Empty() {
		return 0
	}
	dates := make([]time.Time, 0, len(completions))
	for s := range dateSet(completions) {
		d, _ := ParseDate(s)
		if schedule.Includes(d) {
			dates = append(dates, d)
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	best, run := 0, 0
	var prev time.Time
	for _, d := range dates {
		if next, ok := schedule.next(prev); run > 0 && ok && next.Equal(d) {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
		prev = d
	}
	return best
}
