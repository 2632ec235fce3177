package analytics

import (
	"math"
	"slices"
	"time"
)

// Tracked is a habit together with its cached streaks.
type Tracked struct {
	History
	CurrentStreak int
	BestStreak    int
}

type Stats struct {
	TotalHabits           int `json:"total_habits"`
	TotalCompletions      int `json:"total_completions"`
	AverageCompletionRate int `json:"average_completion_rate"`
	LongestStreak         int `json:"longest_streak"`
	CurrentActiveStreaks  int `json:"current_active_streaks"`
}

// Aggregate folds per-habit results into dashboard totals. The average is the
// rounded mean of each habit's monthly completion rate.
func Aggregate(habits []Tracked, asOf time.Time) Stats {
	if len(habits) == 0 {
		return Stats{}
	}
	stats := Stats{TotalHabits: len(habits)}
	rateSum := 0
	for _, h := range habits {
		stats.TotalCompletions += len(dateSet(h.Completions))
		rateSum += CompletionRate(h.History, Month(), asOf)
		stats.LongestStreak = max(stats.LongestStreak, h.BestStreak)
		if h.CurrentStreak > 0 {
			stats.CurrentActiveStreaks++
		}
	}
	stats.AverageCompletionRate = int(math.Round(float64(rateSum) / float64(len(habits))))
	return stats
}

// Summary bundles the metrics shown for a single habit.
type Summary struct {
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	WeekRate         int    `json:"week_rate"`
	MonthRate        int    `json:"month_rate"`
	TotalCompletions int    `json:"total_completions"`
	LastCompletion   string `json:"last_completion,omitempty"`
}

func Summarize(h History, asOf time.Time) Summary {
	set := dateSet(h.Completions)
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	slices.Sort(dates)

	s := Summary{
		CurrentStreak:    CurrentStreak(h.Completions, h.SelectedDays, asOf),
		BestStreak:       BestStreak(h.Completions, h.SelectedDays),
		WeekRate:         CompletionRate(h, Week(), asOf),
		MonthRate:        CompletionRate(h, Month(), asOf),
		TotalCompletions: len(dates),
	}
	if len(dates) > 0 {
		s.LastCompletion = dates[len(dates)-1]
	}
	return s
}

// CalendarDay is one cell of a month view.
type CalendarDay struct {
	Date      string `json:"date"`
	Scheduled bool   `json:"scheduled"`
	Completed bool   `json:"completed"`
}

// Calendar lays out the month containing month, marking scheduled and
// completed days with the same schedule predicate the streaks use. Days
// before the habit was created are never scheduled.
func Calendar(h History, month time.Time) []CalendarDay {
	start := MonthStart(month)
	end := start.AddDate(0, 1, -1)
	schedule := NewSchedule(h.SelectedDays)
	done := dateSet(h.Completions)
	created, err := ParseDate(h.CreatedDate)
	bounded := err == nil

	days := make([]CalendarDay, 0, 31)
	for _, date := range DateRange(start, end) {
		d, _ := ParseDate(date)
		_, completed := done[date]
		days = append(days, CalendarDay{
			Date:      date,
			Scheduled: schedule.Includes(d) && !(bounded && d.Before(created)),
			Completed: completed,
		})
	}
	return days
}

// TaskOverdue reports whether a task due on dueDate is late as of today.
// Completed tasks are never overdue. A malformed due date is not overdue.
func TaskOverdue(dueDate string, completed bool, today time.Time) bool {
	if completed {
		return false
	}
	due, err := ParseDate(dueDate)
	if err != nil {
		return false
	}
	return due.Before(Day(today))
}
