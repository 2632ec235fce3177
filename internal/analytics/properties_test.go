package analytics_test

import (
	"slices"
	"testing"
	"time"

	"github.com/limbo/habitflow/internal/analytics"
	"pgregory.net/rapid"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type generated struct {
	History analytics.History
	AsOf    time.Time
}

// genHistory draws a consistent history: completions are never after asOf.
func genHistory(t *rapid.T) generated {
	base := time.Date(2023, 1, 1, 9, 0, 0, 0, time.Local)
	asOf := base.AddDate(0, 0, rapid.IntRange(0, 700).Draw(t, "asOf"))
	days := rapid.SliceOfDistinct(rapid.SampledFrom(weekdays), func(s string) string { return s }).Draw(t, "days")
	offsets := rapid.SliceOfN(rapid.IntRange(0, 120), 0, 80).Draw(t, "offsets")
	completions := make([]string, 0, len(offsets))
	for _, off := range offsets {
		completions = append(completions, analytics.FormatDate(analytics.AddDays(asOf, -off)))
	}
	created := analytics.AddDays(asOf, -rapid.IntRange(0, 150).Draw(t, "age"))
	return generated{
		History: analytics.History{
			CreatedDate:  analytics.FormatDate(created),
			Completions:  completions,
			SelectedDays: days,
		},
		AsOf: asOf,
	}
}

func genPeriod(t *rapid.T) analytics.Period {
	switch rapid.IntRange(0, 2).Draw(t, "kind") {
	case 0:
		return analytics.Week()
	case 1:
		return analytics.Month()
	default:
		return analytics.LastDays(rapid.IntRange(1, 90).Draw(t, "n"))
	}
}

func TestPropertyIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genHistory(t)
		p := genPeriod(t)
		snapshot := slices.Clone(g.History.Completions)
		h := g.History

		if a, b := analytics.CurrentStreak(h.Completions, h.SelectedDays, g.AsOf), analytics.CurrentStreak(h.Completions, h.SelectedDays, g.AsOf); a != b {
			t.Fatalf("current streak not idempotent: %d != %d", a, b)
		}
		if a, b := analytics.BestStreak(h.Completions, h.SelectedDays), analytics.BestStreak(h.Completions, h.SelectedDays); a != b {
			t.Fatalf("best streak not idempotent: %d != %d", a, b)
		}
		if a, b := analytics.CompletionRate(h, p, g.AsOf), analytics.CompletionRate(h, p, g.AsOf); a != b {
			t.Fatalf("completion rate not idempotent: %d != %d", a, b)
		}
		if !slices.Equal(snapshot, h.Completions) {
			t.Fatalf("completions were mutated")
		}
	})
}

func TestPropertyDailyFallback(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rapid.IntRange(0, 20000).Draw(t, "day"))
		date := analytics.FormatDate(d)
		if !analytics.IsScheduled(date, nil) || !analytics.IsScheduled(date, []string{}) {
			t.Fatalf("%s not scheduled for a daily habit", date)
		}
	})
}

func TestPropertyBestCoversCurrent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genHistory(t)
		h := g.History
		current := analytics.CurrentStreak(h.Completions, h.SelectedDays, g.AsOf)
		best := analytics.BestStreak(h.Completions, h.SelectedDays)
		if best < current {
			t.Fatalf("best %d < current %d for %v on %v", best, current, h.Completions, h.SelectedDays)
		}
		if current < 0 || current > analytics.MaxStreakWalk+1 {
			t.Fatalf("current streak %d out of range", current)
		}
	})
}

func TestPropertyRateBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genHistory(t)
		rate := analytics.CompletionRate(g.History, genPeriod(t), g.AsOf)
		if rate < 0 || rate > 100 {
			t.Fatalf("rate %d out of bounds", rate)
		}
	})
}

func TestPropertyEmptyHistory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genHistory(t)
		h := g.History
		h.Completions = nil
		if got := analytics.CurrentStreak(nil, h.SelectedDays, g.AsOf); got != 0 {
			t.Fatalf("current streak of empty history = %d", got)
		}
		if got := analytics.BestStreak(nil, h.SelectedDays); got != 0 {
			t.Fatalf("best streak of empty history = %d", got)
		}
		if got := analytics.CompletionRate(h, genPeriod(t), g.AsOf); got != 0 {
			t.Fatalf("rate of empty history = %d", got)
		}
	})
}

func TestPropertyCompletionsBeforeCreationDoNotMoveRate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genHistory(t)
		p := genPeriod(t)
		created, _ := analytics.ParseDate(g.History.CreatedDate)
		stale := g.History
		stale.Completions = append(slices.Clone(stale.Completions), analytics.FormatDate(analytics.AddDays(created, -rapid.IntRange(1, 30).Draw(t, "stale"))))
		if a, b := analytics.CompletionRate(g.History, p, g.AsOf), analytics.CompletionRate(stale, p, g.AsOf); a != b {
			t.Fatalf("stale completion changed rate: %d != %d", a, b)
		}
	})
}
