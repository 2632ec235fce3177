package analytics

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidPeriod = errors.New("period must be week, month or a positive number of days")

// MaxPeriodDays is the longest day-count window, roughly a century.
const MaxPeriodDays = 36500

type PeriodKind int

const (
	PeriodWeek PeriodKind = iota
	PeriodMonth
	PeriodDays
)

// Period selects the window a completion rate is computed over.
type Period struct {
	Kind PeriodKind
	// Days is the window length for PeriodDays, today included.
	Days int
}

func Week() Period  { return Period{Kind: PeriodWeek} }
func Month() Period { return Period{Kind: PeriodMonth} }

func LastDays(n int) Period {
	return Period{Kind: PeriodDays, Days: n}
}

// ParsePeriod accepts "week", "month" or a day count in [1, MaxPeriodDays].
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week":
		return Week(), nil
	case "month":
		return Month(), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxPeriodDays {
		return Period{}, ErrInvalidPeriod
	}
	return LastDays(n), nil
}

// Start returns the first date of the period that contains today.
func (p Period) Start(today time.Time) time.Time {
	switch p.Kind {
	case PeriodMonth:
		return MonthStart(today)
	case PeriodDays:
		return AddDays(today, -(min(max(p.Days, 1), MaxPeriodDays) - 1))
	default:
		return WeekStart(today)
	}
}

func (p Period) String() string {
	switch p.Kind {
	case PeriodMonth:
		return "month"
	case PeriodDays:
		return strconv.Itoa(p.Days)
	default:
		return "week"
	}
}

// History is the slice of a habit the analytics need.
type History struct {
	// CreatedDate is the YYYY-MM-DD date the habit became active. Empty means unbounded.
	CreatedDate  string
	Completions  []string
	SelectedDays []string
}

// CompletionRate returns the percentage (0..100) of scheduled, elapsed days
// in the period that were completed.
//
// The window never starts before the habit was created. Today is only part
// of the window once it is completed. A habit whose only scheduled elapsed
// day is a completed today rates 100.
func CompletionRate(h History, p Period, asOf time.Time) int {
	schedule := NewSchedule(h.SelectedDays)
	if schedule.Empty() {
		return 0
	}
	today := Day(asOf)
	start := p.Start(today)
	if created, err := ParseDate(h.CreatedDate); err == nil && created.After(start) {
		start = created
	}

	done := dateSet(h.Completions)
	todayKey := FormatDate(today)
	_, completedToday := done[todayKey]
	end := AddDays(today, -1)
	if completedToday {
		end = today
	}

	elapsed := make([]string, 0, 31)
	for _, date := range DateRange(start, end) {
		d, _ := ParseDate(date)
		if schedule.Includes(d) {
			elapsed = append(elapsed, date)
		}
	}
	if len(elapsed) == 0 {
		return 0
	}
	if len(elapsed) == 1 && elapsed[0] == todayKey && completedToday {
		return 100
	}

	hits := 0
	for _, date := range elapsed {
		if _, ok := done[date]; ok {
			hits++
		}
	}
	return int(math.Round(100 * float64(hits) / float64(len(elapsed))))
}
