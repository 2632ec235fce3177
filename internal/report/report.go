// Package report renders habit statistics for the terminal.
package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/limbo/habitflow/internal/analytics"
	"github.com/limbo/habitflow/pkg/entity"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Bold(true)

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			MarginTop(1)
)

var columnWidths = []int{24, 16, 9, 7, 7, 7, 12}

type HabitRow struct {
	Habit *entity.Habit
	Stats *entity.HabitStats
}

// Schedule describes selected days as short names, "daily" when every day is
// scheduled and "never" when no known weekday is selected.
func Schedule(days []string) string {
	switch schedule := analytics.NewSchedule(days); {
	case schedule.Empty():
		return "never"
	case schedule.Daily():
		return "daily"
	}
	short := make([]string, 0, len(days))
	for _, d := range days {
		if d == "" {
			continue
		}
		if len(d) > 3 {
			d = d[:3]
		}
		short = append(short, strings.ToUpper(d[:1])+d[1:])
	}
	return strings.Join(short, ",")
}

func row(cells ...string) string {
	rendered := make([]string, 0, len(cells))
	for i, c := range cells {
		rendered = append(rendered, lipgloss.NewStyle().Width(columnWidths[i]).MaxWidth(columnWidths[i]).Render(c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}

// Render writes the per-habit table followed by the dashboard totals.
// period labels the rate column.
func Render(w io.Writer, user, period string, rows []HabitRow, dashboard *entity.DashboardStats) error {
	lines := []string{
		titleStyle.Render("Habits of " + user),
		headerStyle.Render(row("HABIT", "SCHEDULE", "STREAK", "BEST", "WEEK", "MONTH", "RATE/"+period)),
	}
	if len(rows) == 0 {
		lines = append(lines, "no habits yet")
	}
	for _, r := range rows {
		lines = append(lines, row(
			r.Habit.Title,
			Schedule(r.Habit.SelectedDays),
			streakStyle.Render(strconv.Itoa(r.Stats.CurrentStreak)),
			strconv.Itoa(r.Stats.MaxStreak),
			percent(r.Stats.WeekRate),
			percent(r.Stats.MonthRate),
			percent(r.Stats.PeriodRate),
		))
	}
	if dashboard != nil {
		lines = append(lines, boxStyle.Render(strings.Join([]string{
			"habits:            " + strconv.Itoa(dashboard.TotalHabits),
			"completions:       " + strconv.Itoa(dashboard.TotalCompletions),
			"avg monthly rate:  " + percent(dashboard.AverageCompletionRate),
			"longest streak:    " + strconv.Itoa(dashboard.LongestStreak),
			"active streaks:    " + strconv.Itoa(dashboard.CurrentActiveStreaks),
		}, "\n")))
	}
	_, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, lines...)+"\n")
	return err
}
