package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type Habit struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"uid"`
	Title       string    `json:"title"`
	Description string    `json:"desc"`

	// Weekday names the habit is due on. Empty means every day.
	SelectedDays []string `json:"selected_days"`
	// YYYY-MM-DD in the application timezone
	CreatedDate string `json:"created_date"`

	CurrentStreak int       `json:"current_streak"`
	BestStreak    int       `json:"best_streak"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HabitCheck struct {
	ID        int       `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	CheckDate time.Time `json:"check_date"`
	CreatedAt time.Time `json:"created_at"`
}

type Streaks struct {
	Current int `json:"current_streak"`
	Best    int `json:"best_streak"`
}

type HabitStats struct {
	ID            uuid.UUID `json:"habit_id"`
	TotalChecks   int       `json:"total_checks"`
	CurrentStreak int       `json:"current_streak"`
	MaxStreak     int       `json:"max_streak"`
	WeekRate      int       `json:"week_rate"`
	MonthRate     int       `json:"month_rate"`
	Period        string    `json:"period"`
	PeriodRate    int       `json:"period_rate"`
	LastCheck     string    `json:"last_check,omitempty"`
}

type DashboardStats struct {
	TotalHabits           int `json:"total_habits"`
	TotalCompletions      int `json:"total_completions"`
	AverageCompletionRate int `json:"average_completion_rate"`
	LongestStreak         int `json:"longest_streak"`
	CurrentActiveStreaks  int `json:"current_active_streaks"`
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskOverdue   TaskStatus = "overdue"
)

type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"uid"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	DueDate   string     `json:"due_date"`
	DueTime   string     `json:"due_time"`
	EndTime   *string    `json:"end_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
