package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	"github.com/limbo/habitflow/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateHabitRequest struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"max=1000"`
	// Empty means the habit is due every day
	SelectedDays []string `validate:"max=7,dive,weekday"`
}

type UpdateHabitRequest struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"max=1000"`
}

type CreateTaskRequest struct {
	Title   string  `validate:"required,max=200"`
	DueDate string  `validate:"required,civil_date"`
	DueTime string  `validate:"required,clock_time"`
	EndTime *string `validate:"omitempty,clock_time"`
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type HabitsServiceI interface {
	// Creates habit active from today with normalized schedule
	CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.Habit, error)
	GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error)
	GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)
	UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req UpdateHabitRequest) (*entity.Habit, error)
	// Replaces weekly schedule and recomputes stored streaks
	UpdateSchedule(ctx context.Context, habitID, userID uuid.UUID, days []string) (*entity.Habit, error)
	DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error
}

type HabitChecksServiceI interface {
	// Marks habit done on date. Returns streaks recomputed after the change
	CheckHabit(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (*entity.Streaks, error)
	// Removes the mark from date. Returns streaks recomputed after the change
	UncheckHabit(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (*entity.Streaks, error)
	GetHabitChecks(ctx context.Context, habitID, userID uuid.UUID, from, to time.Time) ([]entity.HabitCheck, error)
	GetHabitStats(ctx context.Context, habitID, userID uuid.UUID, period analytics.Period) (*entity.HabitStats, error)
	GetCalendar(ctx context.Context, habitID, userID uuid.UUID, month time.Time) ([]analytics.CalendarDay, error)
	// Deletes checks dated before their habit was created
	PurgeInvalidChecks(ctx context.Context) (int64, error)
}

type StatsServiceI interface {
	GetDashboard(ctx context.Context, uid uuid.UUID) (*entity.DashboardStats, error)
}

type TaskServiceI interface {
	CreateTask(ctx context.Context, uid uuid.UUID, req CreateTaskRequest) (*entity.Task, error)
	// Lists tasks with status derived for today
	GetUserTasks(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Task, error)
	CompleteTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.Task, error)
	DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error
}

// StatsCache keeps dashboards between requests. Get returns
// errorvalues.ErrCacheMiss when nothing is stored for the user.
type StatsCache interface {
	Get(ctx context.Context, uid uuid.UUID) (*entity.DashboardStats, error)
	Set(ctx context.Context, uid uuid.UUID, stats *entity.DashboardStats) error
	Invalidate(ctx context.Context, uid uuid.UUID) error
}
