package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/metrics"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/pkg/entity"
)

type HabitChecksService struct {
	habitsRepo repository.HabitsRepositoryI
	checksRepo repository.HabitChecksRepositoryI
	clock      analytics.Clock
	cache      StatsCache
}

func NewHabitChecksService(habitsRepo repository.HabitsRepositoryI, checksRepo repository.HabitChecksRepositoryI, clock analytics.Clock, cache StatsCache) *HabitChecksService {
	if habitsRepo == nil || checksRepo == nil {
		log.Fatal("on habit checks service provided nil repos")
	}
	if clock == nil {
		clock = analytics.SystemClock{}
	}
	return &HabitChecksService{
		habitsRepo: habitsRepo,
		checksRepo: checksRepo,
		clock:      clock,
		cache:      cache,
	}
}

func (serv *HabitChecksService) CheckHabit(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (*entity.Streaks, error) {
	habit, err := getOwnedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	now := serv.clock.Now()
	day := analytics.Day(date)
	if day.After(analytics.Day(now)) {
		return nil, errorvalues.ErrCheckDateNotAllowed
	}
	if created, err := analytics.ParseDate(habit.CreatedDate); err == nil && day.Before(created) {
		return nil, errorvalues.ErrCheckBeforeCreation
	}
	exist, err := serv.checksRepo.Exists(ctx, habitID, day)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if exist {
		return nil, errorvalues.ErrCheckExist
	}
	if err = serv.checksRepo.Create(ctx, habitID, day); err != nil {
		if errors.Is(err, errorvalues.ErrCheckExist) || errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return serv.afterToggle(ctx, habit, now)
}

func (serv *HabitChecksService) UncheckHabit(ctx context.Context, habitID, userID uuid.UUID, date time.Time) (*entity.Streaks, error) {
	habit, err := getOwnedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	day := analytics.Day(date)
	exist, err := serv.checksRepo.Exists(ctx, habitID, day)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if !exist {
		return nil, errorvalues.ErrCheckNotFound
	}
	if err = serv.checksRepo.Delete(ctx, habitID, day); err != nil {
		if errors.Is(err, errorvalues.ErrCheckNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return serv.afterToggle(ctx, habit, serv.clock.Now())
}

func (serv *HabitChecksService) afterToggle(ctx context.Context, habit *entity.Habit, now time.Time) (*entity.Streaks, error) {
	streaks, err := recomputeStreaks(ctx, serv.habitsRepo, serv.checksRepo, habit, now)
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, serv.cache, habit.UserID)
	return streaks, nil
}

func (serv *HabitChecksService) GetHabitChecks(ctx context.Context, habitID, userID uuid.UUID, from, to time.Time) ([]entity.HabitCheck, error) {
	if _, err := getOwnedHabit(ctx, serv.habitsRepo, habitID, userID); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return []entity.HabitCheck{}, nil
	}
	checks, err := serv.checksRepo.GetByHabitAndDateRange(ctx, habitID, from, to)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return checks, nil
}

func (serv *HabitChecksService) GetHabitStats(ctx context.Context, habitID, userID uuid.UUID, period analytics.Period) (*entity.HabitStats, error) {
	habit, err := getOwnedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	dates, err := serv.checksRepo.GetDates(ctx, habitID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	total, err := serv.checksRepo.CountByHabitID(ctx, habitID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	last, err := serv.checksRepo.GetLastCheckDate(ctx, habitID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	now := serv.clock.Now()
	history := historyOf(habit, dates)
	summary := analytics.Summarize(history, now)
	stats := &entity.HabitStats{
		ID:            habit.ID,
		TotalChecks:   total,
		CurrentStreak: summary.CurrentStreak,
		MaxStreak:     summary.BestStreak,
		WeekRate:      summary.WeekRate,
		MonthRate:     summary.MonthRate,
		Period:        period.String(),
		PeriodRate:    analytics.CompletionRate(history, period, now),
	}
	if last != nil {
		stats.LastCheck = analytics.FormatDate(*last)
	}
	return stats, nil
}

func (serv *HabitChecksService) GetCalendar(ctx context.Context, habitID, userID uuid.UUID, month time.Time) ([]analytics.CalendarDay, error) {
	habit, err := getOwnedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	start := analytics.MonthStart(month)
	end := start.AddDate(0, 1, -1)
	checks, err := serv.checksRepo.GetByHabitAndDateRange(ctx, habitID, start, end)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	dates := make([]string, 0, len(checks))
	for _, c := range checks {
		dates = append(dates, analytics.FormatDate(c.CheckDate))
	}
	return analytics.Calendar(historyOf(habit, dates), start), nil
}

func (serv *HabitChecksService) PurgeInvalidChecks(ctx context.Context) (int64, error) {
	n, err := serv.checksRepo.PurgeBeforeCreation(ctx)
	if err != nil {
		return 0, errors.New("repository error: " + err.Error())
	}
	metrics.AddInvalidChecksPurged(n)
	return n, nil
}
