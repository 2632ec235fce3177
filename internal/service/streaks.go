package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/metrics"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/pkg/entity"
)

// recomputeStreaks derives both streaks from every stored check and persists them on the habit row.
func recomputeStreaks(ctx context.Context, habitsRepo repository.HabitsRepositoryI, checksRepo repository.HabitChecksRepositoryI,
	habit *entity.Habit, now time.Time) (*entity.Streaks, error) {
	dates, err := checksRepo.GetDates(ctx, habit.ID)
	if err != nil {
		return nil, errors.New("checks repository error: " + err.Error())
	}
	days := scheduleOf(habit)
	streaks := entity.Streaks{
		Current: analytics.CurrentStreak(dates, days, now),
		Best:    analytics.BestStreak(dates, days),
	}
	if err = habitsRepo.UpdateStreaks(ctx, habit.ID, streaks); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	metrics.IncStreakRecalculation()
	return &streaks, nil
}

// invalidateDashboard drops the cached dashboard of uid. Errors are only logged, the entry expires by TTL.
func invalidateDashboard(ctx context.Context, cache StatsCache, uid uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, uid); err != nil {
		slog.Warn("dropping cached dashboard failed",
			slog.String("uid", uid.String()),
			slog.String("error", err.Error()),
		)
	}
}
