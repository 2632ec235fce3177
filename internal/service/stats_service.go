package service

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/metrics"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/pkg/entity"
)

type StatsService struct {
	habitsRepo repository.HabitsRepositoryI
	checksRepo repository.HabitChecksRepositoryI
	clock      analytics.Clock
	cache      StatsCache
}

func NewStatsService(habitsRepo repository.HabitsRepositoryI, checksRepo repository.HabitChecksRepositoryI, clock analytics.Clock, cache StatsCache) *StatsService {
	if habitsRepo == nil || checksRepo == nil {
		log.Fatal("on stats service provided nil repos")
	}
	if clock == nil {
		clock = analytics.SystemClock{}
	}
	return &StatsService{
		habitsRepo: habitsRepo,
		checksRepo: checksRepo,
		clock:      clock,
		cache:      cache,
	}
}

// GetDashboard aggregates every habit of uid. Results are read through the cache when one is set.
func (ss *StatsService) GetDashboard(ctx context.Context, uid uuid.UUID) (*entity.DashboardStats, error) {
	if ss.cache != nil {
		stats, err := ss.cache.Get(ctx, uid)
		if err == nil {
			metrics.IncStatsCacheLookup("hit")
			return stats, nil
		}
		if !errors.Is(err, errorvalues.ErrCacheMiss) {
			slog.Warn("reading cached dashboard failed", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		}
		metrics.IncStatsCacheLookup("miss")
	}

	habits, err := ss.habitsRepo.ListAllByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	now := ss.clock.Now()
	tracked := make([]analytics.Tracked, 0, len(habits))
	for _, h := range habits {
		dates, err := ss.checksRepo.GetDates(ctx, h.ID)
		if err != nil {
			return nil, errors.New("checks repository error: " + err.Error())
		}
		history := historyOf(h, dates)
		tracked = append(tracked, analytics.Tracked{
			History:       history,
			CurrentStreak: analytics.CurrentStreak(history.Completions, history.SelectedDays, now),
			BestStreak:    analytics.BestStreak(history.Completions, history.SelectedDays),
		})
	}
	stats := entity.DashboardStats(analytics.Aggregate(tracked, now))

	if ss.cache != nil {
		if err = ss.cache.Set(ctx, uid, &stats); err != nil {
			slog.Warn("caching dashboard failed", slog.String("uid", uid.String()), slog.String("error", err.Error()))
		}
	}
	return &stats, nil
}
