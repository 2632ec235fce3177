package service

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/pkg/entity"
)

type HabitsService struct {
	repo       repository.HabitsRepositoryI
	checksRepo repository.HabitChecksRepositoryI
	clock      analytics.Clock
	cache      StatsCache
}

// NewHabitsService builds the service. clock may be nil (system clock), cache may be nil (no caching).
func NewHabitsService(habitsRepo repository.HabitsRepositoryI, checksRepo repository.HabitChecksRepositoryI, clock analytics.Clock, cache StatsCache) *HabitsService {
	if habitsRepo == nil || checksRepo == nil {
		log.Fatal("on habits service provided nil repos")
	}
	if clock == nil {
		clock = analytics.SystemClock{}
	}
	return &HabitsService{
		repo:       habitsRepo,
		checksRepo: checksRepo,
		clock:      clock,
		cache:      cache,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	days, err := analytics.NormalizeDays(req.SelectedDays)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrInvalidSchedule, err)
	}
	h := entity.Habit{
		UserID:       uid,
		Title:        req.Title,
		Description:  req.Description,
		SelectedDays: days,
		CreatedDate:  analytics.FormatDate(hs.clock.Now()),
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			return nil, errorvalues.ErrUserHasHabit
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	invalidateDashboard(ctx, hs.cache, uid)
	return habit, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	return getOwnedHabit(ctx, hs.repo, habitID, userID)
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req UpdateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	habit, err := getOwnedHabit(ctx, hs.repo, habitID, userID)
	if err != nil {
		return nil, err
	}
	habit.Title = req.Title
	habit.Description = req.Description
	if err = hs.repo.Update(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) || errors.Is(err, errorvalues.ErrUserHasHabit) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) UpdateSchedule(ctx context.Context, habitID, userID uuid.UUID, days []string) (*entity.Habit, error) {
	normalized, err := analytics.NormalizeDays(days)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrInvalidSchedule, err)
	}
	habit, err := getOwnedHabit(ctx, hs.repo, habitID, userID)
	if err != nil {
		return nil, err
	}
	habit.SelectedDays = normalized
	if err = hs.repo.Update(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	streaks, err := recomputeStreaks(ctx, hs.repo, hs.checksRepo, habit, hs.clock.Now())
	if err != nil {
		return nil, err
	}
	habit.CurrentStreak, habit.BestStreak = streaks.Current, streaks.Best
	invalidateDashboard(ctx, hs.cache, userID)
	return habit, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	if _, err := getOwnedHabit(ctx, hs.repo, habitID, userID); err != nil {
		return err
	}
	err := hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	invalidateDashboard(ctx, hs.cache, userID)
	return nil
}

func getOwnedHabit(ctx context.Context, repo repository.HabitsRepositoryI, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}

// scheduleOf returns the stored schedule, or nil (every day) when it holds unknown weekday names.
func scheduleOf(habit *entity.Habit) []string {
	days, err := analytics.NormalizeDays(habit.SelectedDays)
	if err != nil {
		slog.Warn("corrupt habit schedule, treating as daily",
			slog.String("habit_id", habit.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return days
}

func historyOf(habit *entity.Habit, dates []string) analytics.History {
	return analytics.History{
		CreatedDate:  habit.CreatedDate,
		Completions:  dates,
		SelectedDays: scheduleOf(habit),
	}
}
