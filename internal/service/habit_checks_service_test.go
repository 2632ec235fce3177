package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/repository/mocks"
	"github.com/limbo/habitflow/internal/service"
	servicemocks "github.com/limbo/habitflow/internal/service/mocks"
	"github.com/limbo/habitflow/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	cache := servicemocks.NewMockStatsCache(ctrl)

	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock, cache)
	habitID := uuid.New()
	userID := uuid.New()
	yesterday := date("2024-06-14")
	testCases := []struct {
		Desc         string
		Error        error
		CheckDate    time.Time
		Streaks      *entity.Streaks
		MockPrepFunc func()
	}{
		{
			Desc:      "success",
			CheckDate: yesterday.Add(20 * time.Hour),
			Streaks:   &entity.Streaks{Current: 2, Best: 2},
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				checksRepo.EXPECT().Exists(gomock.Any(), habitID, yesterday).Return(false, nil)
				checksRepo.EXPECT().Create(gomock.Any(), habitID, yesterday).Return(nil)
				checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return([]string{"2024-06-13", "2024-06-14"}, nil)
				habitsRepo.EXPECT().UpdateStreaks(gomock.Any(), habitID, entity.Streaks{Current: 2, Best: 2}).Return(nil)
				cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
			},
		},
		{
			Desc:      "checking today",
			CheckDate: now,
			Streaks:   &entity.Streaks{Current: 1, Best: 1},
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				checksRepo.EXPECT().Exists(gomock.Any(), habitID, date("2024-06-15")).Return(false, nil)
				checksRepo.EXPECT().Create(gomock.Any(), habitID, date("2024-06-15")).Return(nil)
				checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return([]string{"2024-06-15"}, nil)
				habitsRepo.EXPECT().UpdateStreaks(gomock.Any(), habitID, entity.Streaks{Current: 1, Best: 1}).Return(nil)
				cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
			},
		},
		{
			Desc:      "error wrong owner",
			Error:     errorvalues.ErrWrongOwner,
			CheckDate: yesterday,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, uuid.New()), nil)
			},
		},
		{
			Desc:      "error check date not allowed",
			Error:     errorvalues.ErrCheckDateNotAllowed,
			CheckDate: date("2024-06-16"),
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
			},
		},
		{
			Desc:      "error check before creation",
			Error:     errorvalues.ErrCheckBeforeCreation,
			CheckDate: date("2024-05-31"),
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
			},
		},
		{
			Desc:      "error creating existed check",
			Error:     errorvalues.ErrCheckExist,
			CheckDate: yesterday,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				checksRepo.EXPECT().Exists(gomock.Any(), habitID, yesterday).Return(true, nil)
			},
		},
		{
			Desc:      "error habit not found",
			Error:     errorvalues.ErrHabitNotFound,
			CheckDate: yesterday,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(nil, errorvalues.ErrHabitNotFound)
			},
		},
		{
			Desc:      "error persisting streaks",
			Error:     errors.New("habits repository error: db error"),
			CheckDate: yesterday,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				checksRepo.EXPECT().Exists(gomock.Any(), habitID, yesterday).Return(false, nil)
				checksRepo.EXPECT().Create(gomock.Any(), habitID, yesterday).Return(nil)
				checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return([]string{"2024-06-14"}, nil)
				habitsRepo.EXPECT().UpdateStreaks(gomock.Any(), habitID, gomock.Any()).Return(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			streaks, err := serv.CheckHabit(ctx, habitID, userID, tc.CheckDate)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Streaks, streaks)
		})
	}
}

func TestUncheckHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)

	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock, nil)
	habitID := uuid.New()
	userID := uuid.New()
	day := date("2024-06-13")
	testCases := []struct {
		Desc         string
		Error        error
		MockPrepFunc func()
	}{
		{
			Desc: "success breaks the streak",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				checksRepo.EXPECT().Exists(gomock.Any(), habitID, day).Return(true, nil)
				checksRepo.EXPECT().Delete(gomock.Any(), habitID, day).Return(nil)
				checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return([]string{"2024-06-11", "2024-06-12", "2024-06-14"}, nil)
				habitsRepo.EXPECT().UpdateStreaks(gomock.Any(), habitID, entity.Streaks{Current: 1, Best: 2}).Return(nil)
			},
		},
		{
			Desc:  "check not found",
			Error: errorvalues.ErrCheckNotFound,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				checksRepo.EXPECT().Exists(gomock.Any(), habitID, day).Return(false, nil)
			},
		},
		{
			Desc:  "wrong owner",
			Error: errorvalues.ErrWrongOwner,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, uuid.New()), nil)
			},
		},
		{
			Desc:  "exists db error",
			Error: errors.New("repository error: db error"),
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				checksRepo.EXPECT().Exists(gomock.Any(), habitID, day).Return(false, errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			_, err := serv.UncheckHabit(ctx, habitID, userID, day)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetHabitChecks(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock, nil)
	habitID := uuid.New()
	userID := uuid.New()
	from, to := date("2024-06-01"), date("2024-06-15")
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		checks := []entity.HabitCheck{{ID: 1, HabitID: habitID, CheckDate: date("2024-06-02")}}
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
		checksRepo.EXPECT().GetByHabitAndDateRange(gomock.Any(), habitID, from, to).Return(checks, nil)
		result, err := serv.GetHabitChecks(ctx, habitID, userID, from, to)
		require.NoError(t, err)
		assert.Equal(t, checks, result)
	})
	t.Run("reversed range is empty", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
		result, err := serv.GetHabitChecks(ctx, habitID, userID, to, from)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestGetHabitStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock, nil)
	habitID := uuid.New()
	userID := uuid.New()
	ctx := context.Background()
	t.Run("mon/wed/fri habit", func(t *testing.T) {
		habit := ownedHabit(habitID, userID)
		habit.SelectedDays = []string{"monday", "wednesday", "friday"}
		// Week of 10..15: Mon and Fri done, Wed missed
		dates := []string{"2024-06-03", "2024-06-05", "2024-06-07", "2024-06-10", "2024-06-14"}
		last := date("2024-06-14")
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(habit, nil)
		checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return(dates, nil)
		checksRepo.EXPECT().CountByHabitID(gomock.Any(), habitID).Return(len(dates), nil)
		checksRepo.EXPECT().GetLastCheckDate(gomock.Any(), habitID).Return(&last, nil)
		stats, err := serv.GetHabitStats(ctx, habitID, userID, analytics.LastDays(7))
		require.NoError(t, err)
		assert.Equal(t, &entity.HabitStats{
			ID:            habitID,
			TotalChecks:   5,
			CurrentStreak: 1,
			MaxStreak:     4,
			WeekRate:      67,
			MonthRate:     83,
			Period:        "7",
			PeriodRate:    67,
			LastCheck:     "2024-06-14",
		}, stats)
	})
	t.Run("corrupt schedule falls back to daily", func(t *testing.T) {
		habit := ownedHabit(habitID, userID)
		habit.SelectedDays = []string{"caturday"}
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(habit, nil)
		checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return([]string{"2024-06-14", "2024-06-15"}, nil)
		checksRepo.EXPECT().CountByHabitID(gomock.Any(), habitID).Return(2, nil)
		checksRepo.EXPECT().GetLastCheckDate(gomock.Any(), habitID).Return(nil, nil)
		stats, err := serv.GetHabitStats(ctx, habitID, userID, analytics.Week())
		require.NoError(t, err)
		assert.Equal(t, 2, stats.CurrentStreak)
		assert.Empty(t, stats.LastCheck)
	})
	t.Run("repository error", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
		checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return(nil, errors.New("db error"))
		_, err := serv.GetHabitStats(ctx, habitID, userID, analytics.Week())
		assert.EqualError(t, err, "repository error: db error")
	})
}

func TestGetCalendar(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock, nil)
	habitID := uuid.New()
	userID := uuid.New()
	habit := ownedHabit(habitID, userID)
	habit.SelectedDays = []string{"saturday"}
	habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(habit, nil)
	checksRepo.EXPECT().GetByHabitAndDateRange(gomock.Any(), habitID, date("2024-06-01"), date("2024-06-30")).
		Return([]entity.HabitCheck{{HabitID: habitID, CheckDate: date("2024-06-08")}}, nil)
	days, err := serv.GetCalendar(context.Background(), habitID, userID, date("2024-06-20"))
	require.NoError(t, err)
	require.Len(t, days, 30)
	assert.Equal(t, analytics.CalendarDay{Date: "2024-06-01", Scheduled: true}, days[0])
	assert.Equal(t, analytics.CalendarDay{Date: "2024-06-02"}, days[1])
	assert.Equal(t, analytics.CalendarDay{Date: "2024-06-08", Scheduled: true, Completed: true}, days[7])
}

func TestPurgeInvalidChecks(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	serv := service.NewHabitChecksService(mocks.NewMockHabitsRepositoryI(ctrl), checksRepo, clock, nil)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		checksRepo.EXPECT().PurgeBeforeCreation(gomock.Any()).Return(int64(3), nil)
		n, err := serv.PurgeInvalidChecks(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
	t.Run("db error", func(t *testing.T) {
		checksRepo.EXPECT().PurgeBeforeCreation(gomock.Any()).Return(int64(0), errors.New("db error"))
		_, err := serv.PurgeInvalidChecks(ctx)
		assert.Error(t, err)
	})
}
