package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/repository/mocks"
	"github.com/limbo/habitflow/internal/service"
	servicemocks "github.com/limbo/habitflow/internal/service/mocks"
	"github.com/limbo/habitflow/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	cache := servicemocks.NewMockStatsCache(ctrl)
	serv := service.NewHabitsService(habitsRepo, checksRepo, clock, cache)
	userID := uuid.New()
	habitID := uuid.New()
	testCases := []struct {
		Desc         string
		Error        error
		Req          service.CreateHabitRequest
		MockPrepFunc func()
	}{
		{
			Desc: "success with normalized schedule",
			Req: service.CreateHabitRequest{
				Title:        "stretch",
				SelectedDays: []string{"Friday", "monday", "friday"},
			},
			MockPrepFunc: func() {
				habitsRepo.EXPECT().Create(gomock.Any(), &entity.Habit{
					UserID:       userID,
					Title:        "stretch",
					SelectedDays: []string{"monday", "friday"},
					CreatedDate:  "2024-06-15",
				}).Return(habitID, nil)
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
			},
		},
		{
			Desc:         "empty title",
			Error:        errorvalues.ErrValidation,
			Req:          service.CreateHabitRequest{},
			MockPrepFunc: func() {},
		},
		{
			Desc:         "unknown weekday",
			Error:        errorvalues.ErrValidation,
			Req:          service.CreateHabitRequest{Title: "stretch", SelectedDays: []string{"funday"}},
			MockPrepFunc: func() {},
		},
		{
			Desc:  "duplicate title",
			Error: errorvalues.ErrUserHasHabit,
			Req:   service.CreateHabitRequest{Title: "stretch"},
			MockPrepFunc: func() {
				habitsRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.UUID{}, errorvalues.ErrUserHasHabit)
			},
		},
		{
			Desc:  "unknown owner",
			Error: errorvalues.ErrUserNotFound,
			Req:   service.CreateHabitRequest{Title: "stretch"},
			MockPrepFunc: func() {
				habitsRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uuid.UUID{}, errorvalues.ErrOwnerNotFound)
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			habit, err := serv.CreateHabit(ctx, userID, tc.Req)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, habitID, habit.ID)
		})
	}
}

func TestGetHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitsService(habitsRepo, mocks.NewMockHabitChecksRepositoryI(ctrl), clock, nil)
	userID := uuid.New()
	habitID := uuid.New()
	testCases := []struct {
		Desc         string
		Error        error
		MockPrepFunc func()
	}{
		{
			Desc: "success",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
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
			Desc:  "not found",
			Error: errorvalues.ErrHabitNotFound,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(nil, errorvalues.ErrHabitNotFound)
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("habits repository error: db error"),
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(nil, errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			habit, err := serv.GetHabit(ctx, habitID, userID)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, habit.UserID)
		})
	}
}

func TestGetUserHabits(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitsService(habitsRepo, mocks.NewMockHabitChecksRepositoryI(ctrl), clock, nil)
	userID := uuid.New()
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		habitsRepo.EXPECT().GetByUserID(gomock.Any(), userID, 10, 20).
			Return([]*entity.Habit{ownedHabit(uuid.New(), userID)}, nil)
		habits, err := serv.GetUserHabits(ctx, userID, service.PaginationOpts{Limit: 10, Offset: 20})
		require.NoError(t, err)
		assert.Len(t, habits, 1)
	})
	t.Run("db error", func(t *testing.T) {
		habitsRepo.EXPECT().GetByUserID(gomock.Any(), userID, 10, 0).Return(nil, errors.New("db error"))
		_, err := serv.GetUserHabits(ctx, userID, service.PaginationOpts{Limit: 10})
		assert.Error(t, err)
	})
}

func TestUpdateHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitsService(habitsRepo, mocks.NewMockHabitChecksRepositoryI(ctrl), clock, nil)
	userID := uuid.New()
	habitID := uuid.New()
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		updated := ownedHabit(habitID, userID)
		updated.Title, updated.Description = "read", "ten pages"
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
		habitsRepo.EXPECT().Update(gomock.Any(), updated).Return(nil)
		habit, err := serv.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{Title: "read", Description: "ten pages"})
		require.NoError(t, err)
		assert.Equal(t, "read", habit.Title)
	})
	t.Run("title taken", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
		habitsRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errorvalues.ErrUserHasHabit)
		_, err := serv.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{Title: "read"})
		assert.ErrorIs(t, err, errorvalues.ErrUserHasHabit)
	})
	t.Run("validation", func(t *testing.T) {
		_, err := serv.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
}

func TestUpdateSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	cache := servicemocks.NewMockStatsCache(ctrl)
	serv := service.NewHabitsService(habitsRepo, checksRepo, clock, cache)
	userID := uuid.New()
	habitID := uuid.New()
	ctx := context.Background()
	t.Run("recomputes streaks under the new schedule", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
		habitsRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, h *entity.Habit) error {
			assert.Equal(t, []string{"monday", "wednesday", "friday"}, h.SelectedDays)
			return nil
		})
		// Mon 10, Wed 12, Fri 14 done: every scheduled day of the week
		checksRepo.EXPECT().GetDates(gomock.Any(), habitID).Return([]string{"2024-06-10", "2024-06-12", "2024-06-14"}, nil)
		habitsRepo.EXPECT().UpdateStreaks(gomock.Any(), habitID, entity.Streaks{Current: 3, Best: 3}).Return(nil)
		cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
		habit, err := serv.UpdateSchedule(ctx, habitID, userID, []string{"friday", "Wednesday", "monday"})
		require.NoError(t, err)
		assert.Equal(t, 3, habit.CurrentStreak)
		assert.Equal(t, 3, habit.BestStreak)
	})
	t.Run("unknown weekday", func(t *testing.T) {
		_, err := serv.UpdateSchedule(ctx, habitID, userID, []string{"someday"})
		assert.ErrorIs(t, err, errorvalues.ErrInvalidSchedule)
	})
	t.Run("wrong owner", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, uuid.New()), nil)
		_, err := serv.UpdateSchedule(ctx, habitID, userID, nil)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestDeleteHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	cache := servicemocks.NewMockStatsCache(ctrl)
	serv := service.NewHabitsService(habitsRepo, mocks.NewMockHabitChecksRepositoryI(ctrl), clock, cache)
	userID := uuid.New()
	habitID := uuid.New()
	testCases := []struct {
		Desc         string
		Error        error
		MockPrepFunc func()
	}{
		{
			Desc: "success",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				habitsRepo.EXPECT().Delete(gomock.Any(), habitID).Return(nil)
				cache.EXPECT().Invalidate(gomock.Any(), userID).Return(errors.New("redis down"))
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
			Desc:  "not found on delete",
			Error: errorvalues.ErrHabitNotFound,
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(ownedHabit(habitID, userID), nil)
				habitsRepo.EXPECT().Delete(gomock.Any(), habitID).Return(errorvalues.ErrHabitNotFound)
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			err := serv.DeleteHabit(ctx, habitID, userID)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
