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
	"github.com/limbo/habitflow/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	usersRepo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(usersRepo)
	uid := uuid.New()
	testCases := []struct {
		Desc         string
		Error        error
		Req          service.RegisterRequest
		MockPrepFunc func()
	}{
		{
			Desc: "registered",
			Req:  service.RegisterRequest{Name: "test_user", Password: "test_password"},
			MockPrepFunc: func() {
				usersRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *entity.User) error {
					u.ID = uid
					return nil
				})
			},
		},
		{
			Desc:         "name starts with digit",
			Error:        errorvalues.ErrValidation,
			Req:          service.RegisterRequest{Name: "1user", Password: "test_password"},
			MockPrepFunc: func() {},
		},
		{
			Desc:         "short password",
			Error:        errorvalues.ErrValidation,
			Req:          service.RegisterRequest{Name: "test_user", Password: "short"},
			MockPrepFunc: func() {},
		},
		{
			Desc:  "existing user",
			Error: errorvalues.ErrUserExists,
			Req:   service.RegisterRequest{Name: "test_user", Password: "test_password"},
			MockPrepFunc: func() {
				usersRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errorvalues.ErrUserExists)
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			user, err := us.Register(ctx, &tc.Req)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uid, user.ID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tc.Req.Password)))
		})
	}
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	usersRepo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(usersRepo)
	hash, err := service.Hash("test_password")
	require.NoError(t, err)
	user := &entity.User{ID: uuid.New(), Name: "test_user", PasswordHash: hash}
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		usersRepo.EXPECT().FindByName(gomock.Any(), "test_user").Return(user, nil)
		res, err := us.Login(ctx, "test_user", "test_password")
		require.NoError(t, err)
		assert.Equal(t, user, res)
	})
	t.Run("wrong password", func(t *testing.T) {
		usersRepo.EXPECT().FindByName(gomock.Any(), "test_user").Return(user, nil)
		_, err := us.Login(ctx, "test_user", "wrong_password")
		assert.ErrorIs(t, err, errorvalues.ErrWrongCredentials)
	})
	t.Run("unknown user", func(t *testing.T) {
		usersRepo.EXPECT().FindByName(gomock.Any(), "nobody").Return(nil, errorvalues.ErrUserNotFound)
		_, err := us.Login(ctx, "nobody", "test_password")
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		usersRepo.EXPECT().FindByName(gomock.Any(), "test_user").Return(nil, errors.New("db error"))
		_, err := us.Login(ctx, "test_user", "test_password")
		assert.EqualError(t, err, "repository searching error: db error")
	})
}

func TestDeleteAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	usersRepo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(usersRepo)
	hash, err := service.Hash("test_password")
	require.NoError(t, err)
	user := &entity.User{ID: uuid.New(), Name: "test_user", PasswordHash: hash}
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		usersRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		usersRepo.EXPECT().Delete(gomock.Any(), user.ID).Return(nil)
		assert.NoError(t, us.DeleteAccount(ctx, user.ID, "test_password"))
	})
	t.Run("wrong password", func(t *testing.T) {
		usersRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
		assert.ErrorIs(t, us.DeleteAccount(ctx, user.ID, "nope"), errorvalues.ErrWrongCredentials)
	})
	t.Run("not found", func(t *testing.T) {
		usersRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(nil, errorvalues.ErrUserNotFound)
		assert.ErrorIs(t, us.DeleteAccount(ctx, user.ID, "test_password"), errorvalues.ErrUserNotFound)
	})
}
