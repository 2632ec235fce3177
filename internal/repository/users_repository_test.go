package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	user := entity.User{
		Name:         "test_user",
		PasswordHash: "test_password_hash",
	}
	uid := uuid.New()
	query := regexp.QuoteMeta(`INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING id;`)
	ctx := context.Background()
	repo := repository.NewUsersRepoWithConn(conn)
	t.Run("successfully created", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Name, user.PasswordHash).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uid))
		err := repo.Create(ctx, &user)
		assert.NoError(t, err)
		assert.Equal(t, uid, user.ID)
	})
	t.Run("unique violation error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Name, user.PasswordHash).WillReturnError(&pgconn.PgError{
			Code: "23505",
		})
		err := repo.Create(ctx, &user)
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(user.Name, user.PasswordHash).WillReturnError(errors.New("db error"))
		err := repo.Create(ctx, &user)
		assert.EqualError(t, err, "creating user db error: db error")
	})
	t.Run("nil user", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, nil))
	})
}

func TestFindUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewUsersRepoWithConn(conn)
	user := entity.User{
		ID:           uuid.New(),
		Name:         "test_user",
		PasswordHash: "hash",
	}
	byName := regexp.QuoteMeta(`SELECT id, name, password_hash FROM users WHERE name = $1;`)
	byID := regexp.QuoteMeta(`SELECT id, name, password_hash FROM users WHERE id = $1;`)
	cols := []string{"id", "name", "password_hash"}
	ctx := context.Background()
	t.Run("by name", func(t *testing.T) {
		conn.ExpectQuery(byName).WithArgs(user.Name).
			WillReturnRows(pgxmock.NewRows(cols).AddRow(user.ID, user.Name, user.PasswordHash))
		result, err := repo.FindByName(ctx, user.Name)
		require.NoError(t, err)
		assert.Equal(t, user, *result)
	})
	t.Run("by name not found", func(t *testing.T) {
		conn.ExpectQuery(byName).WithArgs(user.Name).WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByName(ctx, user.Name)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("by id", func(t *testing.T) {
		conn.ExpectQuery(byID).WithArgs(user.ID).
			WillReturnRows(pgxmock.NewRows(cols).AddRow(user.ID, user.Name, user.PasswordHash))
		result, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, *result)
	})
	t.Run("by id not found", func(t *testing.T) {
		conn.ExpectQuery(byID).WithArgs(user.ID).WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByID(ctx, user.ID)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("by id db error", func(t *testing.T) {
		conn.ExpectQuery(byID).WithArgs(user.ID).WillReturnError(errors.New("db error"))
		_, err := repo.FindByID(ctx, user.ID)
		assert.EqualError(t, err, "searching user by id error: db error")
	})
}

func TestUpdateUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewUsersRepoWithConn(conn)
	user := entity.User{
		ID:           uuid.New(),
		Name:         "renamed",
		PasswordHash: "hash",
	}
	query := regexp.QuoteMeta(`UPDATE users SET name = $1, password_hash = $2 WHERE id = $3;`)
	testCases := []struct {
		Desc         string
		Error        error
		MockPrepFunc func()
	}{
		{
			Desc: "success",
			MockPrepFunc: func() {
				conn.ExpectExec(query).WithArgs(user.Name, user.PasswordHash, user.ID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			Desc:  "not found",
			Error: errorvalues.ErrUserNotFound,
			MockPrepFunc: func() {
				conn.ExpectExec(query).WithArgs(user.Name, user.PasswordHash, user.ID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
		},
		{
			Desc:  "name taken",
			Error: errorvalues.ErrUserExists,
			MockPrepFunc: func() {
				conn.ExpectExec(query).WithArgs(user.Name, user.PasswordHash, user.ID).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			err := repo.Update(ctx, &user)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeleteUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewUsersRepoWithConn(conn)
	uid := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, uid))
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(uid).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, uid), errorvalues.ErrUserNotFound)
	})
}
