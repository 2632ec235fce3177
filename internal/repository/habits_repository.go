package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/pkg/entity"
)

const habitColumns = `id, user_id, title, description, selected_days, created_date, current_streak, best_streak, created_at, updated_at`

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	createdDate, err := analytics.ParseDate(habit.CreatedDate)
	if err != nil {
		return uuid.UUID{}, errors.New("creating habit error: invalid created date: " + err.Error())
	}
	selectedDays := habit.SelectedDays
	if selectedDays == nil {
		selectedDays = []string{}
	}
	var id uuid.UUID
	row := hr.conn.QueryRow(ctx, `INSERT INTO habits (user_id, title, description, selected_days, created_date) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		habit.UserID,
		habit.Title,
		habit.Description,
		selectedDays,
		createdDate,
	)
	if err = row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrUserHasHabit
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	row := hr.conn.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1;`, id)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, `SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3;`,
		uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	return collectHabits(rows)
}

func (hr *HabitsRepository) ListAllByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, `SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY created_at;`, uid)
	if err != nil {
		return nil, errors.New("listing habits by uid error: " + err.Error())
	}
	return collectHabits(rows)
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	selectedDays := habit.SelectedDays
	if selectedDays == nil {
		selectedDays = []string{}
	}
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET title = $1, description = $2, selected_days = $3, updated_at = NOW() WHERE id = $4;`,
		habit.Title, habit.Description, selectedDays, habit.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorvalues.ErrUserHasHabit
		}
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) UpdateStreaks(ctx context.Context, id uuid.UUID, streaks entity.Streaks) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET current_streak = $1, best_streak = $2 WHERE id = $3;`,
		streaks.Current, streaks.Best, id,
	)
	if err != nil {
		return errors.New("error updating streaks: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	var h entity.Habit
	var createdDate time.Time
	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.SelectedDays, &createdDate,
		&h.CurrentStreak, &h.BestStreak, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	h.CreatedDate = analytics.FormatDate(createdDate)
	return &h, nil
}

func collectHabits(rows pgx.Rows) ([]*entity.Habit, error) {
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}
