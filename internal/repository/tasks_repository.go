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

const taskColumns = `id, user_id, title, status, due_date, due_time, end_time, created_at`

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepoWithConn(conn PgConnection) *TasksRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for tasksRepo: " + err.Error())
	}
	return &TasksRepository{
		conn: conn,
	}
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) (uuid.UUID, error) {
	dueDate, err := analytics.ParseDate(task.DueDate)
	if err != nil {
		return uuid.UUID{}, errors.New("creating task error: invalid due date: " + err.Error())
	}
	status := task.Status
	if status == "" {
		status = entity.TaskPending
	}
	var id uuid.UUID
	row := tr.conn.QueryRow(ctx, `INSERT INTO tasks (user_id, title, status, due_date, due_time, end_time) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		task.UserID,
		task.Title,
		string(status),
		dueDate,
		task.DueTime,
		task.EndTime,
	)
	if err = row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return uuid.UUID{}, errorvalues.ErrOwnerNotFound
		}
		return uuid.UUID{}, errors.New("creating task db error: " + err.Error())
	}
	return id, nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	row := tr.conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1;`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by id error: " + err.Error())
	}
	return task, nil
}

func (tr *TasksRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Task, error) {
	rows, err := tr.conn.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY due_date, due_time LIMIT $2 OFFSET $3;`,
		uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting tasks by uid error: " + err.Error())
	}
	defer rows.Close()
	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, errors.New("unmarshalling task error: " + err.Error())
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning tasks: " + err.Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) SetStatus(ctx context.Context, id uuid.UUID, status entity.TaskStatus) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE tasks SET status = $1 WHERE id = $2;`, string(status), id)
	if err != nil {
		return errors.New("error setting task status: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting task: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		t       entity.Task
		status  string
		dueDate time.Time
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &status, &dueDate, &t.DueTime, &t.EndTime, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TaskStatus(status)
	t.DueDate = analytics.FormatDate(dueDate)
	return &t, nil
}
