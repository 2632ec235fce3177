package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/pkg/entity"
)

type TaskService struct {
	repo  repository.TasksRepositoryI
	clock analytics.Clock
}

func NewTaskService(tasksRepo repository.TasksRepositoryI, clock analytics.Clock) *TaskService {
	if tasksRepo == nil {
		log.Fatal("provided nil tasksRepo")
	}
	if clock == nil {
		clock = analytics.SystemClock{}
	}
	return &TaskService{
		repo:  tasksRepo,
		clock: clock,
	}
}

func (ts *TaskService) CreateTask(ctx context.Context, uid uuid.UUID, req CreateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	id, err := ts.repo.Create(ctx, &entity.Task{
		UserID:  uid,
		Title:   req.Title,
		Status:  entity.TaskPending,
		DueDate: req.DueDate,
		DueTime: req.DueTime,
		EndTime: req.EndTime,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrOwnerNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return withDerivedStatus(task, ts.clock.Now()), nil
}

func (ts *TaskService) GetUserTasks(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Task, error) {
	tasks, err := ts.repo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	now := ts.clock.Now()
	for _, t := range tasks {
		withDerivedStatus(t, now)
	}
	return tasks, nil
}

func (ts *TaskService) CompleteTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.Task, error) {
	task, err := ts.getOwnedTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if err = ts.repo.SetStatus(ctx, taskID, entity.TaskCompleted); err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	task.Status = entity.TaskCompleted
	return task, nil
}

func (ts *TaskService) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	if _, err := ts.getOwnedTask(ctx, taskID, userID); err != nil {
		return err
	}
	if err := ts.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return errors.New("tasks repository error: " + err.Error())
	}
	return nil
}

func (ts *TaskService) getOwnedTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if task.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return task, nil
}

// withDerivedStatus replaces the stored status: completed stays, anything else is
// overdue once its due date has passed and pending otherwise.
func withDerivedStatus(task *entity.Task, now time.Time) *entity.Task {
	completed := task.Status == entity.TaskCompleted
	switch {
	case completed:
	case analytics.TaskOverdue(task.DueDate, completed, now):
		task.Status = entity.TaskOverdue
	default:
		task.Status = entity.TaskPending
	}
	return task
}
