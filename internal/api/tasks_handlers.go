package api

import (
	"context"
	"net/http"

	"github.com/limbo/habitflow/internal/service"
	"github.com/limbo/habitflow/pkg/entity"
	"github.com/limbo/habitflow/pkg/httputil"
)

type CreateTaskRequest struct {
	Title   string  `json:"title"`
	DueDate string  `json:"due_date"`
	DueTime string  `json:"due_time"`
	EndTime *string `json:"end_time,omitempty"`
}

type GetTasksResponse struct {
	UserID string         `json:"uid"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Tasks  []*entity.Task `json:"tasks"`
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "create task")
		return
	}
	var req CreateTaskRequest
	if err = decodeBody(r, &req); err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.taskService.CreateTask(ctx, uid, service.CreateTaskRequest{
		Title:   req.Title,
		DueDate: req.DueDate,
		DueTime: req.DueTime,
		EndTime: req.EndTime,
	})
	if err != nil {
		writeServiceError(w, logger, "create task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created")
}

func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "get tasks")
		return
	}
	pagination, page := paginationFromQuery(r)
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	tasks, err := s.taskService.GetUserTasks(ctx, uid, pagination)
	if err != nil {
		writeServiceError(w, logger, "get tasks", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetTasksResponse{
		UserID: uid.String(),
		Page:   page,
		Limit:  pagination.Limit,
		Tasks:  tasks,
	})
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "complete task")
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("complete task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	task, err := s.taskService.CompleteTask(ctx, id, uid)
	if err != nil {
		writeServiceError(w, logger, "complete task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task completed")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "task deletion")
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("task deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err = s.taskService.DeleteTask(ctx, id, uid); err != nil {
		writeServiceError(w, logger, "task deletion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task deleted")
}
