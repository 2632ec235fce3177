package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/service"
	"github.com/limbo/habitflow/pkg/httputil"
)

const (
	defaultLimit   = 10
	maxLimit       = 50
	requestTimeout = time.Second * 10
)

var errUnauthorized = errors.New("no authorization")

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}

// paginationFromQuery reads limit and page (1-based), clamping bad values to defaults.
func paginationFromQuery(r *http.Request) (service.PaginationOpts, int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return service.PaginationOpts{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, page
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// dateOrToday parses a YYYY-MM-DD value, an empty value meaning the server's today.
func (s *Server) dateOrToday(value string) (time.Time, error) {
	if value == "" {
		return analytics.Day(s.clock.Now()), nil
	}
	d, err := analytics.ParseDate(value)
	if err != nil {
		return time.Time{}, errorvalues.ErrInvalidDate
	}
	return d, nil
}

// writeServiceError maps service sentinels onto statuses. Anything unknown is
// a storage or internal failure and is reported as retryable.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	status := http.StatusInternalServerError
	var message string
	var details error
	switch {
	case errors.Is(err, errorvalues.ErrValidation):
		status, message, details = http.StatusBadRequest, "invalid request", err
	case errors.Is(err, errorvalues.ErrInvalidSchedule):
		status, message, details = http.StatusBadRequest, "invalid schedule", err
	case errors.Is(err, errorvalues.ErrInvalidDate), errors.Is(err, errorvalues.ErrInvalidPeriod):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, errorvalues.ErrCheckDateNotAllowed), errors.Is(err, errorvalues.ErrCheckBeforeCreation):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
		// Foreign habits and tasks are indistinguishable from missing ones.
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, errorvalues.ErrTaskNotFound):
		status, message = http.StatusNotFound, "task doesn't exist"
	case errors.Is(err, errorvalues.ErrCheckNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, errorvalues.ErrUserNotFound):
		status, message = http.StatusNotFound, "user doesn't exist"
	case errors.Is(err, errorvalues.ErrCheckExist), errors.Is(err, errorvalues.ErrUserHasHabit),
		errors.Is(err, errorvalues.ErrUserExists):
		status, message = http.StatusConflict, err.Error()
	}
	if status == http.StatusInternalServerError {
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteRetryableError(w, "internal error during "+op)
		return
	}
	logger.Error(op+" error", slog.String("error", err.Error()), slog.Int("status", status))
	httputil.WriteErrorResponse(w, status, message, details)
}

func writeUnauthorized(w http.ResponseWriter, logger *slog.Logger, op string) {
	logger.Error(op + " error: unauthorized")
	httputil.WriteErrorResponse(w, http.StatusUnauthorized, errUnauthorized.Error(), nil)
}
