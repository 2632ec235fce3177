package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/limbo/habitflow/internal/analytics"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/pkg/httputil"
)

// Default window of GET /habits/{id}/checks when from is omitted, today included.
const defaultChecksWindow = 30

type CheckHabitRequest struct {
	// Empty means today
	Date string `json:"date"`
}

type CheckHabitResponse struct {
	HabitID       string `json:"habit_id"`
	Date          string `json:"date"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

func (s *Server) CheckHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "check habit")
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("check habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req CheckHabitRequest
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("check habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	date, err := s.dateOrToday(req.Date)
	if err != nil {
		writeServiceError(w, logger, "check habit", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	streaks, err := s.checksService.CheckHabit(ctx, id, uid, date)
	if err != nil {
		writeServiceError(w, logger, "check habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, CheckHabitResponse{
		HabitID:       id.String(),
		Date:          analytics.FormatDate(date),
		CurrentStreak: streaks.Current,
		BestStreak:    streaks.Best,
	})
	logger.Info("habit checked")
}

func (s *Server) UncheckHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "uncheck habit")
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("uncheck habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	date, err := analytics.ParseDate(r.PathValue("date"))
	if err != nil {
		writeServiceError(w, logger, "uncheck habit", errorvalues.ErrInvalidDate)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	streaks, err := s.checksService.UncheckHabit(ctx, id, uid, date)
	if err != nil {
		writeServiceError(w, logger, "uncheck habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, CheckHabitResponse{
		HabitID:       id.String(),
		Date:          analytics.FormatDate(date),
		CurrentStreak: streaks.Current,
		BestStreak:    streaks.Best,
	})
	logger.Info("habit unchecked")
}

// GetHabitChecks lists checks between from and to inclusive. to defaults to
// today and from to the start of the default window ending at to.
func (s *Server) GetHabitChecks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "get checks")
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("get checks error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	to, err := s.dateOrToday(r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, logger, "get checks", err)
		return
	}
	from := analytics.AddDays(to, -(defaultChecksWindow - 1))
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = analytics.ParseDate(v); err != nil {
			writeServiceError(w, logger, "get checks", errorvalues.ErrInvalidDate)
			return
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	checks, err := s.checksService.GetHabitChecks(ctx, id, uid, from, to)
	if err != nil {
		writeServiceError(w, logger, "get checks", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"habit_id": id.String(),
		"from":     analytics.FormatDate(from),
		"to":       analytics.FormatDate(to),
		"checks":   checks,
	})
}

func (s *Server) GetHabitStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "get habit stats")
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("get habit stats error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	period := analytics.Week()
	if v := r.URL.Query().Get("period"); v != "" {
		if period, err = analytics.ParsePeriod(v); err != nil {
			writeServiceError(w, logger, "get habit stats", errors.Join(errorvalues.ErrInvalidPeriod, err))
			return
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	stats, err := s.checksService.GetHabitStats(ctx, id, uid, period)
	if err != nil {
		writeServiceError(w, logger, "get habit stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

// GetCalendar renders the month given as YYYY-MM, the current month by default.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "get calendar")
		return
	}
	id, err := pathID(r)
	if err != nil {
		logger.Error("get calendar error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	month := analytics.MonthStart(analytics.Day(s.clock.Now()))
	if v := r.URL.Query().Get("month"); v != "" {
		if month, err = time.Parse("2006-01", v); err != nil {
			logger.Error("get calendar error: invalid month")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "month must be formatted as YYYY-MM", nil)
			return
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	days, err := s.checksService.GetCalendar(ctx, id, uid, month)
	if err != nil {
		writeServiceError(w, logger, "get calendar", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"habit_id": id.String(),
		"month":    month.Format("2006-01"),
		"days":     days,
	})
}
