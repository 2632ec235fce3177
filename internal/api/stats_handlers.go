package api

import (
	"context"
	"net/http"

	"github.com/limbo/habitflow/pkg/httputil"
)

func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		writeUnauthorized(w, logger, "get dashboard")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	stats, err := s.statsService.GetDashboard(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get dashboard", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}
