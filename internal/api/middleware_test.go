package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/api"
	errorvalues "github.com/limbo/habitflow/internal/error_values"
	"github.com/limbo/habitflow/internal/service/mocks"
	"github.com/limbo/habitflow/pkg/entity"
	jwtservice "github.com/limbo/habitflow/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	sService := mocks.NewMockStatsServiceI(ctrl)
	jwtService := jwtservice.New("secret")
	serv := api.New(&api.ServicesList{
		UserService:   uService,
		HabitsService: hService,
		StatsService:  sService,
		JwtService:    jwtService,
	})
	user := &entity.User{ID: userID, Name: username}
	token, err := jwtService.GenerateToken(user)
	require.NoError(t, err)

	t.Run("no token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})
	t.Run("malformed header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		r.Header.Set("Authorization", "Token "+token)
		serv.ServeHTTP(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("token signed by another secret", func(t *testing.T) {
		foreign, err := jwtservice.New("other").GenerateToken(user)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		r.Header.Set("Authorization", "Bearer "+foreign)
		serv.ServeHTTP(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("deleted user", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(nil, errorvalues.ErrUserNotFound)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		serv.ServeHTTP(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("authorized", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(user, nil)
		sService.EXPECT().GetDashboard(gomock.Any(), userID).Return(&entity.DashboardStats{}, nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		serv.ServeHTTP(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("path values reach handlers", func(t *testing.T) {
		habitID := uuid.New()
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(user, nil)
		hService.EXPECT().GetHabit(gomock.Any(), habitID, userID).Return(&entity.Habit{ID: habitID, UserID: userID}, nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/habits/"+habitID.String(), nil)
		r.Header.Set("Authorization", "Bearer "+token)
		serv.ServeHTTP(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	serv := api.New(&api.ServicesList{})
	rr := httptest.NewRecorder()
	serv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
