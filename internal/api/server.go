package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/habitflow/internal/analytics"
	"github.com/limbo/habitflow/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	mx            *chi.Mux
	userService   service.UserServiceI
	habitsService service.HabitsServiceI
	checksService service.HabitChecksServiceI
	statsService  service.StatsServiceI
	taskService   service.TaskServiceI
	jwtService    JWTServiceI
	clock         analytics.Clock
}

type ServicesList struct {
	UserService        service.UserServiceI
	HabitsService      service.HabitsServiceI
	HabitChecksService service.HabitChecksServiceI
	StatsService       service.StatsServiceI
	TaskService        service.TaskServiceI
	JwtService         JWTServiceI
	// Clock resolves "today" for requests without an explicit date. Defaults to the system clock.
	Clock analytics.Clock
}

func New(servicesOptions *ServicesList) *Server {
	clock := servicesOptions.Clock
	if clock == nil {
		clock = analytics.SystemClock{}
	}
	s := &Server{
		mx:            chi.NewMux(),
		userService:   servicesOptions.UserService,
		habitsService: servicesOptions.HabitsService,
		checksService: servicesOptions.HabitChecksService,
		statsService:  servicesOptions.StatsService,
		taskService:   servicesOptions.TaskService,
		jwtService:    servicesOptions.JwtService,
		clock:         clock,
	}
	s.mountRoutes()
	return s
}

func (s *Server) mountRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware, s.MetricsMiddleware)
	s.mx.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Delete("/auth/account", s.DeleteAccount)

			r.Post("/habits", s.CreateHabit)
			r.Get("/habits", s.GetHabits)
			r.Get("/habits/{id}", s.GetHabit)
			r.Put("/habits/{id}", s.UpdateHabit)
			r.Delete("/habits/{id}", s.DeleteHabit)
			r.Put("/habits/{id}/schedule", s.UpdateSchedule)

			r.Post("/habits/{id}/checks", s.CheckHabit)
			r.Get("/habits/{id}/checks", s.GetHabitChecks)
			r.Delete("/habits/{id}/checks/{date}", s.UncheckHabit)
			r.Get("/habits/{id}/stats", s.GetHabitStats)
			r.Get("/habits/{id}/calendar", s.GetCalendar)

			r.Get("/stats", s.GetDashboard)

			r.Post("/tasks", s.CreateTask)
			r.Get("/tasks", s.GetTasks)
			r.Post("/tasks/{id}/complete", s.CompleteTask)
			r.Delete("/tasks/{id}", s.DeleteTask)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("http server shutdown error: " + err.Error())
	}
	return nil
}
