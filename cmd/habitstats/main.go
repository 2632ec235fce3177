package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/limbo/habitflow/internal/analytics"
	"github.com/limbo/habitflow/internal/report"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/internal/service"
	"github.com/limbo/habitflow/pkg/cleanup"
	"github.com/limbo/habitflow/pkg/config"
)

type appContext struct {
	Out    io.Writer
	Users  service.UserServiceI
	Habits service.HabitsServiceI
	Checks service.HabitChecksServiceI
	Stats  service.StatsServiceI
}

type ReportCmd struct {
	User   string `help:"User id to report on." required:""`
	Period string `help:"Rate period: week, month or a number of days." default:"week"`
	Limit  int    `help:"Maximum number of habits to show." default:"100"`
}

func (c *ReportCmd) Run(app *appContext) error {
	uid, err := uuid.Parse(c.User)
	if err != nil {
		return errors.New("invalid user id: " + err.Error())
	}
	period, err := analytics.ParsePeriod(c.Period)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := app.Users.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	habits, err := app.Habits.GetUserHabits(ctx, uid, service.PaginationOpts{Limit: c.Limit})
	if err != nil {
		return err
	}
	rows := make([]report.HabitRow, 0, len(habits))
	for _, h := range habits {
		stats, err := app.Checks.GetHabitStats(ctx, h.ID, uid, period)
		if err != nil {
			return fmt.Errorf("stats of habit %q: %w", h.Title, err)
		}
		rows = append(rows, report.HabitRow{Habit: h, Stats: stats})
	}
	dashboard, err := app.Stats.GetDashboard(ctx, uid)
	if err != nil {
		return err
	}
	return report.Render(app.Out, user.Name, period.String(), rows, dashboard)
}

var CLI struct {
	Report ReportCmd `cmd:"" help:"Print streaks and completion rates of a user's habits." default:"withargs"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("habitstats"),
		kong.Description("Terminal report of habit streaks and completion rates"),
		kong.UsageOnError(),
	)

	cfg := config.New()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))
	service.InitValidator()

	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	conn := repository.Connect(&dbCfg)
	habitsRepo := repository.NewHabitsRepoWithConn(conn)
	checksRepo := repository.NewHabitChecksRepoWithConn(conn)
	clock := analytics.SystemClock{Location: cfg.Location()}

	err := kctx.Run(&appContext{
		Out:    os.Stdout,
		Users:  service.NewUserService(repository.NewUsersRepoWithConn(conn)),
		Habits: service.NewHabitsService(habitsRepo, checksRepo, clock, nil),
		Checks: service.NewHabitChecksService(habitsRepo, checksRepo, clock, nil),
		Stats:  service.NewStatsService(habitsRepo, checksRepo, clock, nil),
	})
	cleanup.CleanUp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
