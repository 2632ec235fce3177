package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limbo/habitflow/internal/analytics"
	"github.com/limbo/habitflow/internal/api"
	"github.com/limbo/habitflow/internal/cache"
	"github.com/limbo/habitflow/internal/repository"
	"github.com/limbo/habitflow/internal/service"
	"github.com/limbo/habitflow/pkg/cleanup"
	"github.com/limbo/habitflow/pkg/config"
	jwtservice "github.com/limbo/habitflow/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

// newStatsCache connects to redis. Without it dashboards are computed on every request.
func newStatsCache(cfg *config.Config) service.StatsCache {
	addr := cfg.GetString("REDIS_ADDRESS")
	if addr == "" {
		slog.Warn("REDIS_ADDRESS is not set, dashboard cache disabled")
		return nil
	}
	rdb := cache.NewRedisClient(cache.RedisConfig{
		Addr:     addr,
		Password: cfg.GetString("REDIS_PASSWORD"),
		DB:       cfg.GetInt("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis is unreachable, dashboard cache disabled", slog.String("error", err.Error()))
		rdb.Close()
		return nil
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    rdb.Close,
	})
	return cache.NewRedisStatsCache(rdb, cfg.GetDuration("STATS_CACHE_TTL", cache.DefaultTTL))
}

// setupLogging installs the JSON handler before the config is loaded, so
// warnings from loading it are structured too, then applies LOG_LEVEL.
func setupLogging(w io.Writer) *config.Config {
	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
	cfg := config.New()
	level.Set(cfg.LogLevel())
	return cfg
}

func main() {
	cfg := setupLogging(os.Stdout)

	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	conn := repository.Instrument(repository.Connect(&dbCfg))
	usersRepo := repository.NewUsersRepoWithConn(conn)
	habitsRepo := repository.NewHabitsRepoWithConn(conn)
	checksRepo := repository.NewHabitChecksRepoWithConn(conn)
	tasksRepo := repository.NewTasksRepoWithConn(conn)

	clock := analytics.SystemClock{Location: cfg.Location()}
	statsCache := newStatsCache(cfg)

	checksService := service.NewHabitChecksService(habitsRepo, checksRepo, clock, statsCache)
	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(usersRepo),
		HabitsService:      service.NewHabitsService(habitsRepo, checksRepo, clock, statsCache),
		HabitChecksService: checksService,
		StatsService:       service.NewStatsService(habitsRepo, checksRepo, clock, statsCache),
		TaskService:        service.NewTaskService(tasksRepo, clock),
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
		Clock:              clock,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	purgeCtx, stopPurge := context.WithCancel(ctx)
	purgeDone := make(chan struct{})
	go func() {
		defer close(purgeDone)
		service.RunPurgeLoop(purgeCtx, checksService, cfg.GetDuration("PURGE_INTERVAL", service.DefaultPurgeInterval))
	}()
	cleanup.Register(&cleanup.Job{
		Name: "stopping checks purge loop",
		F: func() error {
			stopPurge()
			<-purgeDone
			return nil
		},
	})

	err := serv.Run(ctx, cfg.GetStringOr("API_ADDRESS", ":8080"))
	cleanup.CleanUp()
	if err != nil {
		log.Fatal("server error: " + err.Error())
	}
	slog.Info("server stopped")
}
