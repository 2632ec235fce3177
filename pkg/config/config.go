package config

import (
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	envFileVar     = "HABITFLOW_ENV_FILE"
	defaultEnvFile = "./configs/.env"
)

var (
	once     sync.Once
	instance *Config
)

type Config struct {
}

// New loads the .env file once per process. Variables already present in the
// environment take precedence over the file, and a missing file is not fatal.
func New() *Config {
	once.Do(func() {
		path := os.Getenv(envFileVar)
		if path == "" {
			path = defaultEnvFile
		}
		err := godotenv.Load(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Fatal("loading envs error: ", err)
			}
			slog.Warn("env file not found, using process environment", slog.String("path", path))
		}
		instance = &Config{}
	})
	return instance
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

func (c *Config) GetStringOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (c *Config) GetInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func (c *Config) GetDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// Location is the single timezone calendar dates are computed in (APP_TIMEZONE).
func (c *Config) Location() *time.Location {
	name := os.Getenv("APP_TIMEZONE")
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown APP_TIMEZONE, falling back to local", slog.String("tz", name))
		return time.Local
	}
	return loc
}

func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.GetStringOr("LOG_LEVEL", "info"))); err != nil {
		return slog.LevelInfo
	}
	return level
}
