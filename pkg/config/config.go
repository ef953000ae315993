package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log    LogConfig
	Solver SolverConfig
	Jobs   JobsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig tunes the constraint search and the defaults applied to
// solve requests that leave optional knobs unset.
type SolverConfig struct {
	TimeBudget      time.Duration
	Workers         int
	SessionDuration int
	WindowStart     int
	WindowEnd       int
	RoomCount       int
	ResultTTL       time.Duration
}

// JobsConfig sizes the asynchronous solve queue.
type JobsConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		TimeBudget:      parseDuration(v.GetString("SOLVER_TIME_BUDGET"), 30*time.Second),
		Workers:         v.GetInt("SOLVER_WORKERS"),
		SessionDuration: v.GetInt("SOLVER_SESSION_DURATION"),
		WindowStart:     v.GetInt("SOLVER_WINDOW_START"),
		WindowEnd:       v.GetInt("SOLVER_WINDOW_END"),
		RoomCount:       v.GetInt("SOLVER_ROOM_COUNT"),
		ResultTTL:       parseDuration(v.GetString("SOLVER_RESULT_TTL"), 30*time.Minute),
	}

	cfg.Jobs = JobsConfig{
		Workers:    v.GetInt("JOBS_WORKERS"),
		BufferSize: v.GetInt("JOBS_BUFFER_SIZE"),
		MaxRetries: v.GetInt("JOBS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("JOBS_RETRY_DELAY"), time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_TIME_BUDGET", "30s")
	v.SetDefault("SOLVER_WORKERS", 1)
	v.SetDefault("SOLVER_SESSION_DURATION", 60)
	v.SetDefault("SOLVER_WINDOW_START", 480)
	v.SetDefault("SOLVER_WINDOW_END", 1200)
	v.SetDefault("SOLVER_ROOM_COUNT", 1)
	v.SetDefault("SOLVER_RESULT_TTL", "30m")

	v.SetDefault("JOBS_WORKERS", 1)
	v.SetDefault("JOBS_BUFFER_SIZE", 8)
	v.SetDefault("JOBS_MAX_RETRIES", 1)
	v.SetDefault("JOBS_RETRY_DELAY", "1s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
