package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string
	AppName        string
	Port           string
	LogLevel       slog.Level
	SQLitePath     string
	MigrationsPath string
	SourceBaseURL  string
	RelaysPath     string
	FetchTimeoutMS int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:    getEnv("APP_ENV", "development"),
		AppName:        getEnv("APP_NAME", "anime-gateway"),
		Port:           getEnv("APP_PORT", "8080"),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/app.sqlite"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		SourceBaseURL:  getEnv("SOURCE_BASE_URL", "https://www3.animeflv.net"),
		RelaysPath:     getEnv("RELAYS_PATH", "./relays.yaml"),
		FetchTimeoutMS: getEnvAsInt("FETCH_TIMEOUT_MS", 8000),
	}

	if cfg.FetchTimeoutMS <= 0 {
		cfg.FetchTimeoutMS = 8000
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "INFO"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q, expected DEBUG|INFO|WARN|ERROR", raw)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
