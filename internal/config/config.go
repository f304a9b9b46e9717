package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the binaries.
type Config struct {
	Addr     string
	Database DatabaseConfig
	// JWTSecret verifies bearer tokens. Empty trusts the X-User-ID header.
	JWTSecret      string
	TotalTime      time.Duration
	PersistTimeout time.Duration
	LogLevel       string
	LogFormat      string
	CORSOrigins    []string
}

type DatabaseConfig struct {
	Driver string // sqlite3 or postgres
	DSN    string // SQLite file path or Postgres connection string
}

// Load reads an optional .env file and then the environment. Variables
// already set win over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr: getEnv("ADDR", ":8080"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite3")),
			DSN:    getEnv("DB_DSN", "quiz.db"),
		},
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TotalTime:      getEnvDuration("QUIZ_TOTAL_TIME", 90*time.Second),
		PersistTimeout: getEnvDuration("PERSIST_TIMEOUT", 5*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
