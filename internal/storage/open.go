package storage

import (
	"fmt"

	"trivia-quiz/internal/config"
	"trivia-quiz/internal/quiz"
	"trivia-quiz/internal/quiz/postgres"
	"trivia-quiz/internal/quiz/sqlite"
)

// Open returns the store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (quiz.Store, error) {
	switch cfg.Driver {
	case "", "sqlite", "sqlite3":
		return sqlite.NewSQLiteStore(cfg.DSN)
	case "postgres", "postgresql", "pgx":
		return postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
