package quiz

import (
	"context"
	"time"
)

type LeaderboardEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Score     int       `json:"score"`
	Accuracy  float64   `json:"accuracy"`
	TimeTaken int       `json:"time_taken"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionSource supplies candidate questions. CategoryAll or "" selects every category.
type QuestionSource interface {
	ListQuestions(ctx context.Context, category string) ([]Question, error)
}

// ResultSink stores finalized games.
type ResultSink interface {
	SaveGame(ctx context.Context, result GameResult) error
}

// GameReader loads a stored game by id. Missing games return ErrGameNotFound.
type GameReader interface {
	GetGame(ctx context.Context, gameID string) (GameResult, error)
}

type LeaderboardReader interface {
	Leaderboard(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error)
}

// Store is implemented by the storage backends.
type Store interface {
	QuestionSource
	ResultSink
	LeaderboardReader
	GameReader
	AddQuestions(ctx context.Context, questions []Question) (int, error)
	CategoryCounts(ctx context.Context) (map[string]int, error)
	Close() error
}
