package httpapi

import (
	"context"
	"log/slog"

	"trivia-quiz/internal/quiz"
)

// CategoryCounter reports how many questions each category holds.
type CategoryCounter interface {
	CategoryCounts(ctx context.Context) (map[string]int, error)
}

type API struct {
	service *quiz.Service
	counts  CategoryCounter
	logger  *slog.Logger
}

func NewAPI(service *quiz.Service, counts CategoryCounter, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		service: service,
		counts:  counts,
		logger:  logger,
	}
}
