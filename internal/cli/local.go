package cli

import (
	"context"

	"trivia-quiz/internal/quiz"
)

// Local adapts an in-process service to Engine.
type Local struct {
	Service *quiz.Service
}

func (l Local) StartGame(ctx context.Context, userID, category string) (quiz.GameSnapshot, error) {
	return l.Service.StartGame(ctx, userID, category)
}

func (l Local) Snapshot(_ context.Context, gameID, userID string) (quiz.GameSnapshot, error) {
	return l.Service.Snapshot(gameID, userID)
}

func (l Local) SubmitAnswer(ctx context.Context, gameID, userID, questionID, selected string) (quiz.AnswerOutcome, error) {
	return l.Service.SubmitAnswer(ctx, gameID, userID, questionID, selected)
}

func (l Local) Finish(ctx context.Context, gameID, userID string) (quiz.GameResult, error) {
	return l.Service.Finish(ctx, gameID, userID)
}

func (l Local) Leaderboard(ctx context.Context, category string, limit int) ([]quiz.LeaderboardEntry, error) {
	return l.Service.Leaderboard(ctx, category, limit)
}
