package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"trivia-quiz/internal/quiz"
)

const defaultLeaderboardLimit = 10

// SaveGame stores a finalized game and its answers in one transaction.
//
// Invariants:
//   - a game id is written once; saving it again is a no-op.
//   - (game_id, question_id) is unique in quiz_answers, so a recorded answer
//     is never overwritten.
func (s *SQLiteStore) SaveGame(ctx context.Context, result quiz.GameResult) error {
	if result.ID == "" {
		return errors.New("game id is required")
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertResult, err := tx.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO quiz_games (id, user_id, category, score, total_questions, accuracy, time_taken, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.UserID,
		quiz.NormalizeCategory(result.Category),
		result.Score,
		result.TotalQuestions,
		result.Accuracy,
		result.TimeTaken,
		result.CreatedAt.UnixNano(),
	)
	if err != nil {
		return err
	}

	inserted, err := insertResult.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return tx.Commit()
	}

	for idx, answer := range result.Answers {
		createdAt := answer.CreatedAt
		if createdAt.IsZero() {
			createdAt = result.CreatedAt
		}
		userID := answer.UserID
		if userID == "" {
			userID = result.UserID
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO quiz_answers (game_id, question_id, user_id, selected_answer, is_correct, position, created_at_unix)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.ID,
			answer.QuestionID,
			userID,
			answer.SelectedAnswer,
			answer.IsCorrect,
			idx,
			createdAt.UnixNano(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetGame loads a stored game with its answers in recorded order.
func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (quiz.GameResult, error) {
	var (
		result        quiz.GameResult
		createdAtUnix int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, category, score, total_questions, accuracy, time_taken, created_at_unix
		 FROM quiz_games WHERE id = ?`,
		gameID,
	).Scan(
		&result.ID,
		&result.UserID,
		&result.Category,
		&result.Score,
		&result.TotalQuestions,
		&result.Accuracy,
		&result.TimeTaken,
		&createdAtUnix,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.GameResult{}, quiz.ErrGameNotFound
		}
		return quiz.GameResult{}, err
	}
	result.CreatedAt = time.Unix(0, createdAtUnix).UTC()

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, user_id, selected_answer, is_correct, created_at_unix
		 FROM quiz_answers WHERE game_id = ?
		 ORDER BY position ASC`,
		gameID,
	)
	if err != nil {
		return quiz.GameResult{}, err
	}
	defer rows.Close()

	result.Answers = make([]quiz.QuizAnswer, 0)
	for rows.Next() {
		var (
			answer        quiz.QuizAnswer
			answeredAtUns int64
		)
		if err := rows.Scan(&answer.QuestionID, &answer.UserID, &answer.SelectedAnswer, &answer.IsCorrect, &answeredAtUns); err != nil {
			return quiz.GameResult{}, err
		}
		answer.CreatedAt = time.Unix(0, answeredAtUns).UTC()
		result.Answers = append(result.Answers, answer)
	}

	return result, rows.Err()
}

// Leaderboard returns the best games, highest score first. Ties go to the
// faster game, then the earlier one.
func (s *SQLiteStore) Leaderboard(ctx context.Context, category string, limit int) ([]quiz.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	query := `SELECT id, user_id, category, score, accuracy, time_taken, created_at_unix FROM quiz_games`
	args := []any{}
	if !quiz.IsAllCategories(category) {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY score DESC, time_taken ASC, created_at_unix ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]quiz.LeaderboardEntry, 0)
	for rows.Next() {
		var (
			entry         quiz.LeaderboardEntry
			createdAtUnix int64
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Category, &entry.Score, &entry.Accuracy, &entry.TimeTaken, &createdAtUnix); err != nil {
			return nil, err
		}
		entry.CreatedAt = time.Unix(0, createdAtUnix).UTC()
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
