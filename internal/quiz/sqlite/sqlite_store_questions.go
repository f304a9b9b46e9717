package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trivia-quiz/internal/quiz"
)

var _ quiz.Store = (*SQLiteStore)(nil)

// AddQuestions inserts or replaces questions by id in one transaction and
// returns how many were written. Invalid questions abort the whole batch.
func (s *SQLiteStore) AddQuestions(ctx context.Context, questions []quiz.Question) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for idx, question := range questions {
		if question.ID == "" {
			return 0, errors.New("question id is required")
		}
		if err := question.Validate(); err != nil {
			return 0, fmt.Errorf("question %d (%s): %w", idx, question.ID, err)
		}
		if question.CreatedAt.IsZero() {
			question.CreatedAt = now
		}

		optionsJSON, err := json.Marshal(question.Options)
		if err != nil {
			return 0, err
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO questions (id, category, difficulty, text, options_json, correct_answer, description, created_by, created_at_unix)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				category = excluded.category,
				difficulty = excluded.difficulty,
				text = excluded.text,
				options_json = excluded.options_json,
				correct_answer = excluded.correct_answer,
				description = excluded.description,
				created_by = excluded.created_by`,
			question.ID,
			question.Category,
			string(question.Difficulty),
			question.Text,
			string(optionsJSON),
			question.CorrectAnswer,
			question.Description,
			question.CreatedBy,
			question.CreatedAt.UnixNano(),
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(questions), nil
}

// ListQuestions returns the question pool for category; quiz.CategoryAll
// returns every question.
func (s *SQLiteStore) ListQuestions(ctx context.Context, category string) ([]quiz.Question, error) {
	query := `SELECT id, category, difficulty, text, options_json, correct_answer, description, created_by, created_at_unix
		 FROM questions`
	args := []any{}
	if !quiz.IsAllCategories(category) {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at_unix ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]quiz.Question, 0)
	for rows.Next() {
		var (
			question      quiz.Question
			difficulty    string
			optionsJSON   string
			createdAtUnix int64
		)
		if err := rows.Scan(
			&question.ID,
			&question.Category,
			&difficulty,
			&question.Text,
			&optionsJSON,
			&question.CorrectAnswer,
			&question.Description,
			&question.CreatedBy,
			&createdAtUnix,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(optionsJSON), &question.Options); err != nil {
			return nil, fmt.Errorf("decode options for %s: %w", question.ID, err)
		}
		question.Difficulty = quiz.Difficulty(difficulty)
		question.CreatedAt = time.Unix(0, createdAtUnix).UTC()
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

func (s *SQLiteStore) CategoryCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM questions GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}

	return counts, rows.Err()
}
