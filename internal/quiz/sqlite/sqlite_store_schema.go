package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			text TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quiz_games (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			category TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			time_taken INTEGER NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quiz_answers (
			game_id TEXT NOT NULL REFERENCES quiz_games(id) ON DELETE CASCADE,
			question_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			selected_answer TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			position INTEGER NOT NULL,
			created_at_unix INTEGER NOT NULL,
			PRIMARY KEY (game_id, question_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category);`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_games_score ON quiz_games(score DESC, time_taken ASC, created_at_unix ASC);`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_games_category_score ON quiz_games(category, score DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
