package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"trivia-quiz/internal/quiz"
)

const defaultLeaderboardLimit = 10

var _ quiz.Store = (*Store)(nil)

// Store keeps questions and finalized games in PostgreSQL through gorm.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn, configures the pool and migrates the schema.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	store := New(db)
	if err := store.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection. Call Migrate before first use on a
// fresh database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&questionRecord{}, &gameRecord{}, &answerRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) AddQuestions(ctx context.Context, questions []quiz.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	records := make([]questionRecord, 0, len(questions))
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
		records = append(records, newQuestionRecord(question))
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category", "difficulty", "text", "options", "correct_answer", "description", "created_by",
		}),
	}).Create(&records).Error
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *Store) ListQuestions(ctx context.Context, category string) ([]quiz.Question, error) {
	query := s.db.WithContext(ctx).Model(&questionRecord{})
	if !quiz.IsAllCategories(category) {
		query = query.Where("category = ?", category)
	}

	var records []questionRecord
	if err := query.Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	questions := make([]quiz.Question, 0, len(records))
	for _, record := range records {
		questions = append(questions, record.toQuestion())
	}
	return questions, nil
}

func (s *Store) CategoryCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Category string
		Count    int
	}
	err := s.db.WithContext(ctx).
		Model(&questionRecord{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// SaveGame writes a finalized game once. A second save for the same id
// leaves the stored game and its answers untouched.
func (s *Store) SaveGame(ctx context.Context, result quiz.GameResult) error {
	if result.ID == "" {
		return errors.New("game id is required")
	}
	record := newGameRecord(result)
	answers := record.Answers
	record.Answers = nil

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if created.Error != nil {
			return created.Error
		}
		if created.RowsAffected == 0 || len(answers) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&answers).Error
	})
}

func (s *Store) GetGame(ctx context.Context, gameID string) (quiz.GameResult, error) {
	var record gameRecord
	err := s.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", gameID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quiz.GameResult{}, quiz.ErrGameNotFound
		}
		return quiz.GameResult{}, err
	}
	return record.toResult(), nil
}

func (s *Store) Leaderboard(ctx context.Context, category string, limit int) ([]quiz.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	query := s.db.WithContext(ctx).Model(&gameRecord{})
	if !quiz.IsAllCategories(category) {
		query = query.Where("category = ?", category)
	}

	var records []gameRecord
	err := query.
		Order("score DESC").
		Order("time_taken ASC").
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	entries := make([]quiz.LeaderboardEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toLeaderboardEntry())
	}
	return entries, nil
}
