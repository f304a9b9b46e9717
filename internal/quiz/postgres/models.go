package postgres

import (
	"time"

	"trivia-quiz/internal/quiz"
)

type questionRecord struct {
	ID            string    `gorm:"type:text;primaryKey"`
	Category      string    `gorm:"type:text;not null;index"`
	Difficulty    string    `gorm:"size:20;not null"`
	Text          string    `gorm:"type:text;not null"`
	Options       []string  `gorm:"type:jsonb;serializer:json;not null"`
	CorrectAnswer string    `gorm:"type:text;not null"`
	Description   string    `gorm:"type:text;not null;default:''"`
	CreatedBy     string    `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (questionRecord) TableName() string { return "questions" }

type gameRecord struct {
	ID             string         `gorm:"type:text;primaryKey"`
	UserID         string         `gorm:"type:text;not null;index"`
	Category       string         `gorm:"type:text;not null;index:idx_quiz_games_category_score,priority:1"`
	Score          int            `gorm:"not null;index:idx_quiz_games_category_score,priority:2,sort:desc"`
	TotalQuestions int            `gorm:"not null"`
	Accuracy       float64        `gorm:"type:double precision;not null"`
	TimeTaken      int            `gorm:"not null"`
	CreatedAt      time.Time      `gorm:"not null"`
	Answers        []answerRecord `gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (gameRecord) TableName() string { return "quiz_games" }

type answerRecord struct {
	GameID         string    `gorm:"type:text;primaryKey"`
	QuestionID     string    `gorm:"type:text;primaryKey"`
	UserID         string    `gorm:"type:text;not null"`
	SelectedAnswer string    `gorm:"type:text;not null"`
	IsCorrect      bool      `gorm:"not null;default:false"`
	Position       int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (answerRecord) TableName() string { return "quiz_answers" }

func newQuestionRecord(question quiz.Question) questionRecord {
	return questionRecord{
		ID:            question.ID,
		Category:      question.Category,
		Difficulty:    string(question.Difficulty),
		Text:          question.Text,
		Options:       append([]string(nil), question.Options...),
		CorrectAnswer: question.CorrectAnswer,
		Description:   question.Description,
		CreatedBy:     question.CreatedBy,
		CreatedAt:     question.CreatedAt.UTC(),
	}
}

func (r questionRecord) toQuestion() quiz.Question {
	return quiz.Question{
		ID:            r.ID,
		Category:      r.Category,
		Difficulty:    quiz.Difficulty(r.Difficulty),
		Text:          r.Text,
		Options:       append([]string(nil), r.Options...),
		CorrectAnswer: r.CorrectAnswer,
		Description:   r.Description,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

// newGameRecord fills defaults the same way the SQLite store does: answers
// without a user or timestamp inherit them from the game.
func newGameRecord(result quiz.GameResult) gameRecord {
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	record := gameRecord{
		ID:             result.ID,
		UserID:         result.UserID,
		Category:       quiz.NormalizeCategory(result.Category),
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Accuracy:       result.Accuracy,
		TimeTaken:      result.TimeTaken,
		CreatedAt:      createdAt,
		Answers:        make([]answerRecord, 0, len(result.Answers)),
	}
	for idx, answer := range result.Answers {
		userID := answer.UserID
		if userID == "" {
			userID = result.UserID
		}
		answeredAt := answer.CreatedAt
		if answeredAt.IsZero() {
			answeredAt = createdAt
		}
		record.Answers = append(record.Answers, answerRecord{
			GameID:         result.ID,
			QuestionID:     answer.QuestionID,
			UserID:         userID,
			SelectedAnswer: answer.SelectedAnswer,
			IsCorrect:      answer.IsCorrect,
			Position:       idx,
			CreatedAt:      answeredAt.UTC(),
		})
	}
	return record
}

func (r gameRecord) toResult() quiz.GameResult {
	result := quiz.GameResult{
		ID:             r.ID,
		UserID:         r.UserID,
		Category:       r.Category,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Accuracy:       r.Accuracy,
		TimeTaken:      r.TimeTaken,
		CreatedAt:      r.CreatedAt.UTC(),
		Answers:        make([]quiz.QuizAnswer, 0, len(r.Answers)),
	}
	for _, answer := range r.Answers {
		result.Answers = append(result.Answers, quiz.QuizAnswer{
			QuestionID:     answer.QuestionID,
			UserID:         answer.UserID,
			SelectedAnswer: answer.SelectedAnswer,
			IsCorrect:      answer.IsCorrect,
			CreatedAt:      answer.CreatedAt.UTC(),
		})
	}
	return result
}

func (r gameRecord) toLeaderboardEntry() quiz.LeaderboardEntry {
	return quiz.LeaderboardEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Category:  r.Category,
		Score:     r.Score,
		Accuracy:  r.Accuracy,
		TimeTaken: r.TimeTaken,
		CreatedAt: r.CreatedAt.UTC(),
	}
}
