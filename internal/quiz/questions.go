package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// CategoryAll selects questions from every category.
const CategoryAll = "sve"

// Categories lists the category tags offered to players, CategoryAll first.
var Categories = []string{
	CategoryAll,
	"Istorija",
	"Geografija",
	"Nauka",
	"Sport",
	"Muzika",
	"Film",
	"Umetnost",
	"Tehnologija",
}

var (
	ErrNoQuestions        = errors.New("no questions available")
	ErrSessionActive      = errors.New("session already started")
	ErrGameNotFound       = errors.New("game not found")
	ErrUnknownQuestion    = errors.New("question is not part of this game")
	ErrNotCurrentQuestion = errors.New("question is not the current question")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrInvalidUser        = errors.New("user id is required")
	ErrUnknownCategory    = errors.New("unknown category")
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Points is the score awarded for a correct answer. Unknown difficulties
// score like easy questions.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyMedium:
		return 350
	case DifficultyHard:
		return 500
	default:
		return 250
	}
}

type Question struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Description   string     `json:"description"`
	CreatedBy     string     `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (q Question) IsCorrect(selected string) bool {
	return selected == q.CorrectAnswer
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidQuestion)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q must be easy, medium or hard", ErrInvalidQuestion, q.Difficulty)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: at least two options are required", ErrInvalidQuestion)
	}
	for _, option := range q.Options {
		if option == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer %q is not one of the options", ErrInvalidQuestion, q.CorrectAnswer)
}

type QuizAnswer struct {
	QuestionID     string    `json:"question_id"`
	UserID         string    `json:"user_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	CreatedAt      time.Time `json:"created_at"`
}

// GameResult is the finalized record of one session.
type GameResult struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Category       string       `json:"category"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	Accuracy       float64      `json:"accuracy"`
	TimeTaken      int          `json:"time_taken"`
	Answers        []QuizAnswer `json:"answers"`
	CreatedAt      time.Time    `json:"created_at"`
}

func IsAllCategories(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, CategoryAll)
}

// NormalizeCategory maps the empty category to CategoryAll.
func NormalizeCategory(category string) string {
	if IsAllCategories(category) {
		return CategoryAll
	}
	return strings.TrimSpace(category)
}

// CanonicalCategory returns the listed spelling of category, matched case
// insensitively. The empty category means CategoryAll.
func CanonicalCategory(category string) (string, bool) {
	category = strings.TrimSpace(category)
	if IsAllCategories(category) {
		return CategoryAll, true
	}
	for _, tag := range Categories {
		if strings.EqualFold(tag, category) {
			return tag, true
		}
	}
	return category, false
}
