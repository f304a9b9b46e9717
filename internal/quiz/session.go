package quiz

import (
	"math"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateActive
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFinalized:
		return "finalized"
	default:
		return "idle"
	}
}

// TimeBonusPerSecond is added for every second left when all questions were answered.
const TimeBonusPerSecond = 50

// Session holds the state of one timed quiz attempt.
//
// Invariants:
//   - while active, the current index stays within [0, len(questions)).
//   - answers hold at most one entry per question id; the first one wins.
//   - End moves Active to Finalized once; later calls return the cached result.
//
// Session is not safe for concurrent use. Callers serialize access.
type Session struct {
	now func() time.Time

	state     State
	userID    string
	category  string
	questions []Question
	index     int
	answers   []QuizAnswer
	answered  map[string]struct{}
	startedAt time.Time
	result    *GameResult
}

// NewSession returns an idle session. A nil clock uses time.Now.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{now: now}
}

func (s *Session) Start(questions []Question, userID, category string) error {
	if s.state != StateIdle {
		return ErrSessionActive
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	s.questions = make([]Question, len(questions))
	copy(s.questions, questions)
	s.userID = userID
	s.category = category
	s.index = 0
	s.answers = nil
	s.answered = make(map[string]struct{}, len(questions))
	s.startedAt = s.now()
	s.result = nil
	s.state = StateActive
	return nil
}

// Answer records answer unless its question already has one. It reports
// whether the answer was recorded. IsCorrect is trusted as given.
func (s *Session) Answer(answer QuizAnswer) bool {
	if s.state != StateActive {
		return false
	}
	if _, ok := s.answered[answer.QuestionID]; ok {
		return false
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = s.now()
	}
	s.answered[answer.QuestionID] = struct{}{}
	s.answers = append(s.answers, answer)
	return true
}

// Next advances to the following question. On the last question it does nothing.
func (s *Session) Next() bool {
	if s.state != StateActive || s.index >= len(s.questions)-1 {
		return false
	}
	s.index++
	return true
}

// End finalizes the session and returns its result. The time bonus is only
// granted when every loaded question has an answer. The second return value
// is false when there is no session to finalize.
func (s *Session) End(remainingSeconds int) (GameResult, bool) {
	switch s.state {
	case StateFinalized:
		return *s.result, true
	case StateActive:
	default:
		return GameResult{}, false
	}

	elapsed := s.now().Sub(s.startedAt)
	result := ComputeResult(s.questions, s.answers, remainingSeconds)
	result.UserID = s.userID
	result.Category = s.category
	result.TimeTaken = int(math.Round(elapsed.Seconds()))
	if result.TimeTaken < 0 {
		result.TimeTaken = 0
	}

	s.result = &result
	s.state = StateFinalized
	return result, true
}

// Reset clears everything and returns the session to idle.
func (s *Session) Reset() {
	now := s.now
	*s = Session{now: now}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) Category() string {
	return s.category
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) CurrentIndex() int {
	return s.index
}

func (s *Session) CurrentQuestion() (Question, bool) {
	if s.state == StateIdle || s.index >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.index], true
}

func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *Session) Question(questionID string) (Question, bool) {
	for _, question := range s.questions {
		if question.ID == questionID {
			return question, true
		}
	}
	return Question{}, false
}

func (s *Session) Answers() []QuizAnswer {
	out := make([]QuizAnswer, len(s.answers))
	copy(out, s.answers)
	return out
}

func (s *Session) AnswerFor(questionID string) (QuizAnswer, bool) {
	for _, answer := range s.answers {
		if answer.QuestionID == questionID {
			return answer, true
		}
	}
	return QuizAnswer{}, false
}

func (s *Session) IsLastQuestion() bool {
	return len(s.questions) > 0 && s.index == len(s.questions)-1
}

func (s *Session) AllAnswered() bool {
	return len(s.questions) > 0 && len(s.answers) >= len(s.questions)
}

func (s *Session) Result() (GameResult, bool) {
	if s.result == nil {
		return GameResult{}, false
	}
	return *s.result, true
}
