package quiz

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func answerFor(q Question, correct bool) QuizAnswer {
	selected := q.CorrectAnswer
	if !correct {
		selected = "wrong 1"
	}
	return QuizAnswer{
		QuestionID:     q.ID,
		UserID:         "user-1",
		SelectedAnswer: selected,
		IsCorrect:      correct,
	}
}

func TestSessionStartRequiresIdleAndQuestions(t *testing.T) {
	session := NewSession(nil)
	if err := session.Start(nil, "user-1", CategoryAll); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("Start(nil) = %v, want ErrNoQuestions", err)
	}
	if session.State() != StateIdle {
		t.Fatalf("expected idle after failed start, got %s", session.State())
	}

	if err := session.Start(makePool(1, 0, 0), "user-1", CategoryAll); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := session.Start(makePool(1, 0, 0), "user-1", CategoryAll); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("second Start = %v, want ErrSessionActive", err)
	}
}

func TestSessionAnswerIsIdempotentPerQuestion(t *testing.T) {
	session := NewSession(nil)
	questions := makePool(2, 0, 0)
	if err := session.Start(questions, "user-1", CategoryAll); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if !session.Answer(answerFor(questions[0], true)) {
		t.Fatalf("expected first answer to be recorded")
	}
	if session.Answer(answerFor(questions[0], false)) {
		t.Fatalf("expected second answer for same question to be ignored")
	}

	answers := session.Answers()
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(answers))
	}
	if answers[0].SelectedAnswer != questions[0].CorrectAnswer || !answers[0].IsCorrect {
		t.Fatalf("first answer was overwritten: %+v", answers[0])
	}
}

func TestSessionIgnoresCallsWhenIdle(t *testing.T) {
	session := NewSession(nil)
	if session.Answer(answerFor(makeQuestion("q1", DifficultyEasy), true)) {
		t.Fatalf("expected answer on idle session to be ignored")
	}
	if session.Next() {
		t.Fatalf("expected next on idle session to be ignored")
	}
	if _, ok := session.End(10); ok {
		t.Fatalf("expected End on idle session to return no result")
	}
}

func TestSessionNextStopsAtLastQuestion(t *testing.T) {
	session := NewSession(nil)
	questions := makePool(3, 0, 0)
	if err := session.Start(questions, "user-1", CategoryAll); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for idx := 0; idx < 5; idx++ {
		session.Next()
	}
	if got := session.CurrentIndex(); got != len(questions)-1 {
		t.Fatalf("CurrentIndex = %d, want %d", got, len(questions)-1)
	}
	if !session.IsLastQuestion() {
		t.Fatalf("expected to be on the last question")
	}
}

func TestSessionEndScoresWithTimeBonus(t *testing.T) {
	clock := newFakeClock()
	session := NewSession(clock.Now)
	questions := makePool(3, 2, 0)
	if err := session.Start(questions, "user-1", "Nauka"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for _, question := range questions {
		session.Answer(answerFor(question, true))
		session.Next()
	}
	clock.Advance(70*time.Second + 400*time.Millisecond)

	result, ok := session.End(20)
	if !ok {
		t.Fatalf("expected result from active session")
	}
	if result.Score != 2450 {
		t.Fatalf("score = %d, want 2450", result.Score)
	}
	if result.Accuracy != 100 {
		t.Fatalf("accuracy = %v, want 100", result.Accuracy)
	}
	if result.TimeTaken != 70 {
		t.Fatalf("time taken = %d, want 70", result.TimeTaken)
	}
	if result.TotalQuestions != 5 || result.UserID != "user-1" || result.Category != "Nauka" {
		t.Fatalf("unexpected result fields: %+v", result)
	}
}

func TestSessionEndPartialCompletionForfeitsBonus(t *testing.T) {
	session := NewSession(nil)
	questions := makePool(2, 1, 1)
	if err := session.Start(questions, "user-1", CategoryAll); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	session.Answer(answerFor(questions[0], true))
	session.Answer(answerFor(questions[1], false))
	session.Answer(answerFor(questions[2], true))

	result, _ := session.End(40)
	if result.Score != 250+350 {
		t.Fatalf("score = %d, want %d", result.Score, 250+350)
	}
	if result.TotalQuestions != 3 {
		t.Fatalf("total questions = %d, want answered count 3", result.TotalQuestions)
	}
	if result.Accuracy < 66.66 || result.Accuracy > 66.67 {
		t.Fatalf("accuracy = %v, want ~66.67", result.Accuracy)
	}
}

func TestSessionEndWithoutAnswers(t *testing.T) {
	session := NewSession(nil)
	if err := session.Start(makePool(1, 1, 1), "user-1", CategoryAll); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, ok := session.End(0)
	if !ok {
		t.Fatalf("expected a result")
	}
	if result.Accuracy != 0 || result.Score != 0 || result.TotalQuestions != 0 {
		t.Fatalf("unexpected empty result: %+v", result)
	}
}

func TestSessionEndIsOneWay(t *testing.T) {
	clock := newFakeClock()
	session := NewSession(clock.Now)
	questions := makePool(2, 0, 0)
	if err := session.Start(questions, "user-1", CategoryAll); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	session.Answer(answerFor(questions[0], true))
	clock.Advance(10 * time.Second)

	first, _ := session.End(30)
	clock.Advance(15 * time.Second)
	second, _ := session.End(5)

	if session.State() != StateFinalized {
		t.Fatalf("expected finalized state, got %s", session.State())
	}
	if first.TimeTaken != second.TimeTaken || first.Score != second.Score {
		t.Fatalf("repeat End recomputed the result: %+v vs %+v", first, second)
	}
	if session.Answer(answerFor(questions[1], true)) {
		t.Fatalf("expected answers after finalization to be ignored")
	}
}

func TestSessionResetAllowsFreshStart(t *testing.T) {
	session := NewSession(nil)
	questions := makePool(2, 0, 0)
	if err := session.Start(questions, "user-1", CategoryAll); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	session.Answer(answerFor(questions[0], true))
	session.Next()
	session.End(0)

	session.Reset()
	if session.State() != StateIdle || len(session.Answers()) != 0 || session.CurrentIndex() != 0 {
		t.Fatalf("reset left state behind: state=%s answers=%d index=%d", session.State(), len(session.Answers()), session.CurrentIndex())
	}
	if _, ok := session.Result(); ok {
		t.Fatalf("expected no result after reset")
	}

	if err := session.Start(questions, "user-2", "Sport"); err != nil {
		t.Fatalf("Start after reset failed: %v", err)
	}
	if len(session.Answers()) != 0 {
		t.Fatalf("answers leaked into new session: %+v", session.Answers())
	}
	if session.UserID() != "user-2" {
		t.Fatalf("user id = %q, want user-2", session.UserID())
	}
}

func TestComputeResultFullGameExample(t *testing.T) {
	questions := makePool(5, 10, 15)
	answers := make([]QuizAnswer, 0, len(questions))
	hardCorrect := 0
	for _, question := range questions {
		correct := true
		if question.Difficulty == DifficultyHard {
			correct = hardCorrect < 10
			hardCorrect++
		}
		answers = append(answers, answerFor(question, correct))
	}

	result := ComputeResult(questions, answers, 15)
	if result.Score != 10500 {
		t.Fatalf("score = %d, want 10500", result.Score)
	}
	if result.TotalQuestions != 30 {
		t.Fatalf("total questions = %d, want 30", result.TotalQuestions)
	}
	if result.Accuracy < 83.33 || result.Accuracy > 83.34 {
		t.Fatalf("accuracy = %v, want ~83.33", result.Accuracy)
	}
}
