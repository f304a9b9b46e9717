package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"trivia-quiz/internal/quiz"
)

type scriptedEngine struct {
	questions   []quiz.Question
	remaining   int
	index       int
	answers     []string
	finished    int
	result      quiz.GameResult
	leaderboard []quiz.LeaderboardEntry
}

func (e *scriptedEngine) snapshot() quiz.GameSnapshot {
	snapshot := quiz.GameSnapshot{
		GameID:           "g1",
		UserID:           "alice",
		Category:         "Sport",
		State:            "active",
		CurrentIndex:     e.index,
		QuestionCount:    len(e.questions),
		RemainingSeconds: e.remaining,
	}
	if e.index < len(e.questions) {
		q := e.questions[e.index]
		snapshot.Current = &quiz.QuestionView{ID: q.ID, Difficulty: q.Difficulty, Text: q.Text, Options: q.Options}
	}
	return snapshot
}

func (e *scriptedEngine) StartGame(_ context.Context, userID, category string) (quiz.GameSnapshot, error) {
	return e.snapshot(), nil
}

func (e *scriptedEngine) Snapshot(_ context.Context, gameID, userID string) (quiz.GameSnapshot, error) {
	return e.snapshot(), nil
}

func (e *scriptedEngine) SubmitAnswer(_ context.Context, gameID, userID, questionID, selected string) (quiz.AnswerOutcome, error) {
	q := e.questions[e.index]
	e.answers = append(e.answers, selected)
	e.index++
	outcome := quiz.AnswerOutcome{
		QuestionID:    questionID,
		Recorded:      true,
		IsCorrect:     q.IsCorrect(selected),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Description,
	}
	if e.index == len(e.questions) {
		result := e.result
		outcome.Finished = true
		outcome.Result = &result
	}
	return outcome, nil
}

func (e *scriptedEngine) Finish(_ context.Context, gameID, userID string) (quiz.GameResult, error) {
	e.finished++
	return e.result, nil
}

func (e *scriptedEngine) Leaderboard(_ context.Context, category string, limit int) ([]quiz.LeaderboardEntry, error) {
	return e.leaderboard, nil
}

func twoQuestionEngine(remaining int) *scriptedEngine {
	return &scriptedEngine{
		remaining: remaining,
		questions: []quiz.Question{
			{ID: "q1", Difficulty: quiz.DifficultyEasy, Text: "Prvo pitanje?", Options: []string{"A", "B"}, CorrectAnswer: "B"},
			{ID: "q2", Difficulty: quiz.DifficultyHard, Text: "Drugo pitanje?", Options: []string{"C", "D"}, CorrectAnswer: "D", Description: "D je tačno zbog pravila."},
		},
		result: quiz.GameResult{ID: "g1", UserID: "alice", Category: "Sport", Score: 250, TotalQuestions: 2, Accuracy: 50, TimeTaken: 12},
		leaderboard: []quiz.LeaderboardEntry{
			{ID: "g0", UserID: "bob", Score: 900},
			{ID: "g1", UserID: "alice", Score: 250},
		},
	}
}

func TestRunPlaysGameAndPrintsReview(t *testing.T) {
	engine := twoQuestionEngine(60)
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("x\n2\n1\n"), &out, Config{
		Engine:  engine,
		UserID:  "alice",
		NoColor: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(engine.answers) != 2 || engine.answers[0] != "B" || engine.answers[1] != "C" {
		t.Fatalf("unexpected submitted answers: %+v", engine.answers)
	}
	if engine.finished != 0 {
		t.Fatalf("Finish should not be called when the last answer ends the game")
	}

	text := out.String()
	for _, want := range []string{
		"Question 1/2",
		"Easy (250 pts)",
		"60s left",
		"  2. B",
		"Invalid input. Please enter a number 1-2.",
		"Correct!",
		"Wrong. Correct answer: D",
		"you answered C, correct was D",
		"D je tačno zbog pravila.",
		"Score:    250",
		"Correct:  1/2",
		"Accuracy: 50%",
		"Easy        1 x 250 = 250",
		"Hard        0 x 500 = 0",
		"Leaderboard (Sport):",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "*  2. alice") {
		t.Fatalf("expected own game to be highlighted:\n%s", text)
	}
}

func TestRunFinishesWhenCountdownRunsOut(t *testing.T) {
	engine := twoQuestionEngine(0)
	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	var out bytes.Buffer
	err := Run(context.Background(), reader, &out, Config{
		Engine:           engine,
		UserID:           "alice",
		NoColor:          true,
		LeaderboardLimit: -1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if engine.finished != 1 {
		t.Fatalf("expected Finish once, got %d", engine.finished)
	}
	if len(engine.answers) != 0 {
		t.Fatalf("no answers expected, got %+v", engine.answers)
	}
	if !strings.Contains(out.String(), "Time is up!") || strings.Contains(out.String(), "Leaderboard") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunFinishesWhenInputEnds(t *testing.T) {
	engine := twoQuestionEngine(60)
	var out bytes.Buffer

	if err := Run(context.Background(), strings.NewReader("2\n"), &out, Config{Engine: engine, UserID: "alice", NoColor: true}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if engine.finished != 1 || len(engine.answers) != 1 {
		t.Fatalf("expected one answer and an early finish, got answers=%v finished=%d", engine.answers, engine.finished)
	}
	if strings.Contains(out.String(), "Time is up!") {
		t.Fatalf("ending input is not a timeout:\n%s", out.String())
	}
}

func TestRunRequiresUser(t *testing.T) {
	err := Run(context.Background(), strings.NewReader(""), io.Discard, Config{Engine: twoQuestionEngine(60)})
	if !errors.Is(err, quiz.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestRunWithLocalService(t *testing.T) {
	source := &staticSource{questions: []quiz.Question{{
		ID:            "e1",
		Category:      "Nauka",
		Difficulty:    quiz.DifficultyEasy,
		Text:          "Koliko nogu ima pauk?",
		Options:       []string{"6", "8", "10"},
		CorrectAnswer: "8",
	}}}
	service := quiz.NewService(source, nil, source, quiz.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(service.Close)

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader("1\n2\n3\n"), &out, Config{
		Engine:   Local{Service: service},
		UserID:   "alice",
		Category: "Nauka",
		NoColor:  true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Game over") || !strings.Contains(out.String(), "Answered: 1") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunPrintsTimeBonusBreakdown(t *testing.T) {
	engine := twoQuestionEngine(40)
	engine.result = quiz.GameResult{ID: "g1", UserID: "alice", Category: "Sport", Score: 250 + 500 + 40*quiz.TimeBonusPerSecond, TotalQuestions: 2, Accuracy: 100, TimeTaken: 50}
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("2\n2\n"), &out, Config{
		Engine:           engine,
		UserID:           "alice",
		NoColor:          true,
		LeaderboardLimit: -1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Correct:  2/2",
		"Easy        1 x 250 = 250",
		"Medium      0 x 350 = 0",
		"Hard        1 x 500 = 500",
		"Time bonus 40s x 50 = 2000",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Review:") {
		t.Fatalf("no review expected when every answer was correct:\n%s", text)
	}
}

func TestCountdownColor(t *testing.T) {
	if countdownColor(45) != colorGood || countdownColor(30) != colorWarn || countdownColor(10) != colorBad || countdownColor(0) != colorBad {
		t.Fatalf("unexpected countdown colors")
	}
}

type staticSource struct {
	questions []quiz.Question
}

func (s *staticSource) ListQuestions(_ context.Context, category string) ([]quiz.Question, error) {
	return s.questions, nil
}

func (s *staticSource) Leaderboard(_ context.Context, category string, limit int) ([]quiz.LeaderboardEntry, error) {
	return nil, nil
}
