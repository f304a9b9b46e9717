package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trivia-quiz/internal/quiz"
)

const defaultLeaderboardLimit = 5

// Engine runs games for the terminal player. *quiz.Service is wrapped by
// Local; userclient.HTTPClient talks to a remote service.
type Engine interface {
	StartGame(ctx context.Context, userID, category string) (quiz.GameSnapshot, error)
	Snapshot(ctx context.Context, gameID, userID string) (quiz.GameSnapshot, error)
	SubmitAnswer(ctx context.Context, gameID, userID, questionID, selected string) (quiz.AnswerOutcome, error)
	Finish(ctx context.Context, gameID, userID string) (quiz.GameResult, error)
	Leaderboard(ctx context.Context, category string, limit int) ([]quiz.LeaderboardEntry, error)
}

type Config struct {
	Engine   Engine
	UserID   string
	Category string
	// LeaderboardLimit rows are printed after the game; negative skips it.
	LeaderboardLimit int
	NoColor          bool
	Now              func() time.Time
}

type missedQuestion struct {
	text        string
	selected    string
	correct     string
	explanation string
}

// Run plays one timed game. The countdown races the player's input; when it
// runs out the game is finished with whatever was answered.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if cfg.Engine == nil {
		return errors.New("quiz engine is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.LeaderboardLimit == 0 {
		cfg.LeaderboardLimit = defaultLeaderboardLimit
	}
	userID := strings.TrimSpace(cfg.UserID)
	if userID == "" {
		return quiz.ErrInvalidUser
	}

	snapshot, err := cfg.Engine.StartGame(ctx, userID, cfg.Category)
	if err != nil {
		if errors.Is(err, quiz.ErrNoQuestions) {
			return fmt.Errorf("no questions available for category %q", quiz.NormalizeCategory(cfg.Category))
		}
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	fmt.Fprintf(out, "Category: %s, %d questions. Answer with the option number.\n", snapshot.Category, snapshot.QuestionCount)

	var (
		missed   []missedQuestion
		correct  = make(map[quiz.Difficulty]int)
		result   *quiz.GameResult
		timedOut bool
	)

	for result == nil {
		if snapshot.State != "active" || snapshot.Current == nil {
			break
		}
		question := *snapshot.Current
		deadline := cfg.Now().Add(time.Duration(snapshot.RemainingSeconds) * time.Second)
		printQuestion(out, snapshot, cfg.NoColor)

		choice, status := awaitChoice(ctx, lines, out, deadline, cfg.Now, len(question.Options))
		if status == inputTimedOut {
			timedOut = true
			break
		}
		if status == inputClosed {
			break
		}

		selected := question.Options[choice]
		outcome, err := cfg.Engine.SubmitAnswer(ctx, snapshot.GameID, userID, question.ID, selected)
		if err != nil {
			if errors.Is(err, quiz.ErrGameNotFound) {
				break
			}
			return err
		}
		if !outcome.Recorded && outcome.Finished {
			// The countdown finalized the game before the answer landed.
			result = outcome.Result
			timedOut = true
			break
		}

		if outcome.IsCorrect {
			correct[question.Difficulty]++
			fmt.Fprintln(out, stylize("Correct!", cfg.NoColor, colorGood))
		} else {
			fmt.Fprintln(out, stylize("Wrong. Correct answer: "+outcome.CorrectAnswer, cfg.NoColor, colorBad))
			missed = append(missed, missedQuestion{
				text:        question.Text,
				selected:    selected,
				correct:     outcome.CorrectAnswer,
				explanation: outcome.Explanation,
			})
		}

		if outcome.Finished && outcome.Result != nil {
			result = outcome.Result
			break
		}

		snapshot, err = cfg.Engine.Snapshot(ctx, snapshot.GameID, userID)
		if err != nil {
			return err
		}
		if snapshot.Result != nil {
			result = snapshot.Result
			timedOut = true
		}
	}

	if timedOut {
		fmt.Fprintln(out)
		fmt.Fprintln(out, stylize("Time is up!", cfg.NoColor, colorBad))
	}
	if result == nil {
		finished, err := cfg.Engine.Finish(ctx, snapshot.GameID, userID)
		if err != nil {
			return err
		}
		result = &finished
	}

	printResult(out, *result, correct, missed, cfg.NoColor)

	if cfg.LeaderboardLimit > 0 {
		entries, err := cfg.Engine.Leaderboard(ctx, result.Category, cfg.LeaderboardLimit)
		if err != nil {
			fmt.Fprintf(out, "\nLeaderboard unavailable: %v\n", err)
			return nil
		}
		printLeaderboard(out, result.Category, entries, result.ID)
	}
	return nil
}

type inputStatus int

const (
	inputAnswered inputStatus = iota
	inputTimedOut
	inputClosed
)

// awaitChoice prompts until a valid option number arrives, the deadline
// passes or input ends.
func awaitChoice(ctx context.Context, lines <-chan string, out io.Writer, deadline time.Time, now func() time.Time, optionCount int) (int, inputStatus) {
	timer := time.NewTimer(max(deadline.Sub(now()), 0))
	defer timer.Stop()

	for {
		fmt.Fprintf(out, "Your answer (1-%d): ", optionCount)
		select {
		case <-ctx.Done():
			return -1, inputClosed
		case <-timer.C:
			return -1, inputTimedOut
		case line, ok := <-lines:
			if !ok {
				return -1, inputClosed
			}
			choice, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil && choice >= 1 && choice <= optionCount {
				return choice - 1, inputAnswered
			}
			fmt.Fprintf(out, "\nInvalid input. Please enter a number 1-%d.\n", optionCount)
		}
	}
}

// readLines feeds input lines to the returned channel until EOF or ctx ends.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
