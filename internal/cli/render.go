package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trivia-quiz/internal/quiz"
)

var (
	colorGood  = lipgloss.Color("42")
	colorWarn  = lipgloss.Color("220")
	colorBad   = lipgloss.Color("196")
	colorMuted = lipgloss.Color("244")
	colorTitle = lipgloss.Color("33")
)

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// countdownColor is green with plenty of time, yellow from 30s and red from 10s.
func countdownColor(remaining int) lipgloss.Color {
	switch {
	case remaining <= 10:
		return colorBad
	case remaining <= 30:
		return colorWarn
	default:
		return colorGood
	}
}

func difficultyName(difficulty quiz.Difficulty) string {
	switch difficulty {
	case quiz.DifficultyEasy:
		return "Easy"
	case quiz.DifficultyMedium:
		return "Medium"
	case quiz.DifficultyHard:
		return "Hard"
	default:
		return string(difficulty)
	}
}

func difficultyLabel(difficulty quiz.Difficulty) string {
	if !difficulty.Valid() {
		return string(difficulty)
	}
	return fmt.Sprintf("%s (%d pts)", difficultyName(difficulty), difficulty.Points())
}

func printQuestion(out io.Writer, snapshot quiz.GameSnapshot, noColor bool) {
	question := snapshot.Current
	fmt.Fprintln(out)
	header := fmt.Sprintf("Question %d/%d", snapshot.CurrentIndex+1, snapshot.QuestionCount)
	fmt.Fprintf(out, "%s  %s  %s\n",
		stylize(header, noColor, colorTitle),
		stylize(difficultyLabel(question.Difficulty), noColor, colorMuted),
		stylize(fmt.Sprintf("%ds left", snapshot.RemainingSeconds), noColor, countdownColor(snapshot.RemainingSeconds)),
	)
	fmt.Fprintf(out, "%s\n\n", question.Text)
	for idx, option := range question.Options {
		fmt.Fprintf(out, "  %d. %s\n", idx+1, option)
	}
}

// printResult shows the totals, the points earned per difficulty and the time
// bonus, which is whatever the score holds beyond the per-question points.
func printResult(out io.Writer, result quiz.GameResult, correct map[quiz.Difficulty]int, missed []missedQuestion, noColor bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, stylize("Game over", noColor, colorTitle))
	fmt.Fprintf(out, "Score:    %d\n", result.Score)
	fmt.Fprintf(out, "Answered: %d\n", result.TotalQuestions)

	total := 0
	for _, count := range correct {
		total += count
	}
	fmt.Fprintf(out, "Correct:  %d/%d\n", total, result.TotalQuestions)
	fmt.Fprintf(out, "Accuracy: %.0f%%\n", result.Accuracy)
	fmt.Fprintf(out, "Time:     %ds\n", result.TimeTaken)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Points:")
	earned := 0
	for difficulty, count := range correct {
		earned += count * difficulty.Points()
	}
	for _, difficulty := range []quiz.Difficulty{quiz.DifficultyEasy, quiz.DifficultyMedium, quiz.DifficultyHard} {
		points := correct[difficulty] * difficulty.Points()
		fmt.Fprintf(out, "  %-10s %2d x %d = %d\n", difficultyName(difficulty), correct[difficulty], difficulty.Points(), points)
	}
	if bonus := result.Score - earned; bonus > 0 {
		fmt.Fprintf(out, "  %-10s %2ds x %d = %d\n", "Time bonus", bonus/quiz.TimeBonusPerSecond, quiz.TimeBonusPerSecond, bonus)
	}

	if len(missed) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Review:")
	for _, item := range missed {
		fmt.Fprintf(out, "- %s\n", item.text)
		fmt.Fprintf(out, "  you answered %s, correct was %s\n", item.selected, item.correct)
		if strings.TrimSpace(item.explanation) != "" {
			fmt.Fprintf(out, "  %s\n", stylize(item.explanation, noColor, colorMuted))
		}
	}
}

func printLeaderboard(out io.Writer, category string, entries []quiz.LeaderboardEntry, highlightID string) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Leaderboard (%s):\n", category)
	if len(entries) == 0 {
		fmt.Fprintln(out, "  no games yet")
		return
	}
	for idx, entry := range entries {
		marker := " "
		if entry.ID == highlightID {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %2d. %-20s %6d  %3.0f%%  %3ds\n", marker, idx+1, entry.UserID, entry.Score, entry.Accuracy, entry.TimeTaken)
	}
}
