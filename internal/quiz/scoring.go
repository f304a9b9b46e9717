package quiz

// ComputeResult scores answers against the loaded questions. Identity fields
// and elapsed time are left for the caller to fill in.
func ComputeResult(questions []Question, answers []QuizAnswer, remainingSeconds int) GameResult {
	difficultyByID := make(map[string]Difficulty, len(questions))
	for _, question := range questions {
		difficultyByID[question.ID] = question.Difficulty
	}

	score := 0
	correct := 0
	for _, answer := range answers {
		if !answer.IsCorrect {
			continue
		}
		correct++
		if difficulty, ok := difficultyByID[answer.QuestionID]; ok {
			score += difficulty.Points()
		}
	}

	answered := len(answers)
	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(correct) / float64(answered) * 100
	}

	if answered >= len(questions) && remainingSeconds > 0 {
		score += remainingSeconds * TimeBonusPerSecond
	}

	recorded := make([]QuizAnswer, len(answers))
	copy(recorded, answers)

	return GameResult{
		Score:          score,
		TotalQuestions: answered,
		Accuracy:       accuracy,
		Answers:        recorded,
	}
}
