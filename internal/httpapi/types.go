package httpapi

import "trivia-quiz/internal/quiz"

type startGameRequest struct {
	Category string `json:"category"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type categoryResponse struct {
	Tag           string `json:"tag"`
	QuestionCount int    `json:"question_count"`
}

type categoriesResponse struct {
	Categories []categoryResponse `json:"categories"`
}

type leaderboardResponse struct {
	Category    string                  `json:"category"`
	Leaderboard []quiz.LeaderboardEntry `json:"leaderboard"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}
