package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"trivia-quiz/internal/quiz"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// HandleCategories lists the playable categories with their question counts.
// The all-categories entry carries the total.
func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	counts := map[string]int{}
	if a.counts != nil {
		loaded, err := a.counts.CategoryCounts(r.Context())
		if err != nil {
			a.logger.Error("category counts failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load categories"})
			return
		}
		counts = loaded
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	response := categoriesResponse{Categories: make([]categoryResponse, 0, len(quiz.Categories))}
	for _, tag := range quiz.Categories {
		count := counts[tag]
		if tag == quiz.CategoryAll {
			count = total
		}
		response.Categories = append(response.Categories, categoryResponse{Tag: tag, QuestionCount: count})
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	var request startGameRequest
	if err := decodeBody(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	category, ok := quiz.CanonicalCategory(request.Category)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category"})
		return
	}

	snapshot, err := a.service.StartGame(r.Context(), userIDFrom(r.Context()), category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

func (a *API) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.service.Snapshot(chi.URLParam(r, "id"), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (a *API) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var request answerRequest
	if err := decodeBody(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	questionID := strings.TrimSpace(request.QuestionID)
	if questionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question_id is required"})
		return
	}

	outcome, err := a.service.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()), questionID, request.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (a *API) HandleFinishGame(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Finish(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleResetGame(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Reset(chi.URLParam(r, "id"), userIDFrom(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.SavedResult(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	category, ok := quiz.CanonicalCategory(r.URL.Query().Get("category"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown category"})
		return
	}

	limit, err := parseLeaderboardLimit(r, defaultLeaderboardLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	entries, err := a.service.Leaderboard(r.Context(), category, limit)
	if err != nil {
		a.logger.Error("leaderboard failed", "category", category, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{
		Category:    category,
		Leaderboard: entries,
	})
}
