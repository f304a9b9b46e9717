package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"trivia-quiz/internal/quiz"
)

const maxBodyBytes = 1 << 16

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrGameNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
	case errors.Is(err, quiz.ErrUnknownQuestion):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question is not part of this game"})
	case errors.Is(err, quiz.ErrNoQuestions):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "no questions available for this category"})
	case errors.Is(err, quiz.ErrNotCurrentQuestion):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "question is not the current question"})
	case errors.Is(err, quiz.ErrInvalidUser):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user id is required"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseLeaderboardLimit(r *http.Request, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get("limit"))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	if parsed > maxLeaderboardLimit {
		parsed = maxLeaderboardLimit
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
