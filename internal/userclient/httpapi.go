package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trivia-quiz/internal/quiz"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 5 * time.Second
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Unwrap maps well-known statuses back to the quiz sentinel errors so
// callers can use errors.Is the same way against a local or remote engine.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return quiz.ErrGameNotFound
	case http.StatusUnprocessableEntity:
		return quiz.ErrNoQuestions
	case http.StatusConflict:
		return quiz.ErrNotCurrentQuestion
	default:
		return nil
	}
}

// Credentials identify the player to the service. Token wins when both are set.
type Credentials struct {
	Token  string
	UserID string
}

// HTTPClient plays games against a remote quiz-service.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	credentials Credentials
}

type startGameRequest struct {
	Category string `json:"category"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type leaderboardResponse struct {
	Category    string                  `json:"category"`
	Leaderboard []quiz.LeaderboardEntry `json:"leaderboard"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client, credentials Credentials) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &HTTPClient{
		baseURL:     baseURL,
		httpClient:  httpClient,
		credentials: credentials,
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// StartGame ignores userID; the server derives the player from the
// credentials.
func (c *HTTPClient) StartGame(ctx context.Context, _ string, category string) (quiz.GameSnapshot, error) {
	var snapshot quiz.GameSnapshot
	err := c.doJSON(ctx, http.MethodPost, "/games", startGameRequest{Category: category}, &snapshot)
	return snapshot, err
}

func (c *HTTPClient) Snapshot(ctx context.Context, gameID, _ string) (quiz.GameSnapshot, error) {
	var snapshot quiz.GameSnapshot
	err := c.doJSON(ctx, http.MethodGet, gamePath(gameID, ""), nil, &snapshot)
	return snapshot, err
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, gameID, _ string, questionID, selected string) (quiz.AnswerOutcome, error) {
	var outcome quiz.AnswerOutcome
	err := c.doJSON(ctx, http.MethodPost, gamePath(gameID, "/answers"), answerRequest{
		QuestionID: questionID,
		Answer:     selected,
	}, &outcome)
	return outcome, err
}

func (c *HTTPClient) Finish(ctx context.Context, gameID, _ string) (quiz.GameResult, error) {
	var result quiz.GameResult
	err := c.doJSON(ctx, http.MethodPost, gamePath(gameID, "/finish"), nil, &result)
	return result, err
}

func (c *HTTPClient) Reset(ctx context.Context, gameID, _ string) error {
	return c.doJSON(ctx, http.MethodDelete, gamePath(gameID, ""), nil, nil)
}

func (c *HTTPClient) Leaderboard(ctx context.Context, category string, limit int) ([]quiz.LeaderboardEntry, error) {
	query := url.Values{}
	if strings.TrimSpace(category) != "" {
		query.Set("category", category)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/leaderboard"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload leaderboardResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Leaderboard, nil
}

func gamePath(gameID, suffix string) string {
	return "/games/" + url.PathEscape(strings.TrimSpace(gameID)) + suffix
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	switch {
	case strings.TrimSpace(c.credentials.Token) != "":
		request.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.credentials.Token))
	case strings.TrimSpace(c.credentials.UserID) != "":
		request.Header.Set("X-User-ID", strings.TrimSpace(c.credentials.UserID))
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
