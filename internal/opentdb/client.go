package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"trivia-quiz/internal/quiz"
)

const (
	defaultBaseURL = "https://opentdb.com/api.php"
	defaultAmount  = 10
	maxAmount      = 50
)

// RawQuestion mirrors the OpenTriviaDB question payload. Text fields arrive
// HTML-escaped.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	QuestionText     string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

type Params struct {
	Amount     int
	Difficulty quiz.Difficulty
	// CategoryID is the OpenTriviaDB numeric category; zero means any.
	CategoryID int
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: defaultBaseURL}
}

func (c *Client) FetchQuestions(ctx context.Context, params Params) ([]RawQuestion, error) {
	amount := params.Amount
	if amount <= 0 {
		amount = defaultAmount
	}
	if amount > maxAmount {
		amount = maxAmount
	}

	query := url.Values{}
	query.Set("amount", strconv.Itoa(amount))
	query.Set("type", "multiple")
	if params.Difficulty != "" {
		if !params.Difficulty.Valid() {
			return nil, fmt.Errorf("unsupported difficulty %q", params.Difficulty)
		}
		query.Set("difficulty", string(params.Difficulty))
	}
	if params.CategoryID > 0 {
		query.Set("category", strconv.Itoa(params.CategoryID))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentdb returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}

	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response_code=%d", payload.ResponseCode)
	}

	return payload.Results, nil
}

// Question converts the payload into a quiz question filed under category.
// Options are the incorrect answers followed by the correct one; display
// order is shuffled per game.
func (r RawQuestion) Question(category string) quiz.Question {
	text := strings.TrimSpace(html.UnescapeString(r.QuestionText))
	options := make([]string, 0, len(r.IncorrectAnswers)+1)
	for _, option := range r.IncorrectAnswers {
		options = append(options, strings.TrimSpace(html.UnescapeString(option)))
	}
	correct := strings.TrimSpace(html.UnescapeString(r.CorrectAnswer))
	options = append(options, correct)

	return quiz.Question{
		ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte(defaultBaseURL+"#"+category+"\x00"+text)).String(),
		Category:      category,
		Difficulty:    quiz.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty))),
		Text:          text,
		Options:       options,
		CorrectAnswer: correct,
		CreatedBy:     "opentdb",
	}
}
