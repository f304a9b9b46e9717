package opentdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"trivia-quiz/internal/quiz"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(&http.Client{Transport: rt})
}

func TestFetchQuestionsUsesDefaultAmountWhenNonPositive(t *testing.T) {
	var seenAmount string

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seenAmount = r.URL.Query().Get("amount")
		resp := http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"response_code":0,"results":[]}`))),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	questions, err := client.FetchQuestions(context.Background(), Params{})
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
	if seenAmount != "10" {
		t.Fatalf("expected default amount 10, got %q", seenAmount)
	}
}

func TestFetchQuestionsPropagatesNonOKStatus(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		resp := http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Params{Amount: 5}); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestFetchQuestionsJSONDecodeError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		resp := http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte("not-json"))),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Params{Amount: 3}); err == nil {
		t.Fatalf("expected JSON decode error")
	}
}

func TestFetchQuestionsNonZeroResponseCode(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		payload := apiResponse{
			ResponseCode: 1,
			Results: []RawQuestion{
				{QuestionText: "ignored"},
			},
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}

		resp := http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(encoded)),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Params{Amount: 3}); err == nil {
		t.Fatalf("expected error for non-zero response_code")
	}
}

func TestFetchQuestionsSendsFilters(t *testing.T) {
	var seen map[string]string

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		query := r.URL.Query()
		seen = map[string]string{
			"amount":     query.Get("amount"),
			"difficulty": query.Get("difficulty"),
			"category":   query.Get("category"),
			"type":       query.Get("type"),
		}
		resp := http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"response_code":0,"results":[{"type":"multiple","difficulty":"hard","category":"Science","question":"Q?","correct_answer":"A","incorrect_answers":["B","C","D"]}]}`))),
			Header:     make(http.Header),
		}
		return &resp, nil
	}))

	questions, err := client.FetchQuestions(context.Background(), Params{Amount: 500, Difficulty: quiz.DifficultyHard, CategoryID: 17})
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "A" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
	if seen["amount"] != "50" || seen["difficulty"] != "hard" || seen["category"] != "17" || seen["type"] != "multiple" {
		t.Fatalf("unexpected query: %+v", seen)
	}
}

func TestFetchQuestionsRejectsUnknownDifficulty(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("request should not be sent")
		return nil, nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Params{Difficulty: "extreme"}); err == nil {
		t.Fatalf("expected error for unknown difficulty")
	}
}

func TestRawQuestionConvertsToQuizQuestion(t *testing.T) {
	raw := RawQuestion{
		Difficulty:       "Medium",
		QuestionText:     "Who wrote &quot;Hamlet&quot;?",
		CorrectAnswer:    "William Shakespeare",
		IncorrectAnswers: []string{"Christopher Marlowe", "Ben Jonson", "O&#039;Neill"},
	}

	question := raw.Question("Umetnost")
	if question.Text != `Who wrote "Hamlet"?` {
		t.Fatalf("expected unescaped text, got %q", question.Text)
	}
	if question.Difficulty != quiz.DifficultyMedium || question.Category != "Umetnost" {
		t.Fatalf("unexpected question: %+v", question)
	}
	if len(question.Options) != 4 || question.Options[2] != "O'Neill" || question.Options[3] != "William Shakespeare" {
		t.Fatalf("unexpected options: %+v", question.Options)
	}
	if err := question.Validate(); err != nil {
		t.Fatalf("converted question should validate: %v", err)
	}
	if again := raw.Question("Umetnost"); again.ID != question.ID || question.ID == "" {
		t.Fatalf("expected stable non-empty id, got %q and %q", question.ID, again.ID)
	}
	if other := raw.Question("Film"); other.ID == question.ID {
		t.Fatalf("expected ids to differ across categories, both %q", question.ID)
	}
}
