package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trivia-quiz/internal/quiz"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := NewHTTPClient("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	}, Credentials{})

	err := client.doJSON(context.Background(), http.MethodGet, "/health", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "question is not the current question"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client(), Credentials{UserID: "alice"})
	_, err := client.SubmitAnswer(context.Background(), "g1", "alice", "q9", "x")
	if err == nil {
		t.Fatalf("expected API error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("status code = %d, want %d", apiErr.StatusCode, http.StatusConflict)
	}
	if apiErr.Message != "question is not the current question" {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if !errors.Is(err, quiz.ErrNotCurrentQuestion) {
		t.Fatalf("expected errors.Is to match ErrNotCurrentQuestion")
	}
}

func TestStartGameSendsCredentialsAndParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/games" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("X-User-ID"); got != "" {
			t.Errorf("X-User-ID should not be sent with a token, got %q", got)
		}
		var request startGameRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Category != "Sport" {
			t.Errorf("unexpected body: %+v (%v)", request, err)
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(quiz.GameSnapshot{
			GameID:        "g1",
			UserID:        "bob",
			State:         "active",
			QuestionCount: 3,
			Current:       &quiz.QuestionView{ID: "e1", Options: []string{"a", "b"}},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", server.Client(), Credentials{Token: "tok", UserID: "ignored"})
	snapshot, err := client.StartGame(context.Background(), "", "Sport")
	if err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if snapshot.GameID != "g1" || snapshot.Current == nil || snapshot.Current.ID != "e1" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestLeaderboardBuildsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaderboard" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("category") != "Film" || r.URL.Query().Get("limit") != "3" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(leaderboardResponse{
			Category:    "Film",
			Leaderboard: []quiz.LeaderboardEntry{{ID: "g1", UserID: "alice", Score: 900}},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client(), Credentials{})
	entries, err := client.Leaderboard(context.Background(), "Film", 3)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 900 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestResetAcceptsNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/games/g1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client(), Credentials{UserID: "alice"})
	if err := client.Reset(context.Background(), "g1", "alice"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
}
