package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTotalTime      = 90 * time.Second
	defaultPersistTimeout = 5 * time.Second
	// DefaultRetention is how long a finalized game stays in memory before
	// only its saved copy remains.
	DefaultRetention = 10 * time.Minute
)

type Options struct {
	Quota          Quota
	TotalTime      time.Duration
	PersistTimeout time.Duration
	Retention      time.Duration
	Logger         *slog.Logger
	Now            func() time.Time
	Rand           *rand.Rand
	NewID          func() string
}

// QuestionView is a question as shown to a player: options in display order
// and no correct answer.
type QuestionView struct {
	ID         string     `json:"id"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Text       string     `json:"text"`
	Options    []string   `json:"options"`
}

type GameSnapshot struct {
	GameID           string        `json:"game_id"`
	UserID           string        `json:"user_id"`
	Category         string        `json:"category"`
	State            string        `json:"state"`
	CurrentIndex     int           `json:"current_index"`
	QuestionCount    int           `json:"question_count"`
	AnsweredCount    int           `json:"answered_count"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Current          *QuestionView `json:"current,omitempty"`
	Result           *GameResult   `json:"result,omitempty"`
}

type AnswerOutcome struct {
	QuestionID    string      `json:"question_id"`
	Recorded      bool        `json:"recorded"`
	IsCorrect     bool        `json:"is_correct"`
	CorrectAnswer string      `json:"correct_answer"`
	Explanation   string      `json:"explanation,omitempty"`
	Finished      bool        `json:"finished"`
	Result        *GameResult `json:"result,omitempty"`
}

// Service drives sessions for players: it loads and assembles questions,
// runs the countdown, finalizes once and hands results to the sink.
type Service struct {
	questions   QuestionSource
	results     ResultSink
	leaderboard LeaderboardReader

	quota          Quota
	totalTime      time.Duration
	persistTimeout time.Duration
	retention      time.Duration
	logger         *slog.Logger
	now            func() time.Time
	newID          func() string

	rngMu sync.Mutex
	rng   *rand.Rand

	mu    sync.Mutex
	games map[string]*game
}

type game struct {
	id     string
	userID string

	mu       sync.Mutex
	session  *Session
	options  map[string][]string
	timer    *time.Timer
	finished bool
	result   GameResult
}

func NewService(questions QuestionSource, results ResultSink, leaderboard LeaderboardReader, opts Options) *Service {
	if opts.Quota == (Quota{}) {
		opts.Quota = DefaultQuota
	}
	if opts.TotalTime <= 0 {
		opts.TotalTime = DefaultTotalTime
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = defaultPersistTimeout
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = NewRand()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Service{
		questions:      questions,
		results:        results,
		leaderboard:    leaderboard,
		quota:          opts.Quota,
		totalTime:      opts.TotalTime,
		persistTimeout: opts.PersistTimeout,
		retention:      opts.Retention,
		logger:         opts.Logger,
		now:            opts.Now,
		newID:          opts.NewID,
		rng:            opts.Rand,
		games:          make(map[string]*game),
	}
}

func (s *Service) TotalTime() time.Duration {
	return s.totalTime
}

func (s *Service) StartGame(ctx context.Context, userID, category string) (GameSnapshot, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return GameSnapshot{}, ErrInvalidUser
	}
	if s.questions == nil {
		return GameSnapshot{}, fmt.Errorf("question source is not configured")
	}
	category = NormalizeCategory(category)

	pool, err := s.questions.ListQuestions(ctx, category)
	if err != nil {
		return GameSnapshot{}, fmt.Errorf("list questions: %w", err)
	}

	s.rngMu.Lock()
	selected, err := AssembleQuestions(pool, s.quota, s.rng)
	var options map[string][]string
	if err == nil {
		options = make(map[string][]string, len(selected))
		for _, question := range selected {
			options[question.ID] = ShuffleOptions(question, s.rng)
		}
	}
	s.rngMu.Unlock()
	if err != nil {
		s.logger.Warn("no questions for game", "user_id", userID, "category", category, "pool_size", len(pool))
		return GameSnapshot{}, err
	}

	session := NewSession(s.now)
	if err := session.Start(selected, userID, category); err != nil {
		return GameSnapshot{}, err
	}

	g := &game{
		id:      s.newID(),
		userID:  userID,
		session: session,
		options: options,
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	s.mu.Lock()
	s.games[g.id] = g
	s.mu.Unlock()

	g.timer = time.AfterFunc(s.totalTime, func() { s.expire(g) })

	s.logger.Info("game started",
		"game_id", g.id,
		"user_id", userID,
		"category", category,
		"questions", len(selected),
	)
	return s.snapshotLocked(g), nil
}

func (s *Service) SubmitAnswer(ctx context.Context, gameID, userID, questionID, selected string) (AnswerOutcome, error) {
	g, err := s.lookup(gameID, userID)
	if err != nil {
		return AnswerOutcome{}, err
	}

	g.mu.Lock()
	question, ok := g.session.Question(questionID)
	if !ok {
		g.mu.Unlock()
		return AnswerOutcome{}, ErrUnknownQuestion
	}

	outcome := AnswerOutcome{
		QuestionID:    questionID,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Description,
	}

	if existing, ok := g.session.AnswerFor(questionID); ok || g.session.State() != StateActive {
		outcome.IsCorrect = existing.IsCorrect
		if g.finished {
			result := g.result
			outcome.Finished = true
			outcome.Result = &result
		}
		g.mu.Unlock()
		return outcome, nil
	}

	current, _ := g.session.CurrentQuestion()
	if current.ID != questionID {
		g.mu.Unlock()
		return AnswerOutcome{}, ErrNotCurrentQuestion
	}

	outcome.IsCorrect = question.IsCorrect(selected)
	outcome.Recorded = g.session.Answer(QuizAnswer{
		QuestionID:     questionID,
		UserID:         g.userID,
		SelectedAnswer: selected,
		IsCorrect:      outcome.IsCorrect,
	})

	if !g.session.IsLastQuestion() {
		g.session.Next()
		g.mu.Unlock()
		return outcome, nil
	}

	result, first := s.finishLocked(g)
	g.mu.Unlock()
	if first {
		s.persist(result)
	}

	outcome.Finished = true
	outcome.Result = &result
	return outcome, nil
}

// Finish finalizes the game. Repeated or racing calls get the first result,
// read back from the store once the game has been evicted.
func (s *Service) Finish(ctx context.Context, gameID, userID string) (GameResult, error) {
	g, err := s.lookup(gameID, userID)
	if errors.Is(err, ErrGameNotFound) {
		return s.SavedResult(ctx, gameID, userID)
	}
	if err != nil {
		return GameResult{}, err
	}
	result, ok := s.finish(g)
	if !ok {
		return GameResult{}, ErrGameNotFound
	}
	return result, nil
}

func (s *Service) Snapshot(gameID, userID string) (GameSnapshot, error) {
	g, err := s.lookup(gameID, userID)
	if errors.Is(err, ErrGameNotFound) {
		return s.savedSnapshot(gameID, userID)
	}
	if err != nil {
		return GameSnapshot{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return s.snapshotLocked(g), nil
}

// Reset discards the game and its countdown.
func (s *Service) Reset(gameID, userID string) error {
	g, err := s.lookup(gameID, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.games, g.id)
	s.mu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.session.Reset()
	return nil
}

func (s *Service) Leaderboard(ctx context.Context, category string, limit int) ([]LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return nil, fmt.Errorf("leaderboard is not configured")
	}
	return s.leaderboard.Leaderboard(ctx, NormalizeCategory(category), limit)
}

// SavedResult returns a persisted game owned by userID. It needs a result
// sink that can also read games back.
func (s *Service) SavedResult(ctx context.Context, gameID, userID string) (GameResult, error) {
	reader, ok := s.results.(GameReader)
	if !ok {
		return GameResult{}, ErrGameNotFound
	}
	result, err := reader.GetGame(ctx, strings.TrimSpace(gameID))
	if err != nil {
		return GameResult{}, err
	}
	if result.UserID != strings.TrimSpace(userID) {
		return GameResult{}, ErrGameNotFound
	}
	return result, nil
}

// Close stops every running countdown.
func (s *Service) Close() {
	s.mu.Lock()
	games := make([]*game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	s.games = make(map[string]*game)
	s.mu.Unlock()

	for _, g := range games {
		g.mu.Lock()
		if g.timer != nil {
			g.timer.Stop()
		}
		g.mu.Unlock()
	}
}

func (s *Service) lookup(gameID, userID string) (*game, error) {
	s.mu.Lock()
	g, ok := s.games[strings.TrimSpace(gameID)]
	s.mu.Unlock()
	if !ok || g.userID != strings.TrimSpace(userID) {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// savedSnapshot describes an evicted game from its stored result.
func (s *Service) savedSnapshot(gameID, userID string) (GameSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()

	result, err := s.SavedResult(ctx, gameID, userID)
	if err != nil {
		return GameSnapshot{}, err
	}
	return GameSnapshot{
		GameID:        result.ID,
		UserID:        result.UserID,
		Category:      result.Category,
		State:         StateFinalized.String(),
		AnsweredCount: result.TotalQuestions,
		Result:        &result,
	}, nil
}

// evict drops a finalized game once its retention window has passed.
func (s *Service) evict(g *game) {
	s.mu.Lock()
	if s.games[g.id] == g {
		delete(s.games, g.id)
	}
	s.mu.Unlock()
	s.logger.Debug("game evicted", "game_id", g.id, "user_id", g.userID)
}

func (s *Service) expire(g *game) {
	s.mu.Lock()
	_, live := s.games[g.id]
	s.mu.Unlock()
	if !live {
		return
	}
	if _, ok := s.finish(g); ok {
		s.logger.Info("game timed out", "game_id", g.id, "user_id", g.userID)
	}
}

func (s *Service) finish(g *game) (GameResult, bool) {
	g.mu.Lock()
	if g.session.State() == StateIdle {
		g.mu.Unlock()
		return GameResult{}, false
	}
	result, first := s.finishLocked(g)
	g.mu.Unlock()

	if first {
		s.persist(result)
	}
	return result, true
}

// finishLocked is the one-shot latch. It reports whether this call did the
// finalization.
func (s *Service) finishLocked(g *game) (GameResult, bool) {
	if g.finished {
		return g.result, false
	}

	result, ok := g.session.End(s.remainingSecondsLocked(g))
	if !ok {
		return GameResult{}, false
	}
	result.ID = g.id
	result.CreatedAt = s.now().UTC()

	g.finished = true
	g.result = result
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(s.retention, func() { s.evict(g) })
	return result, true
}

// remainingSecondsLocked derives the countdown from the fixed start time.
func (s *Service) remainingSecondsLocked(g *game) int {
	elapsed := int(math.Round(s.now().Sub(g.session.StartedAt()).Seconds()))
	left := int(s.totalTime/time.Second) - elapsed
	if left < 0 {
		return 0
	}
	return left
}

func (s *Service) persist(result GameResult) {
	if s.results == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()

	if err := s.results.SaveGame(ctx, result); err != nil {
		s.logger.Error("save game result failed", "game_id", result.ID, "user_id", result.UserID, "error", err)
		return
	}
	s.logger.Info("game result saved",
		"game_id", result.ID,
		"user_id", result.UserID,
		"score", result.Score,
		"answered", result.TotalQuestions,
	)
}

func (s *Service) snapshotLocked(g *game) GameSnapshot {
	session := g.session
	snapshot := GameSnapshot{
		GameID:        g.id,
		UserID:        g.userID,
		Category:      session.Category(),
		State:         session.State().String(),
		CurrentIndex:  session.CurrentIndex(),
		QuestionCount: len(session.Questions()),
		AnsweredCount: len(session.Answers()),
	}

	switch session.State() {
	case StateActive:
		snapshot.RemainingSeconds = s.remainingSecondsLocked(g)
		if question, ok := session.CurrentQuestion(); ok {
			snapshot.Current = &QuestionView{
				ID:         question.ID,
				Category:   question.Category,
				Difficulty: question.Difficulty,
				Text:       question.Text,
				Options:    append([]string(nil), g.options[question.ID]...),
			}
		}
	case StateFinalized:
		result := g.result
		snapshot.Result = &result
	}
	return snapshot
}
