package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AllieBaig/lingoquest/internal/domain"
	"github.com/AllieBaig/lingoquest/internal/events"
	"github.com/AllieBaig/lingoquest/internal/game"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// PoolRepository loads question pool content (from cache/backing store).
type PoolRepository interface {
	GetPools(ctx context.Context) (domain.Pools, error)
}

// GameService contains the core game use cases: start a session with a
// freshly generated batch, record answers in order, and score at the end.
type GameService struct {
	sessions  SessionRepository
	pools     PoolRepository
	rnd       *game.Rand
	publisher events.Publisher
}

func NewGameService(sessions SessionRepository, pools PoolRepository, rnd *game.Rand, publisher events.Publisher) *GameService {
	if rnd == nil {
		rnd = game.NewRand()
	}
	return &GameService{sessions: sessions, pools: pools, rnd: rnd, publisher: publisher}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// StartGame generates a question batch and binds it to the session. Starting
// an existing session replaces its batch and clears recorded answers.
func (s *GameService) StartGame(ctx context.Context, sessionID string, req game.BatchRequest) ([]domain.Question, error) {
	pools, err := s.pools.GetPools(ctx)
	if err != nil {
		return nil, err
	}
	gen := game.NewGenerator(pools, s.rnd)
	batch, err := gen.GenerateBatch(req)
	if err != nil {
		return nil, err
	}

	session := s.sessions.GetOrCreate(sessionID)
	session.start(req.Mode, req.Difficulty, batch)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.EventGameStarted, events.GameStartedPayload{
			SessionID:     sessionID,
			Mode:          req.Mode,
			Difficulty:    req.Difficulty,
			QuestionCount: len(batch),
		})
	}
	return batch, nil
}

// SubmitAnswer appends one answer record. Records arrive in question order;
// the index is validated against the batch.
func (s *GameService) SubmitAnswer(_ context.Context, sessionID string, answer domain.AnswerRecord) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.record(answer)
}

// FinishGame scores the session and drops it. A session abandoned mid-game
// is scored over the answered prefix of its batch.
func (s *GameService) FinishGame(ctx context.Context, sessionID string) (domain.ScoreResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ScoreResult{}, domain.ErrSessionNotFound
	}
	mode, difficulty, questions, answers, err := session.finish()
	if err != nil {
		return domain.ScoreResult{}, err
	}

	result, err := game.CalculateScore(answers, questions[:len(answers)], difficulty)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	s.sessions.Delete(sessionID)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.EventGameCompleted, events.GameCompletedPayload{
			SessionID: sessionID,
			Mode:      mode,
			Result:    result,
		})
	}
	return result, nil
}

// Session is the in-memory state of one running game.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time

	mu         sync.Mutex
	mode       domain.GameMode
	difficulty domain.Difficulty
	questions  []domain.Question
	answers    []domain.AnswerRecord
	finished   bool
}

func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:        id,
		createdAt: now(),
		now:       now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Questions returns the bound batch.
func (s *Session) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *Session) start(mode domain.GameMode, difficulty domain.Difficulty, questions []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.difficulty = difficulty
	s.questions = questions
	s.answers = nil
	s.finished = false
}

func (s *Session) record(answer domain.AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return domain.ErrSessionFinished
	}
	if answer.QuestionIndex != len(s.answers) {
		return fmt.Errorf("%w: expected question index %d, got %d",
			domain.ErrAnswerCountMismatch, len(s.answers), answer.QuestionIndex)
	}
	if answer.QuestionIndex >= len(s.questions) {
		return fmt.Errorf("%w: question index %d beyond batch of %d",
			domain.ErrAnswerCountMismatch, answer.QuestionIndex, len(s.questions))
	}
	s.answers = append(s.answers, answer)
	return nil
}

func (s *Session) finish() (domain.GameMode, domain.Difficulty, []domain.Question, []domain.AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return "", "", nil, nil, domain.ErrSessionFinished
	}
	s.finished = true
	return s.mode, s.difficulty, s.questions, s.answers, nil
}
