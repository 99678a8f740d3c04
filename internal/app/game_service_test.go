package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AllieBaig/lingoquest/internal/app"
	"github.com/AllieBaig/lingoquest/internal/domain"
	"github.com/AllieBaig/lingoquest/internal/events"
	"github.com/AllieBaig/lingoquest/internal/game"
	"github.com/AllieBaig/lingoquest/internal/infra/memory"
)

func samplePools() domain.Pools {
	return domain.Pools{
		domain.CategoryAnimals: {
			{ID: "a1", Name: "Lion", Difficulty: domain.DifficultyEasy},
			{ID: "a2", Name: "Tiger", Difficulty: domain.DifficultyEasy},
			{ID: "a3", Name: "Zebra", Difficulty: domain.DifficultyEasy},
			{ID: "a4", Name: "Otter", Difficulty: domain.DifficultyEasy},
		},
		domain.CategoryPlaces: {
			{ID: "p1", Name: "Agra", Difficulty: domain.DifficultyEasy},
			{ID: "p2", Name: "Pune", Difficulty: domain.DifficultyEasy},
			{ID: "p3", Name: "Goa", Difficulty: domain.DifficultyEasy},
		},
	}
}

func newTestService(recorder *events.Recorder) *app.GameService {
	sessions := memory.NewSessionStore()
	pools := memory.NewPoolRepository(memory.NewStaticPoolLoader(samplePools()), time.Minute)
	var pub events.Publisher
	if recorder != nil {
		pub = recorder
	}
	return app.NewGameService(sessions, pools, game.NewSeededRand(21), pub)
}

func TestStartGameBindsBatchToSession(t *testing.T) {
	recorder := &events.Recorder{}
	service := newTestService(recorder)

	questions, err := service.StartGame(context.Background(), "s1", game.BatchRequest{
		Mode:       domain.ModeClassic,
		Difficulty: domain.DifficultyEasy,
		Count:      4,
		Categories: []domain.Category{domain.CategoryAnimals, domain.CategoryPlaces},
	})
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(questions))
	}

	types := recorder.TypesSeen()
	if len(types) != 1 || types[0] != events.EventGameStarted {
		t.Fatalf("expected one game.started event, got %v", types)
	}
}

func TestSubmitAnswerEnforcesOrder(t *testing.T) {
	service := newTestService(nil)
	ctx := context.Background()

	if _, err := service.StartGame(ctx, "s1", game.BatchRequest{
		Mode:       domain.ModeClassic,
		Difficulty: domain.DifficultyEasy,
		Count:      2,
		Categories: []domain.Category{domain.CategoryAnimals},
	}); err != nil {
		t.Fatalf("start game: %v", err)
	}

	err := service.SubmitAnswer(ctx, "s1", domain.AnswerRecord{QuestionIndex: 1, SubmittedAnswer: "Lion"})
	if !errors.Is(err, domain.ErrAnswerCountMismatch) {
		t.Fatalf("expected out-of-order rejection, got %v", err)
	}
	if err := service.SubmitAnswer(ctx, "s1", domain.AnswerRecord{QuestionIndex: 0, SubmittedAnswer: "Lion", TimeSpentSeconds: 12}); err != nil {
		t.Fatalf("submit first answer: %v", err)
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	service := newTestService(nil)

	err := service.SubmitAnswer(context.Background(), "missing", domain.AnswerRecord{})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestFinishGameScoresAnsweredPrefix(t *testing.T) {
	recorder := &events.Recorder{}
	service := newTestService(recorder)
	ctx := context.Background()

	questions, err := service.StartGame(ctx, "s1", game.BatchRequest{
		Mode:       domain.ModeClassic,
		Difficulty: domain.DifficultyEasy,
		Count:      3,
		Categories: []domain.Category{domain.CategoryAnimals},
	})
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	// Answer only the first two, then abandon; the third never counts.
	for i := 0; i < 2; i++ {
		if err := service.SubmitAnswer(ctx, "s1", domain.AnswerRecord{
			QuestionIndex:    i,
			SubmittedAnswer:  questions[i].CorrectAnswer,
			TimeSpentSeconds: 80,
		}); err != nil {
			t.Fatalf("submit answer %d: %v", i, err)
		}
	}

	result, err := service.FinishGame(ctx, "s1")
	if err != nil {
		t.Fatalf("finish game: %v", err)
	}
	if result.TotalQuestions != 2 || result.CorrectCount != 2 {
		t.Fatalf("expected 2/2 over answered prefix, got %+v", result)
	}
	if result.AccuracyPercent != 100 {
		t.Fatalf("expected accuracy 100, got %d", result.AccuracyPercent)
	}

	// Session is gone after scoring.
	if _, err := service.FinishGame(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session to be deleted, got %v", err)
	}

	types := recorder.TypesSeen()
	if len(types) != 2 || types[1] != events.EventGameCompleted {
		t.Fatalf("expected started+completed events, got %v", types)
	}
}

func TestStartGameReplacesExistingSession(t *testing.T) {
	service := newTestService(nil)
	ctx := context.Background()

	if _, err := service.StartGame(ctx, "s1", game.BatchRequest{
		Mode:       domain.ModeClassic,
		Difficulty: domain.DifficultyEasy,
		Count:      2,
		Categories: []domain.Category{domain.CategoryAnimals},
	}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := service.SubmitAnswer(ctx, "s1", domain.AnswerRecord{QuestionIndex: 0, SubmittedAnswer: "x"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Restarting resets recorded answers: index 0 is valid again.
	if _, err := service.StartGame(ctx, "s1", game.BatchRequest{
		Mode:       domain.ModeClassic,
		Difficulty: domain.DifficultyEasy,
		Count:      2,
		Categories: []domain.Category{domain.CategoryAnimals},
	}); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if err := service.SubmitAnswer(ctx, "s1", domain.AnswerRecord{QuestionIndex: 0, SubmittedAnswer: "x"}); err != nil {
		t.Fatalf("submit after restart: %v", err)
	}
}
