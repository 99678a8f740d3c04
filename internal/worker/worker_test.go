package worker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/AllieBaig/lingoquest/internal/domain"
	"github.com/AllieBaig/lingoquest/internal/game"
)

func testPools() domain.Pools {
	return domain.Pools{
		domain.CategoryAnimals: {
			{ID: "a1", Name: "Lion", Difficulty: domain.DifficultyEasy},
			{ID: "a2", Name: "Tiger", Difficulty: domain.DifficultyEasy},
			{ID: "a3", Name: "Zebra", Difficulty: domain.DifficultyEasy},
			{ID: "a4", Name: "Otter", Difficulty: domain.DifficultyEasy},
		},
		domain.CategoryMovies: {
			{ID: "m1", Name: "Sholay", Difficulty: domain.DifficultyMedium, Clues: map[string]string{"thing": "A water tank"}},
			{ID: "m2", Name: "Lagaan", Difficulty: domain.DifficultyMedium},
			{ID: "m3", Name: "Dangal", Difficulty: domain.DifficultyMedium},
		},
	}
}

func initializedWorker(t *testing.T) *Worker {
	t.Helper()
	w := New(game.NewSeededRand(9))
	if err := w.Initialize(testPools()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return w
}

func dispatch(t *testing.T, w *Worker, reqType, id string, payload any) Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return w.Dispatch(context.Background(), Request{Type: reqType, Payload: raw, ID: id})
}

func TestDispatchGenerateQuestions(t *testing.T) {
	w := initializedWorker(t)

	resp := dispatch(t, w, TypeGenerateQuestions, "req-1", game.BatchRequest{
		Mode:       domain.ModeClassic,
		Difficulty: domain.DifficultyEasy,
		Count:      4,
		Categories: []domain.Category{domain.CategoryAnimals},
	})
	if resp.Type != TypeSuccess || resp.ID != "req-1" {
		t.Fatalf("expected success for req-1, got %+v", resp)
	}
	result, ok := resp.Result.(generateQuestionsResult)
	if !ok {
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	if result.Generated != 4 || len(result.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %+v", result)
	}
}

func TestDispatchUnknownGameModeErrorEnvelope(t *testing.T) {
	w := initializedWorker(t)

	resp := dispatch(t, w, TypeGenerateQuestions, "req-7", map[string]any{
		"gameMode": "unknown", "difficulty": "easy", "questionCount": 5,
	})
	if resp.Type != TypeError {
		t.Fatalf("expected error envelope, got %+v", resp)
	}
	if resp.ID != "req-7" {
		t.Fatalf("error response must carry the request id, got %q", resp.ID)
	}
	if !strings.Contains(resp.Error.Message, "unsupported game mode") {
		t.Fatalf("expected unsupported game mode message, got %q", resp.Error.Message)
	}
}

func TestDispatchBeforeInit(t *testing.T) {
	w := New(game.NewSeededRand(9))
	resp := dispatch(t, w, TypeGenerateQuestions, "req-2", game.BatchRequest{
		Mode: domain.ModeClassic, Difficulty: domain.DifficultyEasy, Count: 2,
	})
	if resp.Type != TypeError || !strings.Contains(resp.Error.Message, "not initialized") {
		t.Fatalf("expected not-initialized error, got %+v", resp)
	}
}

func TestInitReplacesPools(t *testing.T) {
	w := initializedWorker(t)

	// Re-initialization replaces the pools entirely.
	resp := dispatch(t, w, TypeInit, "req-3", initPayload{Pools: domain.Pools{
		domain.CategoryThings: {
			{ID: "t1", Name: "Clock", Difficulty: domain.DifficultyEasy},
			{ID: "t2", Name: "Chair", Difficulty: domain.DifficultyEasy},
		},
	}})
	if resp.Type != TypeSuccess {
		t.Fatalf("init failed: %+v", resp)
	}

	old := dispatch(t, w, TypeGenerateQuestions, "req-4", game.BatchRequest{
		Mode: domain.ModeClassic, Difficulty: domain.DifficultyEasy, Count: 2,
		Categories: []domain.Category{domain.CategoryAnimals},
	})
	if old.Type != TypeError {
		t.Fatalf("old pools should be gone, got %+v", old)
	}
}

func TestInitRejectsInvalidItems(t *testing.T) {
	w := New(game.NewSeededRand(9))
	resp := dispatch(t, w, TypeInit, "req-5", initPayload{Pools: domain.Pools{
		domain.CategoryThings: {{ID: "t1", Name: ""}},
	}})
	if resp.Type != TypeError {
		t.Fatalf("expected validation error, got %+v", resp)
	}
}

func TestDispatchGenerateSingleMCQ(t *testing.T) {
	w := initializedWorker(t)
	resp := dispatch(t, w, TypeGenerateMCQ, "req-6", generateMCQPayload{
		ItemID: "m1", Category: domain.CategoryMovies, Difficulty: domain.DifficultyMedium,
	})
	if resp.Type != TypeSuccess {
		t.Fatalf("expected success, got %+v", resp)
	}
	q := resp.Result.(domain.Question)
	if q.CorrectAnswer != "Sholay" || q.MovieData == nil {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestDispatchUtilityHandlers(t *testing.T) {
	w := initializedWorker(t)

	shuffled := dispatch(t, w, TypeShuffleArray, "u1", map[string]any{"items": []int{1, 2, 3, 4}})
	if shuffled.Type != TypeSuccess || len(shuffled.Result.([]json.RawMessage)) != 4 {
		t.Fatalf("shuffle failed: %+v", shuffled)
	}

	subset := dispatch(t, w, TypeGetRandomSubset, "u2", map[string]any{"items": []string{"a", "b", "c"}, "count": 2})
	if subset.Type != TypeSuccess || len(subset.Result.([]json.RawMessage)) != 2 {
		t.Fatalf("subset failed: %+v", subset)
	}

	validated := dispatch(t, w, TypeValidateAnswer, "u3", validateAnswerPayload{Submitted: "Lion", Correct: "Lion"})
	if validated.Type != TypeSuccess || !validated.Result.(map[string]bool)["isCorrect"] {
		t.Fatalf("validate failed: %+v", validated)
	}

	filtered := dispatch(t, w, TypeFilterQuestions, "u4", filterQuestionsPayload{
		Questions: []domain.Question{
			{Category: domain.CategoryAnimals, Difficulty: domain.DifficultyEasy},
			{Category: domain.CategoryMovies, Difficulty: domain.DifficultyMedium},
		},
		Category: domain.CategoryMovies,
	})
	if filtered.Type != TypeSuccess || len(filtered.Result.([]domain.Question)) != 1 {
		t.Fatalf("filter failed: %+v", filtered)
	}
}

func TestDispatchUnknownTypeAndMalformedPayload(t *testing.T) {
	w := initializedWorker(t)

	unknown := w.Dispatch(context.Background(), Request{Type: "NOT_A_TYPE", ID: "x1"})
	if unknown.Type != TypeError || unknown.ID != "x1" {
		t.Fatalf("expected error for unknown type, got %+v", unknown)
	}

	malformed := w.Dispatch(context.Background(), Request{
		Type: TypeCalculateScore, ID: "x2", Payload: json.RawMessage(`{"answers": "nope"`),
	})
	if malformed.Type != TypeError || malformed.ID != "x2" {
		t.Fatalf("expected error for malformed payload, got %+v", malformed)
	}
}
