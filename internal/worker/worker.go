package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/AllieBaig/lingoquest/internal/domain"
	"github.com/AllieBaig/lingoquest/internal/game"
)

// HandlerFunc processes one decoded request payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Worker owns the loaded question pools and the request dispatch table.
// It is stateless across calls apart from the pools, which are set by INIT
// and replaced entirely on re-initialization.
type Worker struct {
	mu       sync.RWMutex
	gen      *game.Generator
	rnd      *game.Rand
	handlers map[string]HandlerFunc
}

// New builds a worker with an empty pool set; send an INIT request (or call
// Initialize) before generating questions.
func New(rnd *game.Rand) *Worker {
	if rnd == nil {
		rnd = game.NewRand()
	}
	w := &Worker{rnd: rnd}
	w.handlers = map[string]HandlerFunc{
		TypeInit:              w.handleInit,
		TypeGenerateQuestions: w.handleGenerateQuestions,
		TypeGenerateMCQ:       w.handleGenerateMCQ,
		TypeCalculateScore:    w.handleCalculateScore,
		TypeShuffleArray:      w.handleShuffleArray,
		TypeValidateAnswer:    w.handleValidateAnswer,
		TypeFilterQuestions:   w.handleFilterQuestions,
		TypeGetRandomSubset:   w.handleGetRandomSubset,
	}
	return w
}

// Initialize loads pools directly, for in-process hosts that don't go
// through the message envelope.
func (w *Worker) Initialize(pools domain.Pools) error {
	if err := domain.ValidatePools(pools); err != nil {
		return err
	}
	w.mu.Lock()
	w.gen = game.NewGenerator(pools, w.rnd)
	w.mu.Unlock()
	return nil
}

// Dispatch runs one request and always returns a response envelope carrying
// the request's correlation id. Handler errors and panics become ERROR
// responses; the worker itself never crashes on a bad request.
func (w *Worker) Dispatch(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{
				Type: TypeError,
				ID:   req.ID,
				Error: &ErrorInfo{
					Message: fmt.Sprintf("handler panic: %v", r),
					Stack:   string(debug.Stack()),
				},
			}
		}
	}()

	handler, ok := w.handlers[req.Type]
	if !ok {
		return Response{
			Type:  TypeError,
			ID:    req.ID,
			Error: &ErrorInfo{Message: fmt.Sprintf("%v: %q", domain.ErrUnknownRequestType, req.Type)},
		}
	}
	result, err := handler(ctx, req.Payload)
	if err != nil {
		return Response{Type: TypeError, ID: req.ID, Error: &ErrorInfo{Message: err.Error()}}
	}
	return Response{Type: TypeSuccess, ID: req.ID, Result: result}
}

func (w *Worker) generator() (*game.Generator, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.gen == nil {
		return nil, domain.ErrWorkerNotInitialized
	}
	return w.gen, nil
}

type initPayload struct {
	Pools domain.Pools `json:"pools"`
}

func (w *Worker) handleInit(_ context.Context, payload json.RawMessage) (any, error) {
	var p initPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode init payload: %w", err)
	}
	if err := w.Initialize(p.Pools); err != nil {
		return nil, err
	}
	counts := map[domain.Category]int{}
	for category, items := range p.Pools {
		counts[category] = len(items)
	}
	return map[string]any{"loaded": counts}, nil
}

type generateQuestionsResult struct {
	Questions []domain.Question `json:"questions"`
	Requested int               `json:"requested"`
	Generated int               `json:"generated"`
}

func (w *Worker) handleGenerateQuestions(_ context.Context, payload json.RawMessage) (any, error) {
	gen, err := w.generator()
	if err != nil {
		return nil, err
	}
	var req game.BatchRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode batch request: %w", err)
	}
	questions, err := gen.GenerateBatch(req)
	if err != nil {
		return nil, err
	}
	return generateQuestionsResult{
		Questions: questions,
		Requested: req.Count,
		Generated: len(questions),
	}, nil
}

type generateMCQPayload struct {
	ItemID      string            `json:"itemId"`
	Category    domain.Category   `json:"category"`
	Difficulty  domain.Difficulty `json:"difficulty"`
	OptionCount int               `json:"optionCount"`
}

func (w *Worker) handleGenerateMCQ(_ context.Context, payload json.RawMessage) (any, error) {
	gen, err := w.generator()
	if err != nil {
		return nil, err
	}
	var p generateMCQPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode mcq payload: %w", err)
	}
	if p.OptionCount == 0 {
		p.OptionCount = game.DefaultOptionCount
	}
	item, ok := findItem(gen.Pools(), p.Category, p.ItemID)
	if !ok {
		return nil, fmt.Errorf("%w: item %q in %q", domain.ErrPoolNotFound, p.ItemID, p.Category)
	}
	return gen.GenerateMCQ(item, p.Category, p.Difficulty, p.OptionCount)
}

type calculateScorePayload struct {
	Answers    []domain.AnswerRecord `json:"answers"`
	Questions  []domain.Question     `json:"questions"`
	Difficulty domain.Difficulty     `json:"difficulty"`
}

func (w *Worker) handleCalculateScore(_ context.Context, payload json.RawMessage) (any, error) {
	var p calculateScorePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode score payload: %w", err)
	}
	return game.CalculateScore(p.Answers, p.Questions, p.Difficulty)
}

type arrayPayload struct {
	Items []json.RawMessage `json:"items"`
	Count int               `json:"count,omitempty"`
}

func (w *Worker) handleShuffleArray(_ context.Context, payload json.RawMessage) (any, error) {
	var p arrayPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode shuffle payload: %w", err)
	}
	return game.Shuffled(w.rnd, p.Items), nil
}

func (w *Worker) handleGetRandomSubset(_ context.Context, payload json.RawMessage) (any, error) {
	var p arrayPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode subset payload: %w", err)
	}
	return game.Sample(w.rnd, p.Items, p.Count), nil
}

type validateAnswerPayload struct {
	Submitted string `json:"submitted"`
	Correct   string `json:"correct"`
}

func (w *Worker) handleValidateAnswer(_ context.Context, payload json.RawMessage) (any, error) {
	var p validateAnswerPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode validate payload: %w", err)
	}
	return map[string]bool{"isCorrect": game.ValidateAnswer(p.Submitted, p.Correct)}, nil
}

type filterQuestionsPayload struct {
	Questions  []domain.Question `json:"questions"`
	Category   domain.Category   `json:"category,omitempty"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
}

func (w *Worker) handleFilterQuestions(_ context.Context, payload json.RawMessage) (any, error) {
	var p filterQuestionsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode filter payload: %w", err)
	}
	filtered := make([]domain.Question, 0, len(p.Questions))
	for _, q := range p.Questions {
		if p.Category != "" && q.Category != p.Category {
			continue
		}
		if p.Difficulty != "" && q.Difficulty != p.Difficulty {
			continue
		}
		filtered = append(filtered, q)
	}
	return filtered, nil
}

func findItem(pools domain.Pools, category domain.Category, id string) (domain.PoolItem, bool) {
	for _, item := range pools[category] {
		if item.ID == id {
			return item, true
		}
	}
	return domain.PoolItem{}, false
}
