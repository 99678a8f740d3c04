package game

import (
	"fmt"
	"log"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// BatchRequest describes one game session's worth of questions.
type BatchRequest struct {
	Mode        domain.GameMode    `json:"gameMode"`
	Difficulty  domain.Difficulty  `json:"difficulty"`
	Count       int                `json:"questionCount"`
	Categories  []domain.Category  `json:"categories,omitempty"`
	ExcludeIDs  []string           `json:"excludeIds,omitempty"`
	OptionCount int                `json:"optionCount,omitempty"`
}

// GenerateBatch assembles a globally shuffled question set for one session.
// A pool with fewer available items than requested yields a shorter batch;
// the shortfall is logged and observable via len(result) vs req.Count.
func (g *Generator) GenerateBatch(req BatchRequest) ([]domain.Question, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: question count %d", domain.ErrInvalidQuestionConfig, req.Count)
	}
	optionCount := req.OptionCount
	if optionCount == 0 {
		optionCount = DefaultOptionCount
	}

	var questions []domain.Question
	switch req.Mode {
	case domain.ModeClassic:
		categories := req.Categories
		if len(categories) == 0 {
			categories = domain.ClassicCategories
		}
		perCategory := req.Count / len(categories)
		if perCategory == 0 {
			perCategory = 1
		}
		for _, category := range categories {
			if len(questions) >= req.Count {
				break
			}
			picked, err := g.drawItems(category, perCategory, req.ExcludeIDs)
			if err != nil {
				return nil, err
			}
			for _, item := range picked {
				q, err := g.GenerateMCQ(item, category, req.Difficulty, optionCount)
				if err != nil {
					return nil, err
				}
				questions = append(questions, q)
			}
		}
	case domain.ModeHollyBolly:
		picked, err := g.drawItems(domain.CategoryMovies, req.Count, req.ExcludeIDs)
		if err != nil {
			return nil, err
		}
		for _, item := range picked {
			q, err := g.GenerateMCQ(item, domain.CategoryMovies, req.Difficulty, optionCount)
			if err != nil {
				return nil, err
			}
			questions = append(questions, q)
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedGameMode, req.Mode)
	}

	if len(questions) < req.Count {
		log.Printf("question pool shortfall: requested %d, generated %d", req.Count, len(questions))
	}
	Shuffle(g.rnd, questions)
	return questions, nil
}

// drawItems samples up to count non-excluded items from one category.
func (g *Generator) drawItems(category domain.Category, count int, excludeIDs []string) ([]domain.PoolItem, error) {
	pool, ok := g.pools[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	available := make([]domain.PoolItem, 0, len(pool))
	for _, item := range pool {
		if _, skip := excluded[item.ID]; skip {
			continue
		}
		available = append(available, item)
	}
	return Sample(g.rnd, available, count), nil
}
