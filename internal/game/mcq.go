package game

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

const (
	// MinOptionCount and MaxOptionCount bound how many choices a question carries.
	MinOptionCount = 2
	MaxOptionCount = 4
	// DefaultOptionCount matches the four-button answer grid.
	DefaultOptionCount = 4
)

// difficultyParams is a fixed lookup, not computed.
var difficultyParams = map[domain.Difficulty]struct {
	timeLimit int
	points    int
}{
	domain.DifficultyEasy:   {timeLimit: 90, points: 10},
	domain.DifficultyMedium: {timeLimit: 60, points: 15},
	domain.DifficultyHard:   {timeLimit: 30, points: 25},
}

// TimeLimitFor returns the per-question time budget in seconds.
func TimeLimitFor(d domain.Difficulty) int {
	return difficultyParams[d].timeLimit
}

// PointsFor returns the base point value for a correct answer.
func PointsFor(d domain.Difficulty) int {
	return difficultyParams[d].points
}

var promptTemplates = map[domain.Category]string{
	domain.CategoryNames:   "A name that starts with %q?",
	domain.CategoryPlaces:  "A place that starts with %q?",
	domain.CategoryAnimals: "An animal that starts with %q?",
	domain.CategoryThings:  "A thing that starts with %q?",
}

// Generator builds multiple-choice questions from loaded pools.
type Generator struct {
	pools domain.Pools
	rnd   *Rand
}

func NewGenerator(pools domain.Pools, rnd *Rand) *Generator {
	if rnd == nil {
		rnd = NewRand()
	}
	return &Generator{pools: pools, rnd: rnd}
}

// Pools exposes the loaded pools for filtering helpers.
func (g *Generator) Pools() domain.Pools {
	return g.pools
}

// GenerateMCQ builds one question around the correct item. The option list
// holds the correct answer plus distractors drawn uniformly from the same
// category; when the pool cannot supply enough unique distractors the list is
// shorter than requested, which callers detect via len(Options).
func (g *Generator) GenerateMCQ(correct domain.PoolItem, category domain.Category, difficulty domain.Difficulty, optionCount int) (domain.Question, error) {
	if optionCount < MinOptionCount || optionCount > MaxOptionCount {
		return domain.Question{}, fmt.Errorf("%w: option count %d outside [%d,%d]",
			domain.ErrInvalidQuestionConfig, optionCount, MinOptionCount, MaxOptionCount)
	}
	if correct.Name == "" {
		return domain.Question{}, fmt.Errorf("%w: pool item %q has no name", domain.ErrInvalidQuestionConfig, correct.ID)
	}
	if !difficulty.Valid() {
		return domain.Question{}, fmt.Errorf("%w: difficulty %q", domain.ErrInvalidQuestionConfig, difficulty)
	}
	pool, ok := g.pools[category]
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}

	options := []string{correct.Name}
	seen := map[string]struct{}{correct.Name: {}}
	candidates := make([]string, 0, len(pool))
	for _, item := range pool {
		if _, dup := seen[item.Name]; dup || item.Name == "" {
			continue
		}
		seen[item.Name] = struct{}{}
		candidates = append(candidates, item.Name)
	}
	for _, name := range Shuffled(g.rnd, candidates) {
		if len(options) == optionCount {
			break
		}
		options = append(options, name)
	}
	Shuffle(g.rnd, options)

	question := domain.Question{
		ID:               uuid.NewString(),
		Category:         category,
		Difficulty:       difficulty,
		Prompt:           g.promptFor(correct, category),
		CorrectAnswer:    correct.Name,
		Options:          options,
		Hint:             g.hintFor(correct, category),
		TimeLimitSeconds: TimeLimitFor(difficulty),
		PointValue:       PointsFor(difficulty),
	}
	if category == domain.CategoryMovies {
		question.MovieData = &domain.MovieData{
			Title:  correct.Name,
			Clues:  correct.Clues,
			Reward: correct.Clues["reward"],
		}
	}
	return question, nil
}

func (g *Generator) promptFor(item domain.PoolItem, category domain.Category) string {
	if category == domain.CategoryMovies {
		return moviePrompt(item)
	}
	tmpl, ok := promptTemplates[category]
	if !ok {
		tmpl = "Which of these starts with %q?"
	}
	initial := ""
	if item.Name != "" {
		r, _ := utf8.DecodeRuneInString(item.Name)
		initial = strings.ToUpper(string(r))
	}
	return fmt.Sprintf(tmpl, initial)
}

// moviePrompt embeds every clue pair, in stable order so generated questions
// are comparable across runs.
func moviePrompt(item domain.PoolItem) string {
	if len(item.Clues) == 0 {
		return "Which movie is this?"
	}
	keys := make([]string, 0, len(item.Clues))
	for k := range item.Clues {
		if k == "reward" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("Which movie matches these clues?")
	for _, k := range keys {
		fmt.Fprintf(&b, " %s: %s.", k, item.Clues[k])
	}
	return b.String()
}

func (g *Generator) hintFor(item domain.PoolItem, category domain.Category) string {
	if hint, ok := item.Clues["hint"]; ok {
		return hint
	}
	if category == domain.CategoryMovies {
		return ""
	}
	return fmt.Sprintf("It has %d letters", len([]rune(item.Name)))
}
