package domain

// Difficulty selects the time limit and point value for generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the three known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GameMode selects how a question batch is assembled.
type GameMode string

const (
	// ModeClassic spreads questions evenly across the word categories.
	ModeClassic GameMode = "classic"
	// ModeHollyBolly builds movie-trivia questions from clue data.
	ModeHollyBolly GameMode = "hollybolly"
)

// Category names a question pool.
type Category string

const (
	CategoryNames   Category = "names"
	CategoryPlaces  Category = "places"
	CategoryAnimals Category = "animals"
	CategoryThings  Category = "things"
	CategoryMovies  Category = "movies"
)

// ClassicCategories is the default category spread for classic mode.
var ClassicCategories = []Category{CategoryNames, CategoryPlaces, CategoryAnimals, CategoryThings}

// PoolItem is a candidate answer. Items are immutable once loaded.
type PoolItem struct {
	ID         string            `json:"id" yaml:"id" validate:"required"`
	Name       string            `json:"name" yaml:"name" validate:"required"`
	Difficulty Difficulty        `json:"difficulty" yaml:"difficulty" validate:"required,oneof=easy medium hard"`
	Clues      map[string]string `json:"clues,omitempty" yaml:"clues,omitempty"`
}

// Pools holds the category-keyed candidate collections. Read-only after load.
type Pools map[Category][]PoolItem

// MovieData carries the HollyBolly reward payload attached to movie questions.
type MovieData struct {
	Title  string            `json:"title"`
	Clues  map[string]string `json:"clues,omitempty"`
	Reward string            `json:"reward,omitempty"`
}

// Question is a generated multiple-choice question. Consumed read-only by
// callers; CorrectAnswer appears exactly once in Options.
type Question struct {
	ID               string     `json:"id"`
	Category         Category   `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	Prompt           string     `json:"prompt"`
	CorrectAnswer    string     `json:"correctAnswer"`
	Options          []string   `json:"options"`
	Hint             string     `json:"hint,omitempty"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	PointValue       int        `json:"pointValue"`
	MovieData        *MovieData `json:"movieData,omitempty"`
}

// AnswerRecord is one submitted answer, produced in question order by the UI.
type AnswerRecord struct {
	QuestionIndex    int     `json:"questionIndex"`
	SubmittedAnswer  string  `json:"submittedAnswer"`
	TimeSpentSeconds float64 `json:"timeSpentSeconds"`
}

// QuestionScore is the per-question scoring breakdown.
type QuestionScore struct {
	IsCorrect   bool `json:"isCorrect"`
	BasePoints  int  `json:"basePoints"`
	TimeBonus   int  `json:"timeBonus,omitempty"`
	StreakBonus int  `json:"streakBonus,omitempty"`
	TotalPoints int  `json:"totalPoints"`
}

// ScoreResult aggregates a finished game. Recomputed fresh from the answers
// and question set, never mutated in place.
type ScoreResult struct {
	TotalScore      int             `json:"totalScore"`
	CorrectCount    int             `json:"correctCount"`
	TotalQuestions  int             `json:"totalQuestions"`
	AccuracyPercent int             `json:"accuracyPercent"`
	MaxStreak       int             `json:"maxStreak"`
	Breakdown       []QuestionScore `json:"perQuestionBreakdown"`
}
