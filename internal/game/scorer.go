package game

import (
	"fmt"
	"math"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// ScoringRules holds the tunable scoring thresholds. The defaults reproduce
// the shipped game balance; they are fields rather than literals so tuning
// runs can vary them without touching the scorer.
type ScoringRules struct {
	// TimeBonusCutoff is the fraction of the time limit within which a
	// correct answer still earns a time bonus. The boundary is exclusive:
	// answering at exactly cutoff*limit earns nothing.
	TimeBonusCutoff float64
	// TimeBonusScale multiplies the remaining-time fraction.
	TimeBonusScale float64
	// StreakBonusThreshold is the minimum streak length that pays a bonus.
	StreakBonusThreshold int
	// StreakBonusPerStep is multiplied by the current streak.
	StreakBonusPerStep int
}

// DefaultScoringRules returns the shipped balance.
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		TimeBonusCutoff:      0.5,
		TimeBonusScale:       10,
		StreakBonusThreshold: 3,
		StreakBonusPerStep:   2,
	}
}

// CalculateScore scores a finished game with the default rules.
func CalculateScore(answers []domain.AnswerRecord, questions []domain.Question, difficulty domain.Difficulty) (domain.ScoreResult, error) {
	return DefaultScoringRules().CalculateScore(answers, questions, difficulty)
}

// CalculateScore processes answers in index order; order matters because the
// streak carries across questions and resets on any incorrect answer. Pure
// function: identical inputs always produce identical output.
func (r ScoringRules) CalculateScore(answers []domain.AnswerRecord, questions []domain.Question, difficulty domain.Difficulty) (domain.ScoreResult, error) {
	if len(answers) != len(questions) {
		return domain.ScoreResult{}, fmt.Errorf("%w: %d answers, %d questions",
			domain.ErrAnswerCountMismatch, len(answers), len(questions))
	}

	result := domain.ScoreResult{
		TotalQuestions: len(questions),
		Breakdown:      make([]domain.QuestionScore, 0, len(questions)),
	}
	streak := 0
	for i, answer := range answers {
		question := questions[i]
		score := domain.QuestionScore{}
		if answer.SubmittedAnswer == question.CorrectAnswer {
			streak++
			if streak > result.MaxStreak {
				result.MaxStreak = streak
			}
			result.CorrectCount++

			score.IsCorrect = true
			score.BasePoints = PointsFor(difficulty)
			score.TimeBonus = r.timeBonus(question.TimeLimitSeconds, answer.TimeSpentSeconds)
			if streak >= r.StreakBonusThreshold {
				score.StreakBonus = streak * r.StreakBonusPerStep
			}
			score.TotalPoints = score.BasePoints + score.TimeBonus + score.StreakBonus
			result.TotalScore += score.TotalPoints
		} else {
			streak = 0
		}
		result.Breakdown = append(result.Breakdown, score)
	}

	if result.TotalQuestions > 0 {
		result.AccuracyPercent = int(math.Round(float64(result.CorrectCount) / float64(result.TotalQuestions) * 100))
	}
	return result, nil
}

func (r ScoringRules) timeBonus(limitSeconds int, spentSeconds float64) int {
	limit := float64(limitSeconds)
	if limit <= 0 || spentSeconds >= limit*r.TimeBonusCutoff {
		return 0
	}
	return int(math.Floor((limit - spentSeconds) / limit * r.TimeBonusScale))
}

// ValidateAnswer is the exact-match check used by the worker boundary.
// Matching is case-sensitive; callers normalize beforehand if they want
// looser comparison.
func ValidateAnswer(submitted, correct string) bool {
	return submitted == correct
}
