package services

import (
	"testing"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func stats(easy, medium, hard repositories.DifficultyStats) map[models.DifficultyLevel]repositories.DifficultyStats {
	return map[models.DifficultyLevel]repositories.DifficultyStats{
		models.DifficultyEasy:   easy,
		models.DifficultyMedium: medium,
		models.DifficultyHard:   hard,
	}
}

func TestAnalyzeProgression(t *testing.T) {
	tests := []struct {
		name      string
		requested models.DifficultyLevel
		stats     map[models.DifficultyLevel]repositories.DifficultyStats
		action    RecommendationAction
		suggested models.DifficultyLevel
	}{
		{
			name:      "medium without easy foundation downgrades",
			requested: models.DifficultyMedium,
			stats: stats(
				repositories.DifficultyStats{Attempts: 2, AverageScore: 95},
				repositories.DifficultyStats{},
				repositories.DifficultyStats{},
			),
			action:    ActionDowngrade,
			suggested: models.DifficultyEasy,
		},
		{
			name:      "hard without easy foundation downgrades to easy",
			requested: models.DifficultyHard,
			stats: stats(
				repositories.DifficultyStats{Attempts: 1},
				repositories.DifficultyStats{Attempts: 10, AverageScore: 90},
				repositories.DifficultyStats{},
			),
			action:    ActionDowngrade,
			suggested: models.DifficultyEasy,
		},
		{
			name:      "hard without medium foundation downgrades to medium",
			requested: models.DifficultyHard,
			stats: stats(
				repositories.DifficultyStats{Attempts: 5, AverageScore: 60},
				repositories.DifficultyStats{Attempts: 2, AverageScore: 90},
				repositories.DifficultyStats{},
			),
			action:    ActionDowngrade,
			suggested: models.DifficultyMedium,
		},
		{
			name:      "strong easy record upgrades to medium",
			requested: models.DifficultyEasy,
			stats: stats(
				repositories.DifficultyStats{Attempts: 5, AverageScore: 85},
				repositories.DifficultyStats{},
				repositories.DifficultyStats{},
			),
			action:    ActionUpgrade,
			suggested: models.DifficultyMedium,
		},
		{
			name:      "easy below average threshold proceeds",
			requested: models.DifficultyEasy,
			stats: stats(
				repositories.DifficultyStats{Attempts: 5, AverageScore: 79},
				repositories.DifficultyStats{},
				repositories.DifficultyStats{},
			),
			action:    ActionProceed,
			suggested: models.DifficultyEasy,
		},
		{
			name:      "easy below attempt threshold proceeds",
			requested: models.DifficultyEasy,
			stats: stats(
				repositories.DifficultyStats{Attempts: 4, AverageScore: 100},
				repositories.DifficultyStats{},
				repositories.DifficultyStats{},
			),
			action:    ActionProceed,
			suggested: models.DifficultyEasy,
		},
		{
			name:      "strong medium record upgrades to hard",
			requested: models.DifficultyMedium,
			stats: stats(
				repositories.DifficultyStats{Attempts: 3, AverageScore: 70},
				repositories.DifficultyStats{Attempts: 5, AverageScore: 75},
				repositories.DifficultyStats{},
			),
			action:    ActionUpgrade,
			suggested: models.DifficultyHard,
		},
		{
			name:      "strong hard record reports mastery",
			requested: models.DifficultyHard,
			stats: stats(
				repositories.DifficultyStats{Attempts: 3, AverageScore: 70},
				repositories.DifficultyStats{Attempts: 3, AverageScore: 70},
				repositories.DifficultyStats{Attempts: 3, AverageScore: 90},
			),
			action: ActionMastered,
		},
		{
			name:      "hard with foundations but weak record proceeds",
			requested: models.DifficultyHard,
			stats: stats(
				repositories.DifficultyStats{Attempts: 3, AverageScore: 70},
				repositories.DifficultyStats{Attempts: 3, AverageScore: 70},
				repositories.DifficultyStats{Attempts: 2, AverageScore: 50},
			),
			action:    ActionProceed,
			suggested: models.DifficultyHard,
		},
		{
			name:      "no history for easy proceeds",
			requested: models.DifficultyEasy,
			stats:     stats(repositories.DifficultyStats{}, repositories.DifficultyStats{}, repositories.DifficultyStats{}),
			action:    ActionProceed,
			suggested: models.DifficultyEasy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := AnalyzeProgression("Python", tt.requested, tt.stats)
			assert.Equal(t, tt.action, rec.Action)
			assert.Equal(t, tt.requested, rec.Requested)
			if tt.suggested != "" {
				assert.Equal(t, tt.suggested, rec.Suggested)
			}
			if tt.action != ActionProceed {
				assert.NotEmpty(t, rec.Reason)
			}
		})
	}
}

func TestAnalyzeProgression_FoundationBeatsUpgrade(t *testing.T) {
	// Rule order: the missing Easy foundation wins even when the Medium
	// record would justify an upgrade.
	rec := AnalyzeProgression("Go", models.DifficultyMedium, stats(
		repositories.DifficultyStats{Attempts: 2, AverageScore: 100},
		repositories.DifficultyStats{Attempts: 10, AverageScore: 95},
		repositories.DifficultyStats{},
	))
	assert.Equal(t, ActionDowngrade, rec.Action)
	assert.Equal(t, models.DifficultyEasy, rec.Suggested)
}

func TestNextDifficulty(t *testing.T) {
	next, mastered := NextDifficulty(stats(
		repositories.DifficultyStats{Attempts: 1, AverageScore: 50},
		repositories.DifficultyStats{},
		repositories.DifficultyStats{},
	))
	assert.Equal(t, models.DifficultyEasy, next)
	assert.False(t, mastered)

	next, mastered = NextDifficulty(stats(
		repositories.DifficultyStats{Attempts: 5, AverageScore: 85},
		repositories.DifficultyStats{Attempts: 1, AverageScore: 40},
		repositories.DifficultyStats{},
	))
	assert.Equal(t, models.DifficultyMedium, next)
	assert.False(t, mastered)

	next, mastered = NextDifficulty(stats(
		repositories.DifficultyStats{Attempts: 5, AverageScore: 85},
		repositories.DifficultyStats{Attempts: 5, AverageScore: 80},
		repositories.DifficultyStats{Attempts: 3, AverageScore: 90},
	))
	assert.Equal(t, models.DifficultyHard, next)
	assert.True(t, mastered)
}
