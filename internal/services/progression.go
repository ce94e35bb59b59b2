package services

import (
	"context"
	"fmt"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
)

// RecommendationAction classifies what the analyzer suggests relative
// to the requested difficulty.
type RecommendationAction string

const (
	ActionProceed   RecommendationAction = "proceed"
	ActionDowngrade RecommendationAction = "downgrade"
	ActionUpgrade   RecommendationAction = "upgrade"
	ActionMastered  RecommendationAction = "mastered"
)

// Recommendation is the advisory outcome of the progression rules. The
// caller decides whether to honor it; nothing here blocks a quiz start.
type Recommendation struct {
	Action     RecommendationAction   `json:"action"`
	Topic      string                 `json:"topic"`
	Requested  models.DifficultyLevel `json:"requested_difficulty"`
	Suggested  models.DifficultyLevel `json:"suggested_difficulty"`
	Reason     string                 `json:"reason"`
	RuleScores map[models.DifficultyLevel]repositories.DifficultyStats `json:"stats,omitempty"`
}

// Readiness thresholds. Attempt counts gate whether a level's average
// is meaningful at all; averages gate advancement.
const (
	minAttemptsForFoundation = 3
	minAttemptsForAdvance    = 5
	minAttemptsForMastery    = 3

	easyAdvanceAverage   = 80.0
	mediumAdvanceAverage = 75.0
	masteryAverage       = 80.0
)

// AnalyzeProgression applies the readiness rules to a user's per-level
// history for one topic. Rules are ordered and the first match wins:
//
//  1. Medium requested without an Easy foundation suggests Easy.
//  2. Hard requested without an Easy or Medium foundation suggests the
//     missing level, Easy before Medium.
//  3. Easy requested with a strong Easy record suggests Medium.
//  4. Medium requested with a strong Medium record suggests Hard.
//  5. Hard requested with a strong Hard record reports topic mastery.
//
// No rule matching means proceed as requested.
func AnalyzeProgression(topic string, requested models.DifficultyLevel, stats map[models.DifficultyLevel]repositories.DifficultyStats) Recommendation {
	easy := stats[models.DifficultyEasy]
	medium := stats[models.DifficultyMedium]
	hard := stats[models.DifficultyHard]

	rec := Recommendation{
		Action:     ActionProceed,
		Topic:      topic,
		Requested:  requested,
		Suggested:  requested,
		RuleScores: stats,
	}

	switch requested {
	case models.DifficultyMedium:
		if easy.Attempts < minAttemptsForFoundation {
			rec.Action = ActionDowngrade
			rec.Suggested = models.DifficultyEasy
			rec.Reason = fmt.Sprintf("complete at least %d Easy quizzes in %s before moving to Medium", minAttemptsForFoundation, topic)
			return rec
		}
		if medium.Attempts >= minAttemptsForAdvance && medium.AverageScore >= mediumAdvanceAverage {
			rec.Action = ActionUpgrade
			rec.Suggested = models.DifficultyHard
			rec.Reason = fmt.Sprintf("averaging %.0f%% on Medium %s quizzes, ready for Hard", medium.AverageScore, topic)
			return rec
		}

	case models.DifficultyHard:
		if easy.Attempts < minAttemptsForFoundation {
			rec.Action = ActionDowngrade
			rec.Suggested = models.DifficultyEasy
			rec.Reason = fmt.Sprintf("build a foundation with %d Easy quizzes in %s before attempting Hard", minAttemptsForFoundation, topic)
			return rec
		}
		if medium.Attempts < minAttemptsForFoundation {
			rec.Action = ActionDowngrade
			rec.Suggested = models.DifficultyMedium
			rec.Reason = fmt.Sprintf("complete at least %d Medium quizzes in %s before attempting Hard", minAttemptsForFoundation, topic)
			return rec
		}
		if hard.Attempts >= minAttemptsForMastery && hard.AverageScore >= masteryAverage {
			rec.Action = ActionMastered
			rec.Reason = fmt.Sprintf("averaging %.0f%% on Hard %s quizzes, topic mastered", hard.AverageScore, topic)
			return rec
		}

	case models.DifficultyEasy:
		if easy.Attempts >= minAttemptsForAdvance && easy.AverageScore >= easyAdvanceAverage {
			rec.Action = ActionUpgrade
			rec.Suggested = models.DifficultyMedium
			rec.Reason = fmt.Sprintf("averaging %.0f%% on Easy %s quizzes, ready for Medium", easy.AverageScore, topic)
			return rec
		}
	}

	return rec
}

// NextDifficulty suggests what a user should try next in a topic given
// only their history, used by the recommendations feed where no explicit
// request exists. It walks the ladder bottom-up and stops at the first
// level whose record is not yet strong.
func NextDifficulty(stats map[models.DifficultyLevel]repositories.DifficultyStats) (models.DifficultyLevel, bool) {
	easy := stats[models.DifficultyEasy]
	medium := stats[models.DifficultyMedium]
	hard := stats[models.DifficultyHard]

	if easy.Attempts < minAttemptsForAdvance || easy.AverageScore < easyAdvanceAverage {
		return models.DifficultyEasy, false
	}
	if medium.Attempts < minAttemptsForAdvance || medium.AverageScore < mediumAdvanceAverage {
		return models.DifficultyMedium, false
	}
	if hard.Attempts < minAttemptsForMastery || hard.AverageScore < masteryAverage {
		return models.DifficultyHard, false
	}
	return models.DifficultyHard, true
}

// ProgressionService answers readiness questions from stored attempt
// history.
type ProgressionService interface {
	Recommend(ctx context.Context, userID, topic string, requested models.DifficultyLevel) (*Recommendation, error)
}

type progressionService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewProgressionService(repo repositories.Repository, logger utils.Logger) ProgressionService {
	return &progressionService{repo: repo, logger: logger}
}

func (s *progressionService) Recommend(ctx context.Context, userID, topic string, requested models.DifficultyLevel) (*Recommendation, error) {
	if !requested.Valid() {
		return nil, ErrValidationFailed
	}

	stats, err := s.repo.Attempt().TopicDifficultyStats(ctx, userID, topic)
	if err != nil {
		s.logger.Error("failed to load topic difficulty stats",
			"user_id", userID, "topic", topic, "error", err)
		return nil, fmt.Errorf("failed to analyze progression: %w", err)
	}

	rec := AnalyzeProgression(topic, requested, stats)
	return &rec, nil
}
