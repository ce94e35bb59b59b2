package services

import (
	"context"
	"fmt"
	"time"

	"github.com/quizforge/quiz-service/internal/events"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
)

// XP granted per finalized quiz, plus a bonus for strong scores.
const (
	BaseCompletionXP   = 10
	HighScoreBonusXP   = 5
	HighScoreThreshold = 80.0
)

// GamificationResult reports what one finalized quiz earned the user.
type GamificationResult struct {
	XPEarned        int                  `json:"xp_earned"`
	TotalXP         int                  `json:"total_xp"`
	Level           int                  `json:"level"`
	LeveledUp       bool                 `json:"leveled_up"`
	XPToNextLevel   int                  `json:"xp_to_next_level"`
	CurrentStreak   int                  `json:"current_streak"`
	LongestStreak   int                  `json:"longest_streak"`
	NewAchievements []models.Achievement `json:"new_achievements"`
}

// GamificationService maintains the per-user XP ledger, daily streak and
// achievement awards.
type GamificationService interface {
	// RecordCompletion applies all gamification effects of a persisted
	// attempt in one transaction: completion XP, streak update and
	// achievement evaluation. Called exactly once per finalized session.
	RecordCompletion(ctx context.Context, attempt *models.QuizAttempt) (*GamificationResult, error)

	Profile(ctx context.Context, userID string) (*models.UserXP, error)
	Achievements(ctx context.Context, userID string, limit int) ([]*models.UserAchievement, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.UserXP, error)
}

type gamificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	now       func() time.Time
}

func NewGamificationService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger) GamificationService {
	return &gamificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *gamificationService) RecordCompletion(ctx context.Context, attempt *models.QuizAttempt) (*GamificationResult, error) {
	var result GamificationResult

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		xp, err := tx.Gamification().GetXPForUpdate(ctx, attempt.UserID)
		if err != nil {
			return fmt.Errorf("failed to lock xp ledger: %w", err)
		}

		previousLevel := xp.Level

		earned := BaseCompletionXP
		if attempt.Score >= HighScoreThreshold {
			earned += HighScoreBonusXP
		}
		xp.AddXP(earned)
		xp.UpdateStreak(s.now())

		unlocked, bonusXP, err := s.evaluateAchievements(ctx, tx, attempt, xp)
		if err != nil {
			return err
		}
		if bonusXP > 0 {
			xp.AddXP(bonusXP)
		}

		if err := tx.Gamification().SaveXP(ctx, xp); err != nil {
			return fmt.Errorf("failed to save xp ledger: %w", err)
		}

		result = GamificationResult{
			XPEarned:        earned + bonusXP,
			TotalXP:         xp.TotalXP,
			Level:           xp.Level,
			LeveledUp:       xp.Level > previousLevel,
			XPToNextLevel:   xp.XPToNextLevel(),
			CurrentStreak:   xp.CurrentStreak,
			LongestStreak:   xp.LongestStreak,
			NewAchievements: unlocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishResults(ctx, attempt.UserID, &result)
	return &result, nil
}

// evaluateAchievements seeds the built-in catalog, checks every predicate
// against the post-attempt state and awards what is newly earned. The
// unique (user, achievement) constraint makes re-evaluation idempotent.
func (s *gamificationService) evaluateAchievements(ctx context.Context, tx repositories.Repository, attempt *models.QuizAttempt, xp *models.UserXP) ([]models.Achievement, int, error) {
	totalQuizzes, err := tx.Attempt().CountByUser(ctx, attempt.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	averageScore, err := tx.Attempt().AverageScoreByUser(ctx, attempt.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to average attempts: %w", err)
	}

	var unlocked []models.Achievement
	bonusXP := 0

	for _, def := range models.DefaultAchievements() {
		achievement, err := tx.Gamification().GetOrCreateAchievement(ctx, &def)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load achievement %q: %w", def.Name, err)
		}

		if !achievementEarned(achievement, attempt, xp, totalQuizzes, averageScore) {
			continue
		}

		awarded, err := tx.Gamification().Award(ctx, attempt.UserID, achievement.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to award achievement %q: %w", achievement.Name, err)
		}
		if awarded {
			unlocked = append(unlocked, *achievement)
			bonusXP += achievement.XPReward
		}
	}

	return unlocked, bonusXP, nil
}

// achievementEarned checks one achievement predicate. A requirement of
// 100 on an accuracy achievement means a perfect single quiz; lower
// accuracy requirements check the lifetime average.
func achievementEarned(a *models.Achievement, attempt *models.QuizAttempt, xp *models.UserXP, totalQuizzes int64, averageScore float64) bool {
	switch a.Type {
	case models.AchievementStreak:
		return xp.CurrentStreak >= a.Requirement
	case models.AchievementCompletion:
		return totalQuizzes >= int64(a.Requirement)
	case models.AchievementAccuracy:
		if a.Requirement >= 100 {
			return attempt.Score >= 100
		}
		return averageScore >= float64(a.Requirement)
	}
	return false
}

func (s *gamificationService) publishResults(ctx context.Context, userID string, result *GamificationResult) {
	if s.publisher == nil {
		return
	}

	now := s.now()
	for _, achievement := range result.NewAchievements {
		a := achievement
		if err := s.publisher.PublishQuizEvent(ctx, events.NewAchievementUnlockedEvent(userID, &a, now)); err != nil {
			s.logger.Warn("failed to publish achievement event",
				"user_id", userID, "achievement", a.Name, "error", err)
		}
	}
	if result.LeveledUp {
		if err := s.publisher.PublishQuizEvent(ctx, events.NewLevelUpEvent(userID, result.Level, result.TotalXP)); err != nil {
			s.logger.Warn("failed to publish level up event",
				"user_id", userID, "level", result.Level, "error", err)
		}
	}
}

func (s *gamificationService) Profile(ctx context.Context, userID string) (*models.UserXP, error) {
	xp, err := s.repo.Gamification().GetOrCreateXP(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load xp profile: %w", err)
	}
	return xp, nil
}

func (s *gamificationService) Achievements(ctx context.Context, userID string, limit int) ([]*models.UserAchievement, error) {
	return s.repo.Gamification().ListUserAchievements(ctx, userID, limit)
}

func (s *gamificationService) Leaderboard(ctx context.Context, limit int) ([]*models.UserXP, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.repo.Gamification().Leaderboard(ctx, limit)
}
