package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizforge/quiz-service/internal/cache"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
)

// Cache lifetimes for the memoized read models. Finalization deletes the
// keys anyway; the TTL only bounds staleness across instances.
const (
	DashboardCacheTTL = 5 * time.Minute
	ProgressCacheTTL  = 5 * time.Minute
)

const recentAttemptsLimit = 5

// ProgressionSuggestion is the dashboard-side nudge derived from the
// user's most active topic.
type ProgressionSuggestion struct {
	Topic          string                 `json:"topic"`
	Action         string                 `json:"action"` // "level_up", "next_topic", "keep_practicing"
	NextDifficulty models.DifficultyLevel `json:"next_difficulty,omitempty"`
	Message        string                 `json:"message"`
}

// DashboardSummary is the aggregated landing view for one user.
type DashboardSummary struct {
	TotalQuizzes       int64                     `json:"total_quizzes"`
	AverageScore       float64                   `json:"average_score"`
	TotalXP            int                       `json:"total_xp"`
	Level              int                       `json:"level"`
	XPToNextLevel      int                       `json:"xp_to_next_level"`
	CurrentStreak      int                       `json:"current_streak"`
	LongestStreak      int                       `json:"longest_streak"`
	RecentAttempts     []*models.QuizAttempt     `json:"recent_attempts"`
	RecentAchievements []*models.UserAchievement `json:"recent_achievements"`
	Suggestion         *ProgressionSuggestion    `json:"suggestion,omitempty"`
}

// ProgressHistory is the per-topic aggregate view plus paged attempts.
type ProgressHistory struct {
	Topics   []repositories.TopicSummary `json:"topics"`
	Attempts []*models.QuizAttempt       `json:"attempts"`
	Total    int64                       `json:"total"`
}

// DashboardService assembles the cached per-user read models.
type DashboardService interface {
	Summary(ctx context.Context, userID string) (*DashboardSummary, error)
	History(ctx context.Context, userID string, filters repositories.AttemptFilters) (*ProgressHistory, error)
}

type dashboardService struct {
	repo         repositories.Repository
	gamification GamificationService
	cache        cache.CacheService
	logger       utils.Logger
}

func NewDashboardService(repo repositories.Repository, gamification GamificationService, cacheService cache.CacheService, logger utils.Logger) DashboardService {
	return &dashboardService{
		repo:         repo,
		gamification: gamification,
		cache:        cacheService,
		logger:       logger,
	}
}

func (s *dashboardService) Summary(ctx context.Context, userID string) (*DashboardSummary, error) {
	key := cache.DashboardKey(userID)

	var cached DashboardSummary
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("dashboard cache read failed", "user_id", userID, "error", err)
	}

	summary, err := s.buildSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, summary, DashboardCacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", "user_id", userID, "error", err)
	}
	return summary, nil
}

func (s *dashboardService) buildSummary(ctx context.Context, userID string) (*DashboardSummary, error) {
	total, err := s.repo.Attempt().CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	average, err := s.repo.Attempt().AverageScoreByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to average attempts: %w", err)
	}
	recent, err := s.repo.Attempt().RecentByUser(ctx, userID, recentAttemptsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent attempts: %w", err)
	}

	xp, err := s.gamification.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.gamification.Achievements(ctx, userID, recentAttemptsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	suggestion, err := s.progressionSuggestion(ctx, userID)
	if err != nil {
		// The suggestion is decoration; the dashboard loads without it.
		s.logger.Warn("progression suggestion failed", "user_id", userID, "error", err)
		suggestion = nil
	}

	return &DashboardSummary{
		TotalQuizzes:       total,
		AverageScore:       average,
		TotalXP:            xp.TotalXP,
		Level:              xp.Level,
		XPToNextLevel:      xp.XPToNextLevel(),
		CurrentStreak:      xp.CurrentStreak,
		LongestStreak:      xp.LongestStreak,
		RecentAttempts:     recent,
		RecentAchievements: achievements,
		Suggestion:         suggestion,
	}, nil
}

// progressionSuggestion looks at the most active topic and suggests the
// next difficulty on its ladder, or moving on when the topic is mastered.
func (s *dashboardService) progressionSuggestion(ctx context.Context, userID string) (*ProgressionSuggestion, error) {
	activity, err := s.repo.Attempt().MostActiveTopic(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	if activity == nil {
		return nil, nil
	}

	stats, err := s.repo.Attempt().TopicDifficultyStats(ctx, userID, activity.Topic)
	if err != nil {
		return nil, err
	}

	next, mastered := NextDifficulty(stats)
	if mastered {
		return &ProgressionSuggestion{
			Topic:   activity.Topic,
			Action:  "next_topic",
			Message: fmt.Sprintf("You have mastered %s. Time to explore a new topic!", activity.Topic),
		}, nil
	}

	current := stats[next]
	if current.Attempts == 0 {
		return &ProgressionSuggestion{
			Topic:          activity.Topic,
			Action:         "level_up",
			NextDifficulty: next,
			Message:        fmt.Sprintf("Try a %s quiz in %s next.", next, activity.Topic),
		}, nil
	}
	return &ProgressionSuggestion{
		Topic:          activity.Topic,
		Action:         "keep_practicing",
		NextDifficulty: next,
		Message:        fmt.Sprintf("Keep practicing %s quizzes in %s to level up.", next, activity.Topic),
	}, nil
}

func (s *dashboardService) History(ctx context.Context, userID string, filters repositories.AttemptFilters) (*ProgressHistory, error) {
	// Only the unfiltered first page is memoized; filtered views go to
	// the database directly.
	cacheable := filters == repositories.AttemptFilters{}
	key := cache.ProgressKey(userID)

	if cacheable {
		var cached ProgressHistory
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("progress cache read failed", "user_id", userID, "error", err)
		}
	}

	topics, err := s.repo.Attempt().TopicSummaries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic summaries: %w", err)
	}
	attempts, total, err := s.repo.Attempt().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	history := &ProgressHistory{
		Topics:   topics,
		Attempts: attempts,
		Total:    total,
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, history, ProgressCacheTTL); err != nil {
			s.logger.Warn("progress cache write failed", "user_id", userID, "error", err)
		}
	}
	return history, nil
}
