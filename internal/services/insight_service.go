package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/quizforge/quiz-service/internal/cache"
	"github.com/quizforge/quiz-service/internal/genai"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
)

const InsightsCacheTTL = 30 * time.Minute

// Rule thresholds for the deterministic recommendations.
const (
	weakTopicThreshold = 70.0
	nearLevelUpXP      = 20
)

// StudyRecommendation is one actionable suggestion for the user.
type StudyRecommendation struct {
	Type       string                 `json:"type"` // "improvement", "streak", "level_up"
	Topic      string                 `json:"topic"`
	Message    string                 `json:"message"`
	Difficulty models.DifficultyLevel `json:"difficulty"`
	Priority   string                 `json:"priority"` // "high", "medium"
}

// InsightResult is always a usable product: either generative insights
// or, when the client fails, the rule-based recommendations with the
// Fallback flag set. It is never an error to the caller.
type InsightResult struct {
	Fallback        bool                  `json:"fallback"`
	FallbackReason  string                `json:"fallback_reason,omitempty"`
	Insights        string                `json:"insights,omitempty"`
	Recommendations []StudyRecommendation `json:"recommendations"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// InsightService produces personalized study guidance.
type InsightService interface {
	Recommendations(ctx context.Context, userID string) (*InsightResult, error)
}

type insightService struct {
	repo   repositories.Repository
	client genai.Client
	cache  cache.CacheService
	logger utils.Logger
	now    func() time.Time
}

func NewInsightService(repo repositories.Repository, client genai.Client, cacheService cache.CacheService, logger utils.Logger) InsightService {
	return &insightService{
		repo:   repo,
		client: client,
		cache:  cacheService,
		logger: logger,
		now:    time.Now,
	}
}

func (s *insightService) Recommendations(ctx context.Context, userID string) (*InsightResult, error) {
	key := cache.InsightsKey(userID)

	var cached InsightResult
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("insights cache read failed", "user_id", userID, "error", err)
	}

	xp, err := s.repo.Gamification().GetOrCreateXP(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load xp profile: %w", err)
	}
	summaries, err := s.repo.Attempt().TopicSummaries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic summaries: %w", err)
	}

	result := &InsightResult{
		Recommendations: ruleBasedRecommendations(xp, summaries),
		GeneratedAt:     s.now(),
	}

	insights, genErr := s.generateInsights(ctx, xp, summaries)
	if genErr != nil {
		result.Fallback = true
		result.FallbackReason = genErr.Error()
		s.logger.Warn("generative insights unavailable, serving rule-based fallback",
			"user_id", userID, "error", genErr)
	} else {
		result.Insights = insights
	}

	if err := s.cache.Set(ctx, key, result, InsightsCacheTTL); err != nil {
		s.logger.Warn("insights cache write failed", "user_id", userID, "error", err)
	}
	return result, nil
}

func (s *insightService) generateInsights(ctx context.Context, xp *models.UserXP, summaries []repositories.TopicSummary) (string, error) {
	if s.client == nil {
		return "", genai.ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"A learner is at level %d with %d XP and a %d-day quiz streak. Their per-topic averages: %s. "+
			"Write 2-3 short, encouraging study insights for them. Plain sentences, no markdown.",
		xp.Level, xp.TotalXP, xp.CurrentStreak, formatTopicAverages(summaries))

	return s.client.Complete(ctx,
		"You are a study coach for a quiz platform. You give concise, specific guidance.",
		prompt)
}

func formatTopicAverages(summaries []repositories.TopicSummary) string {
	if len(summaries) == 0 {
		return "no quizzes taken yet"
	}
	averages := topicAverages(summaries)
	out := ""
	for i, ta := range averages {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %.0f%%", ta.topic, ta.average)
	}
	return out
}

type topicAverage struct {
	topic    string
	average  float64
	attempts int
}

// topicAverages collapses per-subtopic summaries into per-topic weighted
// averages, weakest first.
func topicAverages(summaries []repositories.TopicSummary) []topicAverage {
	totals := make(map[string]*topicAverage)
	order := make([]string, 0)
	for _, s := range summaries {
		ta, ok := totals[s.Topic]
		if !ok {
			ta = &topicAverage{topic: s.Topic}
			totals[s.Topic] = ta
			order = append(order, s.Topic)
		}
		ta.average = (ta.average*float64(ta.attempts) + s.AverageScore*float64(s.Attempts)) / float64(ta.attempts+s.Attempts)
		ta.attempts += s.Attempts
	}

	result := make([]topicAverage, 0, len(order))
	for _, topic := range order {
		result = append(result, *totals[topic])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].average < result[j].average
	})
	return result
}

// ruleBasedRecommendations is the deterministic product: weakest-topic
// improvement, streak reminder and near-level-up nudge.
func ruleBasedRecommendations(xp *models.UserXP, summaries []repositories.TopicSummary) []StudyRecommendation {
	recommendations := make([]StudyRecommendation, 0, 3)

	if averages := topicAverages(summaries); len(averages) > 0 {
		weakest := averages[0]
		if weakest.average < weakTopicThreshold {
			recommendations = append(recommendations, StudyRecommendation{
				Type:       "improvement",
				Topic:      weakest.topic,
				Message:    fmt.Sprintf("Focus on %s - practice more to improve from %.1f%%", weakest.topic, weakest.average),
				Difficulty: models.DifficultyEasy,
				Priority:   "high",
			})
		}
	}

	if xp.CurrentStreak > 0 {
		recommendations = append(recommendations, StudyRecommendation{
			Type:       "streak",
			Topic:      "Any",
			Message:    fmt.Sprintf("Keep your %d-day streak alive! Take a quick quiz today.", xp.CurrentStreak),
			Difficulty: models.DifficultyMedium,
			Priority:   "medium",
		})
	}

	if xpToNext := xp.XPToNextLevel(); xpToNext <= nearLevelUpXP {
		recommendations = append(recommendations, StudyRecommendation{
			Type:       "level_up",
			Topic:      "Any",
			Message:    fmt.Sprintf("Only %d XP to level %d! Take a quiz now.", xpToNext, xp.Level+1),
			Difficulty: models.DifficultyMedium,
			Priority:   "high",
		})
	}

	return recommendations
}
