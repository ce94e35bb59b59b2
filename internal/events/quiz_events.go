package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/quizforge/quiz-service/internal/models"
)

// EventType represents different types of quiz platform events
type EventType string

const (
	// Quiz lifecycle events
	EventQuizStarted   EventType = "quiz.started"
	EventQuizCompleted EventType = "quiz.completed"
	EventQuizAbandoned EventType = "quiz.abandoned"

	// Gamification events
	EventAchievementUnlocked EventType = "achievement.unlocked"
	EventLevelUp             EventType = "level.up"

	// Catalog events
	EventTopicRequested EventType = "topic.requested"
)

// QuizEvent is the base event structure for all published events
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Quiz lifecycle event payloads

type QuizStartedEvent struct {
	UserID        string `json:"user_id"`
	Topic         string `json:"topic"`
	Subtopic      string `json:"subtopic"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

type QuizCompletedEvent struct {
	UserID           string    `json:"user_id"`
	AttemptID        uint      `json:"attempt_id"`
	Topic            string    `json:"topic"`
	Subtopic         string    `json:"subtopic"`
	Difficulty       string    `json:"difficulty"`
	Score            float64   `json:"score"`
	CorrectAnswers   int       `json:"correct_answers"`
	TotalQuestions   int       `json:"total_questions"`
	TimeTakenMinutes float64   `json:"time_taken_minutes"`
	XPEarned         int       `json:"xp_earned"`
	CompletedAt      time.Time `json:"completed_at"`
}

type QuizAbandonedEvent struct {
	UserID            string `json:"user_id"`
	Topic             string `json:"topic"`
	QuestionsAnswered int    `json:"questions_answered"`
	TotalQuestions    int    `json:"total_questions"`
}

// Gamification event payloads

type AchievementUnlockedEvent struct {
	UserID          string                 `json:"user_id"`
	AchievementID   uint                   `json:"achievement_id"`
	AchievementName string                 `json:"achievement_name"`
	Type            models.AchievementType `json:"achievement_type"`
	XPReward        int                    `json:"xp_reward"`
	EarnedAt        time.Time              `json:"earned_at"`
}

type LevelUpEvent struct {
	UserID   string `json:"user_id"`
	NewLevel int    `json:"new_level"`
	TotalXP  int    `json:"total_xp"`
}

// Catalog event payload

type TopicRequestedEvent struct {
	RequestID   uint   `json:"request_id"`
	UserID      string `json:"user_id"`
	Topic       string `json:"topic"`
	Description string `json:"description,omitempty"`
}

// Event factory functions

func NewQuizStartedEvent(userID, topic, subtopic, difficulty string, questionCount int) *QuizEvent {
	return newEvent(EventQuizStarted, QuizStartedEvent{
		UserID:        userID,
		Topic:         topic,
		Subtopic:      subtopic,
		Difficulty:    difficulty,
		QuestionCount: questionCount,
	})
}

func NewQuizCompletedEvent(attempt *models.QuizAttempt, xpEarned int) *QuizEvent {
	return newEvent(EventQuizCompleted, QuizCompletedEvent{
		UserID:           attempt.UserID,
		AttemptID:        attempt.ID,
		Topic:            attempt.Topic,
		Subtopic:         attempt.Subtopic,
		Difficulty:       attempt.Difficulty,
		Score:            attempt.Score,
		CorrectAnswers:   attempt.CorrectAnswers,
		TotalQuestions:   attempt.TotalQuestions,
		TimeTakenMinutes: attempt.TimeTaken,
		XPEarned:         xpEarned,
		CompletedAt:      attempt.CreatedAt,
	})
}

func NewQuizAbandonedEvent(userID, topic string, answered, total int) *QuizEvent {
	return newEvent(EventQuizAbandoned, QuizAbandonedEvent{
		UserID:            userID,
		Topic:             topic,
		QuestionsAnswered: answered,
		TotalQuestions:    total,
	})
}

func NewAchievementUnlockedEvent(userID string, achievement *models.Achievement, earnedAt time.Time) *QuizEvent {
	return newEvent(EventAchievementUnlocked, AchievementUnlockedEvent{
		UserID:          userID,
		AchievementID:   achievement.ID,
		AchievementName: achievement.Name,
		Type:            achievement.Type,
		XPReward:        achievement.XPReward,
		EarnedAt:        earnedAt,
	})
}

func NewLevelUpEvent(userID string, newLevel, totalXP int) *QuizEvent {
	return newEvent(EventLevelUp, LevelUpEvent{
		UserID:   userID,
		NewLevel: newLevel,
		TotalXP:  totalXP,
	})
}

func NewTopicRequestedEvent(request *models.TopicRequest) *QuizEvent {
	return newEvent(EventTopicRequested, TopicRequestedEvent{
		RequestID:   request.ID,
		UserID:      request.UserID,
		Topic:       request.Topic,
		Description: request.Description,
	})
}

func newEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data:      data,
	}
}
