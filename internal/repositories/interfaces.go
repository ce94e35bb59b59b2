package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/quizforge/quiz-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

// QuestionFilters narrows the unified question view. Subtopic and
// Difficulty apply only when non-empty; Source restricts to one bank.
type QuestionFilters struct {
	Topic      string                 `json:"topic"`
	Subtopic   string                 `json:"subtopic"`
	Difficulty models.DifficultyLevel `json:"difficulty"`
	Source     models.QuestionSource  `json:"source"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
}

type AttemptFilters struct {
	Topic      string                 `json:"topic"`
	Difficulty models.DifficultyLevel `json:"difficulty"`
	DateFrom   *time.Time             `json:"date_from"`
	DateTo     *time.Time             `json:"date_to"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
	SortBy     string                 `json:"sort_by"`    // "attempt_date", "score"
	SortOrder  string                 `json:"sort_order"` // "asc", "desc"
}

type TopicRequestFilters struct {
	Status models.TopicRequestStatus `json:"status"`
	UserID string                    `json:"user_id"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// DifficultyStats aggregates a user's attempts at one topic/difficulty
// pair, the inputs of the progression rules.
type DifficultyStats struct {
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}

// TopicSummary is one row of the per-topic quiz history aggregate.
type TopicSummary struct {
	Topic        string  `json:"topic"`
	Subtopic     string  `json:"subtopic"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}

// TopicActivity describes the user's most active topic.
type TopicActivity struct {
	Topic        string  `json:"topic"`
	Subtopic     string  `json:"subtopic"` // most common subtopic within the topic
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}

// ===== REPOSITORY INTERFACES =====

type QuestionRepository interface {
	// Find returns the union of matches from the curated and generated
	// banks. No ordering guarantee beyond source iteration order.
	Find(ctx context.Context, filters QuestionFilters) ([]models.Question, error)
	GetByRef(ctx context.Context, ref models.QuestionRef) (*models.Question, error)

	// Distinct-value enumerations, unioned across both banks.
	Topics(ctx context.Context) ([]string, error)
	Subtopics(ctx context.Context, topic string) ([]string, error)
	Difficulties(ctx context.Context, topic, subtopic string) ([]models.DifficultyLevel, error)
	CountAll(ctx context.Context) (int64, error)

	CreateCurated(ctx context.Context, questions []*models.CuratedQuestion) error
	CreateGenerated(ctx context.Context, questions []*models.GeneratedQuestion) error
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	ListByUser(ctx context.Context, userID string, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	RecentByUser(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error)

	// Aggregates consumed by progression and achievement checks.
	CountByUser(ctx context.Context, userID string) (int64, error)
	AverageScoreByUser(ctx context.Context, userID string) (float64, error)
	TopicDifficultyStats(ctx context.Context, userID, topic string) (map[models.DifficultyLevel]DifficultyStats, error)
	TopicSummaries(ctx context.Context, userID string) ([]TopicSummary, error)
	MostActiveTopic(ctx context.Context, userID string) (*TopicActivity, error)
}

type GamificationRepository interface {
	// GetOrCreateXP returns the user's ledger row, creating it at zero.
	GetOrCreateXP(ctx context.Context, userID string) (*models.UserXP, error)
	// GetXPForUpdate is GetOrCreateXP with a row lock; valid only inside
	// WithTransaction.
	GetXPForUpdate(ctx context.Context, userID string) (*models.UserXP, error)
	SaveXP(ctx context.Context, xp *models.UserXP) error

	GetOrCreateAchievement(ctx context.Context, achievement *models.Achievement) (*models.Achievement, error)
	// Award inserts the (user, achievement) join row; returns false when
	// the user already holds the achievement.
	Award(ctx context.Context, userID string, achievementID uint) (bool, error)
	ListUserAchievements(ctx context.Context, userID string, limit int) ([]*models.UserAchievement, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.UserXP, error)
}

type TopicRequestRepository interface {
	Create(ctx context.Context, request *models.TopicRequest) error
	GetByID(ctx context.Context, id uint) (*models.TopicRequest, error)
	List(ctx context.Context, filters TopicRequestFilters) ([]*models.TopicRequest, int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.TopicRequestStatus, adminNotes string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Ensure creates the user row on first sight of an identity.
	Ensure(ctx context.Context, user *models.User) (*models.User, error)
}

// Repository is the aggregate access point for all persistence.
type Repository interface {
	Question() QuestionRepository
	Attempt() AttemptRepository
	Gamification() GamificationRepository
	TopicRequest() TopicRequestRepository
	User() UserRepository

	// WithTransaction runs fn against a transactional Repository view.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err is the persistence layer's
// record-not-found condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
