package postgres

import (
	"context"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB

	question     repositories.QuestionRepository
	attempt      repositories.AttemptRepository
	gamification repositories.GamificationRepository
	topicRequest repositories.TopicRequestRepository
	user         repositories.UserRepository
}

// NewRepository wires all PostgreSQL repositories around one gorm handle.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:           db,
		question:     NewQuestionPostgreSQL(db),
		attempt:      NewAttemptPostgreSQL(db),
		gamification: NewGamificationPostgreSQL(db),
		topicRequest: NewTopicRequestPostgreSQL(db),
		user:         NewUserPostgreSQL(db),
	}
}

func (r *gormRepository) Question() repositories.QuestionRepository { return r.question }

func (r *gormRepository) Attempt() repositories.AttemptRepository { return r.attempt }

func (r *gormRepository) Gamification() repositories.GamificationRepository {
	return r.gamification
}

func (r *gormRepository) TopicRequest() repositories.TopicRequestRepository {
	return r.topicRequest
}

func (r *gormRepository) User() repositories.UserRepository { return r.user }

func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the service's tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CuratedQuestion{},
		&models.GeneratedQuestion{},
		&models.QuizAttempt{},
		&models.UserXP{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.TopicRequest{},
	)
}
