package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
)

// QuestionService exposes the unified question catalog over both banks.
type QuestionService interface {
	Search(ctx context.Context, filters repositories.QuestionFilters) ([]models.Question, error)
	GetByRef(ctx context.Context, ref models.QuestionRef) (*models.Question, error)

	Topics(ctx context.Context) ([]string, error)
	Subtopics(ctx context.Context, topic string) ([]string, error)
	Difficulties(ctx context.Context, topic, subtopic string) ([]models.DifficultyLevel, error)
	CountAll(ctx context.Context) (int64, error)

	// Sample draws up to count questions matching the filters, uniformly
	// at random and without repetition. When the pool holds fewer than
	// count questions the whole pool is returned, shuffled.
	Sample(ctx context.Context, filters repositories.QuestionFilters, count int) ([]models.Question, error)
}

type questionService struct {
	repo   repositories.Repository
	logger utils.Logger
	// Injectable for deterministic sampling in tests.
	shuffle func(n int, swap func(i, j int))
}

func NewQuestionService(repo repositories.Repository, logger utils.Logger) QuestionService {
	return &questionService{
		repo:    repo,
		logger:  logger,
		shuffle: rand.Shuffle,
	}
}

func (s *questionService) Search(ctx context.Context, filters repositories.QuestionFilters) ([]models.Question, error) {
	questions, err := s.repo.Question().Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) GetByRef(ctx context.Context, ref models.QuestionRef) (*models.Question, error) {
	question, err := s.repo.Question().GetByRef(ctx, ref)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get question %s: %w", ref, err)
	}
	return question, nil
}

func (s *questionService) Topics(ctx context.Context) ([]string, error) {
	return s.repo.Question().Topics(ctx)
}

func (s *questionService) Subtopics(ctx context.Context, topic string) ([]string, error) {
	if topic == "" {
		return nil, NewValidationError("topic", "topic is required", topic)
	}
	return s.repo.Question().Subtopics(ctx, topic)
}

func (s *questionService) Difficulties(ctx context.Context, topic, subtopic string) ([]models.DifficultyLevel, error) {
	if topic == "" {
		return nil, NewValidationError("topic", "topic is required", topic)
	}
	return s.repo.Question().Difficulties(ctx, topic, subtopic)
}

func (s *questionService) CountAll(ctx context.Context) (int64, error) {
	return s.repo.Question().CountAll(ctx)
}

func (s *questionService) Sample(ctx context.Context, filters repositories.QuestionFilters, count int) ([]models.Question, error) {
	if count <= 0 {
		return nil, NewValidationError("count", "question count must be positive", count)
	}

	// Limit/Offset do not apply to sampling; the draw needs the full pool.
	filters.Limit = 0
	filters.Offset = 0

	pool, err := s.repo.Question().Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	s.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if len(pool) > count {
		pool = pool[:count]
	}
	return pool, nil
}
