package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
)

// UserService materializes gateway identities into user rows and serves
// per-user quiz preferences.
type UserService interface {
	// Ensure creates the user row on first sight of an identity. The
	// write is an insert-if-absent, so repeated calls are harmless.
	Ensure(ctx context.Context, id string, role models.UserRole) error

	// Preferences returns the user's quiz preferences, falling back to
	// defaults when the user or the blob is absent.
	Preferences(ctx context.Context, id string) (models.QuizPreferences, error)
}

type userService struct {
	repo   repositories.Repository
	logger utils.Logger

	// Identities already ensured by this process; skips the upsert on
	// every request after the first.
	seen sync.Map
}

func NewUserService(repo repositories.Repository, logger utils.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) Ensure(ctx context.Context, id string, role models.UserRole) error {
	if id == "" {
		return NewValidationError("user_id", "is required", id)
	}
	if _, ok := s.seen.Load(id); ok {
		return nil
	}

	if role != models.RoleAdmin {
		role = models.RoleStudent
	}
	if _, err := s.repo.User().Ensure(ctx, &models.User{ID: id, Role: role}); err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", id, err)
	}

	s.seen.Store(id, struct{}{})
	return nil
}

func (s *userService) Preferences(ctx context.Context, id string) (models.QuizPreferences, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return models.DefaultQuizPreferences(), nil
		}
		return models.DefaultQuizPreferences(), fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return user.QuizPreferences(), nil
}
