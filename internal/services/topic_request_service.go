package services

import (
	"context"
	"fmt"

	"github.com/quizforge/quiz-service/internal/events"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/quizforge/quiz-service/internal/validator"
)

type CreateTopicRequestRequest struct {
	UserID      string `json:"-"`
	Topic       string `json:"topic" validate:"required,max=100"`
	Subtopic    string `json:"subtopic" validate:"max=100"`
	Difficulty  string `json:"difficulty" validate:"omitempty,difficulty_level"`
	Description string `json:"description" validate:"required,max=1000"`
}

type UpdateTopicRequestStatusRequest struct {
	Status     string `json:"status" validate:"required,topic_request_status"`
	AdminNotes string `json:"admin_notes" validate:"max=1000"`
}

// TopicRequestService files and manages coverage requests for topics the
// question banks cannot serve yet.
type TopicRequestService interface {
	Create(ctx context.Context, req CreateTopicRequestRequest) (*models.TopicRequest, error)
	List(ctx context.Context, filters repositories.TopicRequestFilters) ([]*models.TopicRequest, int64, error)
	UpdateStatus(ctx context.Context, id uint, req UpdateTopicRequestStatusRequest) (*models.TopicRequest, error)
}

type topicRequestService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    utils.Logger
}

func NewTopicRequestService(repo repositories.Repository, publisher events.EventPublisher, v *validator.Validator, logger utils.Logger) TopicRequestService {
	return &topicRequestService{
		repo:      repo,
		publisher: publisher,
		validator: v,
		logger:    logger,
	}
}

func (s *topicRequestService) Create(ctx context.Context, req CreateTopicRequestRequest) (*models.TopicRequest, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	request := &models.TopicRequest{
		UserID:      req.UserID,
		Topic:       req.Topic,
		Subtopic:    req.Subtopic,
		Difficulty:  models.DifficultyLevel(req.Difficulty),
		Description: req.Description,
		Status:      models.TopicRequestPending,
	}

	if err := s.repo.TopicRequest().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create topic request: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishQuizEvent(ctx, events.NewTopicRequestedEvent(request)); err != nil {
			s.logger.Warn("failed to publish topic request event",
				"request_id", request.ID, "error", err)
		}
	}

	return request, nil
}

func (s *topicRequestService) List(ctx context.Context, filters repositories.TopicRequestFilters) ([]*models.TopicRequest, int64, error) {
	return s.repo.TopicRequest().List(ctx, filters)
}

func (s *topicRequestService) UpdateStatus(ctx context.Context, id uint, req UpdateTopicRequestStatusRequest) (*models.TopicRequest, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.TopicRequest().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTopicRequestNotFound
		}
		return nil, fmt.Errorf("failed to load topic request: %w", err)
	}

	if err := s.repo.TopicRequest().UpdateStatus(ctx, id, models.TopicRequestStatus(req.Status), req.AdminNotes); err != nil {
		return nil, fmt.Errorf("failed to update topic request: %w", err)
	}

	return s.repo.TopicRequest().GetByID(ctx, id)
}
