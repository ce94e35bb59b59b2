package postgres

import (
	"context"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type TopicRequestPostgreSQL struct {
	db *gorm.DB
}

func NewTopicRequestPostgreSQL(db *gorm.DB) repositories.TopicRequestRepository {
	return &TopicRequestPostgreSQL{db: db}
}

func (t TopicRequestPostgreSQL) Create(ctx context.Context, request *models.TopicRequest) error {
	return t.db.WithContext(ctx).Create(request).Error
}

func (t TopicRequestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.TopicRequest, error) {
	var request models.TopicRequest
	if err := t.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (t TopicRequestPostgreSQL) List(ctx context.Context, filters repositories.TopicRequestFilters) ([]*models.TopicRequest, int64, error) {
	var requests []*models.TopicRequest
	var total int64

	query := t.db.WithContext(ctx).Model(&models.TopicRequest{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (t TopicRequestPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.TopicRequestStatus, adminNotes string) error {
	updates := map[string]interface{}{"status": status}
	if adminNotes != "" {
		updates["admin_notes"] = adminNotes
	}
	return t.db.WithContext(ctx).
		Model(&models.TopicRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
