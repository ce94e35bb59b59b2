package postgres

import (
	"context"
	"errors"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a AttemptPostgreSQL) ListByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	var attempts []*models.QuizAttempt
	var total int64

	query := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).Where("user_id = ?", userID)
	query = a.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = a.applyPaginationAndSort(query, filters)
	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

func (a AttemptPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.Topic != "" {
		query = query.Where("topic = ?", filters.Topic)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.DateFrom != nil {
		query = query.Where("attempt_date >= ?", filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("attempt_date <= ?", filters.DateTo)
	}
	return query
}

func (a AttemptPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "score", "attempt_date":
	default:
		sortBy = "attempt_date"
	}
	order := "desc"
	if filters.SortOrder == "asc" {
		order = "asc"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

func (a AttemptPostgreSQL) RecentByUser(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("attempt_date DESC, id DESC").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a AttemptPostgreSQL) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (a AttemptPostgreSQL) AverageScoreByUser(ctx context.Context, userID string) (float64, error) {
	var avg *float64
	if err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ?", userID).
		Select("AVG(score)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

type difficultyStatsRow struct {
	Difficulty   models.DifficultyLevel
	Attempts     int
	AverageScore float64
}

func (a AttemptPostgreSQL) TopicDifficultyStats(ctx context.Context, userID, topic string) (map[models.DifficultyLevel]repositories.DifficultyStats, error) {
	var rows []difficultyStatsRow
	if err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("difficulty, COUNT(*) AS attempts, AVG(score) AS average_score").
		Where("user_id = ? AND topic = ?", userID, topic).
		Group("difficulty").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[models.DifficultyLevel]repositories.DifficultyStats, len(rows))
	for _, row := range rows {
		stats[row.Difficulty] = repositories.DifficultyStats{
			Attempts:     row.Attempts,
			AverageScore: row.AverageScore,
		}
	}
	return stats, nil
}

func (a AttemptPostgreSQL) TopicSummaries(ctx context.Context, userID string) ([]repositories.TopicSummary, error) {
	var summaries []repositories.TopicSummary
	if err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("topic, subtopic, COUNT(*) AS attempts, AVG(score) AS average_score").
		Where("user_id = ?", userID).
		Group("topic, subtopic").
		Order("attempts DESC").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (a AttemptPostgreSQL) MostActiveTopic(ctx context.Context, userID string) (*repositories.TopicActivity, error) {
	var activity repositories.TopicActivity
	err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("topic, COUNT(*) AS attempts, AVG(score) AS average_score").
		Where("user_id = ?", userID).
		Group("topic").
		Order("attempts DESC").
		Limit(1).
		Scan(&activity).Error
	if err != nil {
		return nil, err
	}
	if activity.Topic == "" {
		return nil, nil
	}

	// Most common subtopic within the top topic
	var subtopic string
	err = a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("subtopic").
		Where("user_id = ? AND topic = ?", userID, activity.Topic).
		Group("subtopic").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&subtopic).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	activity.Subtopic = subtopic

	return &activity, nil
}
