package postgres

import (
	"context"
	"fmt"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

// QuestionPostgreSQL serves the unified read view over the curated and
// generated question banks. Query logic lives here once instead of being
// duplicated at every call site.
type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q QuestionPostgreSQL) Find(ctx context.Context, filters repositories.QuestionFilters) ([]models.Question, error) {
	var result []models.Question

	if filters.Source == "" || filters.Source == models.SourceCurated {
		var curated []models.CuratedQuestion
		query := q.applyFilters(q.db.WithContext(ctx).Model(&models.CuratedQuestion{}), filters)
		if err := query.Find(&curated).Error; err != nil {
			return nil, err
		}
		for _, row := range curated {
			result = append(result, row.Domain())
		}
	}

	if filters.Source == "" || filters.Source == models.SourceGenerated {
		var generated []models.GeneratedQuestion
		query := q.applyFilters(q.db.WithContext(ctx).Model(&models.GeneratedQuestion{}), filters)
		if err := query.Find(&generated).Error; err != nil {
			return nil, err
		}
		for _, row := range generated {
			result = append(result, row.Domain())
		}
	}

	return result, nil
}

func (q QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Topic != "" {
		query = query.Where("topic = ?", filters.Topic)
	}
	if filters.Subtopic != "" {
		query = query.Where("subtopic = ?", filters.Subtopic)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

func (q QuestionPostgreSQL) GetByRef(ctx context.Context, ref models.QuestionRef) (*models.Question, error) {
	switch ref.Source {
	case models.SourceCurated:
		var row models.CuratedQuestion
		if err := q.db.WithContext(ctx).First(&row, ref.ID).Error; err != nil {
			return nil, err
		}
		question := row.Domain()
		return &question, nil
	case models.SourceGenerated:
		var row models.GeneratedQuestion
		if err := q.db.WithContext(ctx).First(&row, ref.ID).Error; err != nil {
			return nil, err
		}
		question := row.Domain()
		return &question, nil
	default:
		return nil, fmt.Errorf("unknown question source %q", ref.Source)
	}
}

func (q QuestionPostgreSQL) Topics(ctx context.Context) ([]string, error) {
	return q.distinctUnion(ctx, "topic", nil, nil)
}

func (q QuestionPostgreSQL) Subtopics(ctx context.Context, topic string) ([]string, error) {
	return q.distinctUnion(ctx, "subtopic", []string{"topic = ?"}, []interface{}{topic})
}

func (q QuestionPostgreSQL) Difficulties(ctx context.Context, topic, subtopic string) ([]models.DifficultyLevel, error) {
	values, err := q.distinctUnion(ctx, "difficulty",
		[]string{"topic = ?", "subtopic = ?"}, []interface{}{topic, subtopic})
	if err != nil {
		return nil, err
	}

	difficulties := make([]models.DifficultyLevel, 0, len(values))
	for _, v := range values {
		difficulties = append(difficulties, models.DifficultyLevel(v))
	}
	return difficulties, nil
}

// distinctUnion pulls the distinct values of one column from both banks
// and merges them, preserving first-seen order.
func (q QuestionPostgreSQL) distinctUnion(ctx context.Context, column string, conditions []string, args []interface{}) ([]string, error) {
	seen := make(map[string]struct{})
	var union []string

	for _, model := range []interface{}{&models.CuratedQuestion{}, &models.GeneratedQuestion{}} {
		var values []string
		query := q.db.WithContext(ctx).Model(model).Distinct(column)
		for i, cond := range conditions {
			query = query.Where(cond, args[i])
		}
		if err := query.Pluck(column, &values).Error; err != nil {
			return nil, err
		}
		for _, v := range values {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				union = append(union, v)
			}
		}
	}

	return union, nil
}

func (q QuestionPostgreSQL) CountAll(ctx context.Context) (int64, error) {
	var curated, generated int64
	if err := q.db.WithContext(ctx).Model(&models.CuratedQuestion{}).Count(&curated).Error; err != nil {
		return 0, err
	}
	if err := q.db.WithContext(ctx).Model(&models.GeneratedQuestion{}).Count(&generated).Error; err != nil {
		return 0, err
	}
	return curated + generated, nil
}

func (q QuestionPostgreSQL) CreateCurated(ctx context.Context, questions []*models.CuratedQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Create(questions).Error
}

func (q QuestionPostgreSQL) CreateGenerated(ctx context.Context, questions []*models.GeneratedQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Create(questions).Error
}
