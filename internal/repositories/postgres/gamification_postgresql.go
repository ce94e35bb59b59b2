package postgres

import (
	"context"
	"errors"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationPostgreSQL struct {
	db *gorm.DB
}

func NewGamificationPostgreSQL(db *gorm.DB) repositories.GamificationRepository {
	return &GamificationPostgreSQL{db: db}
}

func (g GamificationPostgreSQL) GetOrCreateXP(ctx context.Context, userID string) (*models.UserXP, error) {
	return g.getOrCreateXP(ctx, g.db, userID, false)
}

func (g GamificationPostgreSQL) GetXPForUpdate(ctx context.Context, userID string) (*models.UserXP, error) {
	return g.getOrCreateXP(ctx, g.db, userID, true)
}

func (g GamificationPostgreSQL) getOrCreateXP(ctx context.Context, db *gorm.DB, userID string, forUpdate bool) (*models.UserXP, error) {
	query := db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var xp models.UserXP
	err := query.Where("user_id = ?", userID).First(&xp).Error
	if err == nil {
		return &xp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	xp = models.UserXP{UserID: userID, Level: 1}
	// Concurrent first completions race on the unique user_id index;
	// whoever loses the insert re-reads the winner's row.
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&xp).Error; err != nil {
		return nil, err
	}
	if err := query.Where("user_id = ?", userID).First(&xp).Error; err != nil {
		return nil, err
	}
	return &xp, nil
}

func (g GamificationPostgreSQL) SaveXP(ctx context.Context, xp *models.UserXP) error {
	return g.db.WithContext(ctx).Save(xp).Error
}

func (g GamificationPostgreSQL) GetOrCreateAchievement(ctx context.Context, achievement *models.Achievement) (*models.Achievement, error) {
	var existing models.Achievement
	err := g.db.WithContext(ctx).Where("name = ?", achievement.Name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(achievement).Error; err != nil {
		return nil, err
	}
	if err := g.db.WithContext(ctx).Where("name = ?", achievement.Name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (g GamificationPostgreSQL) Award(ctx context.Context, userID string, achievementID uint) (bool, error) {
	award := models.UserAchievement{UserID: userID, AchievementID: achievementID}
	result := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&award)
	if result.Error != nil {
		return false, result.Error
	}
	// RowsAffected is zero when the unique pair already existed.
	return result.RowsAffected > 0, nil
}

func (g GamificationPostgreSQL) ListUserAchievements(ctx context.Context, userID string, limit int) ([]*models.UserAchievement, error) {
	var achievements []*models.UserAchievement
	query := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Achievement").
		Order("earned_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (g GamificationPostgreSQL) Leaderboard(ctx context.Context, limit int) ([]*models.UserXP, error) {
	var entries []*models.UserXP
	if limit <= 0 {
		limit = 10
	}
	if err := g.db.WithContext(ctx).
		Order("total_xp DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
