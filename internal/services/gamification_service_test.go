package services

import (
	"context"
	"testing"
	"time"

	"github.com/quizforge/quiz-service/internal/events"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type gamificationFixture struct {
	repo      *MockRepository
	publisher *events.MockEventPublisher
	service   *gamificationService
}

func newGamificationFixture(t *testing.T, xp *models.UserXP, totalQuizzes int64, averageScore float64) *gamificationFixture {
	t.Helper()

	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(utils.NewDevelopmentLogger()))

	repo.GamificationRepo.On("GetXPForUpdate", mock.Anything, xp.UserID).Return(xp, nil)
	repo.GamificationRepo.On("SaveXP", mock.Anything, mock.Anything).Return(nil)
	repo.AttemptRepo.On("CountByUser", mock.Anything, xp.UserID).Return(totalQuizzes, nil)
	repo.AttemptRepo.On("AverageScoreByUser", mock.Anything, xp.UserID).Return(averageScore, nil)

	for i, def := range models.DefaultAchievements() {
		seeded := def
		seeded.ID = uint(i + 1)
		name := def.Name
		repo.GamificationRepo.On("GetOrCreateAchievement", mock.Anything, mock.MatchedBy(func(a *models.Achievement) bool {
			return a.Name == name
		})).Return(&seeded, nil)
	}

	service := NewGamificationService(repo, publisher, utils.NewDevelopmentLogger()).(*gamificationService)
	return &gamificationFixture{repo: repo, publisher: publisher, service: service}
}

// allowAward registers the default Award behaviour; awarded names get
// true, everything else false.
func (f *gamificationFixture) allowAward(userID string, awardedIDs ...uint) {
	for _, id := range awardedIDs {
		f.repo.GamificationRepo.On("Award", mock.Anything, userID, id).Return(true, nil)
	}
	f.repo.GamificationRepo.On("Award", mock.Anything, userID, mock.Anything).Return(false, nil)
}

func attemptFor(userID string, score float64) *models.QuizAttempt {
	return &models.QuizAttempt{
		UserID:         userID,
		Score:          score,
		Topic:          "Python",
		TotalQuestions: 5,
	}
}

func TestRecordCompletion_BaseXP(t *testing.T) {
	xp := &models.UserXP{UserID: "u1", TotalXP: 0, Level: 1}
	f := newGamificationFixture(t, xp, 1, 60)
	f.allowAward("u1")

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 60))
	require.NoError(t, err)

	assert.Equal(t, BaseCompletionXP, result.XPEarned)
	assert.Equal(t, 10, result.TotalXP)
	assert.Equal(t, 1, result.Level)
	assert.False(t, result.LeveledUp)
	assert.Empty(t, result.NewAchievements)
}

func TestRecordCompletion_HighScoreBonus(t *testing.T) {
	xp := &models.UserXP{UserID: "u1", TotalXP: 0, Level: 1}
	f := newGamificationFixture(t, xp, 1, 80)
	f.allowAward("u1")

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 80))
	require.NoError(t, err)

	assert.Equal(t, BaseCompletionXP+HighScoreBonusXP, result.XPEarned)
}

func TestRecordCompletion_LevelUpPublishesEvent(t *testing.T) {
	xp := &models.UserXP{UserID: "u1", TotalXP: 95, Level: 1}
	f := newGamificationFixture(t, xp, 2, 50)
	f.allowAward("u1")

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 40))
	require.NoError(t, err)

	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.Level)
	assert.Equal(t, 105, result.TotalXP)
	assert.Equal(t, 95, result.XPToNextLevel)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventLevelUp, published[0].Type)
}

func TestRecordCompletion_CompletionAchievement(t *testing.T) {
	xp := &models.UserXP{UserID: "u1", TotalXP: 30, Level: 1}
	// Tenth lifetime quiz unlocks Quiz Champion (ID 3 in the catalog).
	f := newGamificationFixture(t, xp, 10, 55)
	f.allowAward("u1", 3)

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 55))
	require.NoError(t, err)

	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, "Quiz Champion", result.NewAchievements[0].Name)
	// 10 base + 50 reward.
	assert.Equal(t, 60, result.XPEarned)

	published := f.publisher.GetPublishedEvents()
	found := false
	for _, e := range published {
		if e.Type == events.EventAchievementUnlocked {
			found = true
		}
	}
	assert.True(t, found, "achievement event published")
}

func TestRecordCompletion_AchievementAwardedOnlyOnce(t *testing.T) {
	xp := &models.UserXP{UserID: "u1", TotalXP: 30, Level: 1}
	f := newGamificationFixture(t, xp, 12, 55)
	// Award reports the unique-constraint conflict as false.
	f.allowAward("u1")

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 55))
	require.NoError(t, err)

	assert.Empty(t, result.NewAchievements)
	assert.Equal(t, BaseCompletionXP, result.XPEarned)
}

func TestRecordCompletion_PerfectScoreUsesSingleQuiz(t *testing.T) {
	xp := &models.UserXP{UserID: "u1", TotalXP: 0, Level: 1}
	// Lifetime average is far below 90, but this quiz was perfect:
	// Perfect Score (ID 4) fires, Sharp Shooter does not.
	f := newGamificationFixture(t, xp, 3, 40)
	f.allowAward("u1", 4)

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 100))
	require.NoError(t, err)

	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, "Perfect Score", result.NewAchievements[0].Name)
}

func TestRecordCompletion_StreakAchievement(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	xp := &models.UserXP{
		UserID:        "u1",
		TotalXP:       200,
		Level:         3,
		CurrentStreak: 6,
		LongestStreak: 6,
		LastQuizDate:  &yesterday,
	}
	f := newGamificationFixture(t, xp, 4, 50)
	f.allowAward("u1", 1) // Streak Master

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 50))
	require.NoError(t, err)

	assert.Equal(t, 7, result.CurrentStreak)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, "Streak Master", result.NewAchievements[0].Name)
}

func TestRecordCompletion_StreakSameDayNoOp(t *testing.T) {
	today := time.Now()
	xp := &models.UserXP{
		UserID:        "u1",
		CurrentStreak: 3,
		LongestStreak: 5,
		LastQuizDate:  &today,
	}
	f := newGamificationFixture(t, xp, 2, 50)
	f.allowAward("u1")

	result, err := f.service.RecordCompletion(context.Background(), attemptFor("u1", 50))
	require.NoError(t, err)

	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 5, result.LongestStreak)
}
