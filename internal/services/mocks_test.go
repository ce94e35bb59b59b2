package services

import (
	"context"

	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// ===== REPOSITORY MOCKS =====

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Find(ctx context.Context, filters repositories.QuestionFilters) ([]models.Question, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByRef(ctx context.Context, ref models.QuestionRef) (*models.Question, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Topics(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionRepository) Subtopics(ctx context.Context, topic string) ([]string, error) {
	args := m.Called(ctx, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuestionRepository) Difficulties(ctx context.Context, topic, subtopic string) ([]models.DifficultyLevel, error) {
	args := m.Called(ctx, topic, subtopic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DifficultyLevel), args.Error(1)
}

func (m *MockQuestionRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) CreateCurated(ctx context.Context, questions []*models.CuratedQuestion) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateGenerated(ctx context.Context, questions []*models.GeneratedQuestion) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByUser(ctx context.Context, userID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) AverageScoreByUser(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAttemptRepository) TopicDifficultyStats(ctx context.Context, userID, topic string) (map[models.DifficultyLevel]repositories.DifficultyStats, error) {
	args := m.Called(ctx, userID, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.DifficultyLevel]repositories.DifficultyStats), args.Error(1)
}

func (m *MockAttemptRepository) TopicSummaries(ctx context.Context, userID string) ([]repositories.TopicSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.TopicSummary), args.Error(1)
}

func (m *MockAttemptRepository) MostActiveTopic(ctx context.Context, userID string) (*repositories.TopicActivity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.TopicActivity), args.Error(1)
}

type MockGamificationRepository struct {
	mock.Mock
}

func (m *MockGamificationRepository) GetOrCreateXP(ctx context.Context, userID string) (*models.UserXP, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserXP), args.Error(1)
}

func (m *MockGamificationRepository) GetXPForUpdate(ctx context.Context, userID string) (*models.UserXP, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserXP), args.Error(1)
}

func (m *MockGamificationRepository) SaveXP(ctx context.Context, xp *models.UserXP) error {
	args := m.Called(ctx, xp)
	return args.Error(0)
}

func (m *MockGamificationRepository) GetOrCreateAchievement(ctx context.Context, achievement *models.Achievement) (*models.Achievement, error) {
	args := m.Called(ctx, achievement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Achievement), args.Error(1)
}

func (m *MockGamificationRepository) Award(ctx context.Context, userID string, achievementID uint) (bool, error) {
	args := m.Called(ctx, userID, achievementID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGamificationRepository) ListUserAchievements(ctx context.Context, userID string, limit int) ([]*models.UserAchievement, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserAchievement), args.Error(1)
}

func (m *MockGamificationRepository) Leaderboard(ctx context.Context, limit int) ([]*models.UserXP, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserXP), args.Error(1)
}

type MockTopicRequestRepository struct {
	mock.Mock
}

func (m *MockTopicRequestRepository) Create(ctx context.Context, request *models.TopicRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockTopicRequestRepository) GetByID(ctx context.Context, id uint) (*models.TopicRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TopicRequest), args.Error(1)
}

func (m *MockTopicRequestRepository) List(ctx context.Context, filters repositories.TopicRequestFilters) ([]*models.TopicRequest, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.TopicRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockTopicRequestRepository) UpdateStatus(ctx context.Context, id uint, status models.TopicRequestStatus, adminNotes string) error {
	args := m.Called(ctx, id, status, adminNotes)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Ensure(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRepository aggregates the sub-repository mocks. WithTransaction
// runs fn against the same mock set, which is what the transactional
// code paths need for assertions.
type MockRepository struct {
	QuestionRepo     *MockQuestionRepository
	AttemptRepo      *MockAttemptRepository
	GamificationRepo *MockGamificationRepository
	TopicRequestRepo *MockTopicRequestRepository
	UserRepo         *MockUserRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		QuestionRepo:     &MockQuestionRepository{},
		AttemptRepo:      &MockAttemptRepository{},
		GamificationRepo: &MockGamificationRepository{},
		TopicRequestRepo: &MockTopicRequestRepository{},
		UserRepo:         &MockUserRepository{},
	}
}

func (m *MockRepository) Question() repositories.QuestionRepository         { return m.QuestionRepo }
func (m *MockRepository) Attempt() repositories.AttemptRepository           { return m.AttemptRepo }
func (m *MockRepository) Gamification() repositories.GamificationRepository { return m.GamificationRepo }
func (m *MockRepository) TopicRequest() repositories.TopicRequestRepository { return m.TopicRequestRepo }
func (m *MockRepository) User() repositories.UserRepository                 { return m.UserRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }
