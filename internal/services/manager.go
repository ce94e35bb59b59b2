package services

import (
	"github.com/quizforge/quiz-service/internal/cache"
	"github.com/quizforge/quiz-service/internal/events"
	"github.com/quizforge/quiz-service/internal/genai"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/session"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/quizforge/quiz-service/internal/validator"
)

// Manager wires all services over shared infrastructure.
type Manager struct {
	quiz         QuizService
	users        UserService
	questions    QuestionService
	progression  ProgressionService
	gamification GamificationService
	topicRequest TopicRequestService
	dashboard    DashboardService
	insight      InsightService
	importExport ImportExportService
	generation   GenerationService
}

type ManagerDeps struct {
	Repo      repositories.Repository
	Store     session.Store
	Cache     cache.CacheService
	Publisher events.EventPublisher
	GenAI     genai.Client
	Validator *validator.Validator
	Logger    utils.Logger
}

func NewManager(deps ManagerDeps) *Manager {
	users := NewUserService(deps.Repo, deps.Logger)
	questions := NewQuestionService(deps.Repo, deps.Logger)
	progression := NewProgressionService(deps.Repo, deps.Logger)
	gamification := NewGamificationService(deps.Repo, deps.Publisher, deps.Logger)

	quiz := NewQuizService(QuizServiceDeps{
		Repo:         deps.Repo,
		Store:        deps.Store,
		Questions:    questions,
		Progression:  progression,
		Gamification: gamification,
		Users:        users,
		Cache:        deps.Cache,
		Publisher:    deps.Publisher,
		Validator:    deps.Validator,
		Logger:       deps.Logger,
	})

	return &Manager{
		quiz:         quiz,
		users:        users,
		questions:    questions,
		progression:  progression,
		gamification: gamification,
		topicRequest: NewTopicRequestService(deps.Repo, deps.Publisher, deps.Validator, deps.Logger),
		dashboard:    NewDashboardService(deps.Repo, gamification, deps.Cache, deps.Logger),
		insight:      NewInsightService(deps.Repo, deps.GenAI, deps.Cache, deps.Logger),
		importExport: NewImportExportService(deps.Repo, deps.Logger, deps.Validator),
		generation:   NewGenerationService(deps.Repo, deps.GenAI, deps.Validator, deps.Logger),
	}
}

func (m *Manager) Quiz() QuizService                 { return m.quiz }
func (m *Manager) Users() UserService                { return m.users }
func (m *Manager) Questions() QuestionService        { return m.questions }
func (m *Manager) Progression() ProgressionService   { return m.progression }
func (m *Manager) Gamification() GamificationService { return m.gamification }
func (m *Manager) TopicRequest() TopicRequestService { return m.topicRequest }
func (m *Manager) Dashboard() DashboardService       { return m.dashboard }
func (m *Manager) Insight() InsightService           { return m.insight }
func (m *Manager) ImportExport() ImportExportService { return m.importExport }
func (m *Manager) Generation() GenerationService     { return m.generation }
