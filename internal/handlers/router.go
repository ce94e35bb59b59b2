package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-service/internal/services"
	"github.com/quizforge/quiz-service/internal/utils"
)

type HandlerManager struct {
	quizHandler     *QuizHandler
	catalogHandler  *CatalogHandler
	progressHandler *ProgressHandler
	adminHandler    *AdminHandler
	users           services.UserService
	logger          utils.Logger
}

func NewHandlerManager(serviceManager *services.Manager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		quizHandler:     NewQuizHandler(serviceManager.Quiz(), logger),
		catalogHandler:  NewCatalogHandler(serviceManager.Questions(), serviceManager.TopicRequest(), logger),
		progressHandler: NewProgressHandler(serviceManager.Dashboard(), serviceManager.Gamification(), serviceManager.Insight(), logger),
		adminHandler:    NewAdminHandler(serviceManager.ImportExport(), serviceManager.Generation(), logger),
		users:           serviceManager.Users(),
		logger:          logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(IdentityMiddleware(hm.users, hm.logger))
	{
		quiz := v1.Group("/quiz")
		{
			quiz.POST("/start", hm.quizHandler.StartQuiz)
			quiz.POST("/answer", hm.quizHandler.SubmitAnswer)
			quiz.GET("/current", hm.quizHandler.GetCurrentQuestion)
			quiz.DELETE("", hm.quizHandler.AbandonQuiz)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/topics", hm.catalogHandler.ListTopics)
			catalog.GET("/topics/:topic/subtopics", hm.catalogHandler.ListSubtopics)
			catalog.GET("/topics/:topic/subtopics/:subtopic/difficulties", hm.catalogHandler.ListDifficulties)
		}

		topicRequests := v1.Group("/topic-requests")
		{
			topicRequests.POST("", hm.catalogHandler.CreateTopicRequest)
			topicRequests.GET("", hm.catalogHandler.ListTopicRequests)
			topicRequests.PUT("/:id/status", AdminMiddleware(), hm.catalogHandler.UpdateTopicRequestStatus)
		}

		progress := v1.Group("/progress")
		{
			progress.GET("/dashboard", hm.progressHandler.GetDashboard)
			progress.GET("/history", hm.progressHandler.GetHistory)
			progress.GET("/achievements", hm.progressHandler.GetAchievements)
			progress.GET("/leaderboard", hm.progressHandler.GetLeaderboard)
			progress.GET("/recommendations", hm.progressHandler.GetRecommendations)
		}

		admin := v1.Group("/admin")
		admin.Use(AdminMiddleware())
		{
			admin.POST("/questions/import", hm.adminHandler.ImportQuestions)
			admin.GET("/questions/export", hm.adminHandler.ExportQuestions)
			admin.POST("/questions/generate", hm.adminHandler.GenerateQuestions)
		}
	}
}
