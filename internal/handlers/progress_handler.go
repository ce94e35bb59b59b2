package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/services"
	"github.com/quizforge/quiz-service/internal/utils"
)

// ProgressHandler serves the per-user progress and gamification views.
type ProgressHandler struct {
	BaseHandler
	dashboardService    services.DashboardService
	gamificationService services.GamificationService
	insightService      services.InsightService
}

func NewProgressHandler(dashboardService services.DashboardService, gamificationService services.GamificationService, insightService services.InsightService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:         NewBaseHandler(logger),
		dashboardService:    dashboardService,
		gamificationService: gamificationService,
		insightService:      insightService,
	}
}

// GetDashboard handles GET /api/v1/progress/dashboard
func (h *ProgressHandler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetHistory handles GET /api/v1/progress/history
func (h *ProgressHandler) GetHistory(c *gin.Context) {
	filters := repositories.AttemptFilters{
		Topic:      c.Query("topic"),
		Difficulty: models.DifficultyLevel(c.Query("difficulty")),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filters.Offset = offset
	}

	history, err := h.dashboardService.History(c.Request.Context(), CurrentUserID(c), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetAchievements handles GET /api/v1/progress/achievements
func (h *ProgressHandler) GetAchievements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	achievements, err := h.gamificationService.Achievements(c.Request.Context(), CurrentUserID(c), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// GetLeaderboard handles GET /api/v1/progress/leaderboard
func (h *ProgressHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	leaderboard, err := h.gamificationService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": leaderboard})
}

// GetRecommendations handles GET /api/v1/progress/recommendations
func (h *ProgressHandler) GetRecommendations(c *gin.Context) {
	result, err := h.insightService.Recommendations(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
