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

// CatalogHandler serves topic enumeration and topic request endpoints.
type CatalogHandler struct {
	BaseHandler
	questionService     services.QuestionService
	topicRequestService services.TopicRequestService
}

func NewCatalogHandler(questionService services.QuestionService, topicRequestService services.TopicRequestService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:         NewBaseHandler(logger),
		questionService:     questionService,
		topicRequestService: topicRequestService,
	}
}

// ListTopics handles GET /api/v1/catalog/topics
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	topics, err := h.questionService.Topics(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// ListSubtopics handles GET /api/v1/catalog/topics/:topic/subtopics
func (h *CatalogHandler) ListSubtopics(c *gin.Context) {
	subtopics, err := h.questionService.Subtopics(c.Request.Context(), c.Param("topic"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtopics": subtopics})
}

// ListDifficulties handles GET /api/v1/catalog/topics/:topic/subtopics/:subtopic/difficulties
func (h *CatalogHandler) ListDifficulties(c *gin.Context) {
	difficulties, err := h.questionService.Difficulties(c.Request.Context(), c.Param("topic"), c.Param("subtopic"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"difficulties": difficulties})
}

// CreateTopicRequest handles POST /api/v1/topic-requests
func (h *CatalogHandler) CreateTopicRequest(c *gin.Context) {
	var req services.CreateTopicRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.UserID = CurrentUserID(c)

	request, err := h.topicRequestService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "topic request filed", request)
}

// ListTopicRequests handles GET /api/v1/topic-requests
func (h *CatalogHandler) ListTopicRequests(c *gin.Context) {
	filters := repositories.TopicRequestFilters{
		Status: models.TopicRequestStatus(c.Query("status")),
	}
	// Non-admins only see their own requests.
	if c.GetHeader("X-User-Role") != "admin" {
		filters.UserID = CurrentUserID(c)
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	requests, total, err := h.topicRequestService.List(c.Request.Context(), filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests, "total": total})
}

// UpdateTopicRequestStatus handles PUT /api/v1/topic-requests/:id/status
func (h *CatalogHandler) UpdateTopicRequestStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid topic request id", err)
		return
	}

	var req services.UpdateTopicRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	request, err := h.topicRequestService.UpdateStatus(c.Request.Context(), uint(id), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "topic request updated", request)
}
