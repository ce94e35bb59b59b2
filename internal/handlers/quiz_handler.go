package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-service/internal/services"
	"github.com/quizforge/quiz-service/internal/utils"
)

// QuizHandler drives the quiz session endpoints.
type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// StartQuiz handles POST /api/v1/quiz/start
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	var req services.StartQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.UserID = CurrentUserID(c)

	result, err := h.quizService.Start(c.Request.Context(), req)
	if err != nil {
		// An empty pool is a guided outcome, not a failure: the response
		// points the user at the topic request pathway.
		if errors.Is(err, services.ErrNoQuestionsAvailable) {
			c.JSON(http.StatusOK, gin.H{
				"started":       false,
				"message":       "No questions available for this selection yet.",
				"topic_request": gin.H{
					"available": true,
					"hint":      "File a topic request via POST /api/v1/topic-requests and we will add coverage.",
				},
			})
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	if !result.Started {
		// Advisory intercept: repeat the request with proceed=true to
		// start anyway.
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// SubmitAnswer handles POST /api/v1/quiz/answer
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.UserID = CurrentUserID(c)

	result, err := h.quizService.SubmitAnswer(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCurrentQuestion handles GET /api/v1/quiz/current
func (h *QuizHandler) GetCurrentQuestion(c *gin.Context) {
	question, err := h.quizService.Current(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// AbandonQuiz handles DELETE /api/v1/quiz
func (h *QuizHandler) AbandonQuiz(c *gin.Context) {
	if err := h.quizService.Abandon(c.Request.Context(), CurrentUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "quiz session abandoned", nil)
}
