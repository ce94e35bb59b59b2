package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/repositories"
	"github.com/quizforge/quiz-service/internal/services"
	"github.com/quizforge/quiz-service/internal/utils"
)

// AdminHandler serves the question bank administration endpoints.
type AdminHandler struct {
	BaseHandler
	importExportService services.ImportExportService
	generationService   services.GenerationService
}

func NewAdminHandler(importExportService services.ImportExportService, generationService services.GenerationService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
		generationService:   generationService,
	}
}

// ImportQuestions handles POST /api/v1/admin/questions/import
func (h *AdminHandler) ImportQuestions(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "missing file upload", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "failed to open uploaded file", err)
		return
	}
	defer file.Close()

	result, err := h.importExportService.ImportQuestionsFromFile(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "import completed", result)
}

// ExportQuestions handles GET /api/v1/admin/questions/export
func (h *AdminHandler) ExportQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{
		Topic:      c.Query("topic"),
		Subtopic:   c.Query("subtopic"),
		Difficulty: models.DifficultyLevel(c.Query("difficulty")),
		Source:     models.QuestionSource(c.Query("source")),
	}

	format := c.DefaultQuery("format", "csv")
	timestamp := time.Now().Format("20060102-150405")

	switch format {
	case "csv":
		data, err := h.importExportService.ExportQuestionsToCSV(c.Request.Context(), filters)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=questions-%s.csv", timestamp))
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.importExportService.ExportQuestionsToExcel(c.Request.Context(), filters)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=questions-%s.xlsx", timestamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		h.RespondWithError(c, http.StatusBadRequest, "unsupported export format", nil, format)
	}
}

// GenerateQuestions handles POST /api/v1/admin/questions/generate
func (h *AdminHandler) GenerateQuestions(c *gin.Context) {
	var req services.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.UserID = CurrentUserID(c)

	result, err := h.generationService.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "questions generated", result)
}
