package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/services"
	"github.com/quizforge/quiz-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common response and logging functionality
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogError logs error details with request context
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", CurrentUserID(c),
	}
	fields = append(fields, additionalFields...)
	h.logger.LogError(err, message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{Message: message}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil {
		h.LogError(c, err, message, "status_code", statusCode)
	}
	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}

// HandleServiceError maps service-layer errors onto HTTP status codes:
// validation failures to 400, invalid session states to 409, missing
// resources to 404, everything else to 500.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "validation failed", nil, err)
	case services.IsSessionState(err):
		h.RespondWithError(c, http.StatusConflict, err.Error(), nil)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, err.Error(), nil)
	case services.IsBusinessRule(err):
		h.RespondWithError(c, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "internal server error", err)
	}
}

// ===== IDENTITY =====

const userIDKey = "user_id"

// IdentityMiddleware reads the caller identity from the X-User-ID
// header set by the upstream gateway. Requests without one are rejected;
// accepted identities are materialized as user rows on first sight.
func IdentityMiddleware(users services.UserService, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "missing X-User-ID header",
			})
			return
		}

		role := models.RoleStudent
		if c.GetHeader("X-User-Role") == "admin" {
			role = models.RoleAdmin
		}
		if err := users.Ensure(c.Request.Context(), userID, role); err != nil {
			// The request can still be served; the row catches up on the
			// next one.
			logger.Warn("failed to ensure user row", "user_id", userID, "error", err)
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// AdminMiddleware gates admin-only routes on the gateway-provided role
// header.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-Role") != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "admin access required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, or "" outside the
// identity middleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
