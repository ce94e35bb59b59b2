package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-service/internal/models"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/stretchr/testify/assert"
)

// ensureRecorder captures identity materialization calls.
type ensureRecorder struct {
	calls []string
}

func (e *ensureRecorder) Ensure(ctx context.Context, id string, role models.UserRole) error {
	e.calls = append(e.calls, id+":"+string(role))
	return nil
}

func (e *ensureRecorder) Preferences(ctx context.Context, id string) (models.QuizPreferences, error) {
	return models.DefaultQuizPreferences(), nil
}

func TestIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	users := &ensureRecorder{}
	router := gin.New()
	router.Use(IdentityMiddleware(users, utils.NewDevelopmentLogger()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUserID(c)})
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, users.calls)
	})

	t.Run("identity is materialized with its role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-User-ID", "u1")
		req.Header.Set("X-User-Role", "admin")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"u1:admin"}, users.calls)
	})

	t.Run("unknown roles default to student", func(t *testing.T) {
		users.calls = nil
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-User-ID", "u2")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"u2:student"}, users.calls)
	})
}
