package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User is created on first sight of a gateway identity, so only ID and
// Role are guaranteed; profile fields fill in later if a profile sync
// ever provides them.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"size:100"`
	Email    string   `json:"email" gorm:"index;size:255"`
	Role     UserRole `json:"role" gorm:"default:student;size:20"`

	// Free-form UI/quiz preferences, see QuizPreferences.
	Preferences datatypes.JSON `json:"preferences"`

	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// QuizPreferences is the typed shape of User.Preferences.
type QuizPreferences struct {
	DefaultQuestions         int             `json:"default_questions"`
	PreferredDifficulty      DifficultyLevel `json:"preferred_difficulty,omitempty"`
	EnableTimer              bool            `json:"enable_timer"`
	ShowAnswers              bool            `json:"show_answers"`
	AchievementNotifications bool            `json:"achievement_notifications"`
}

// DefaultQuestionsFallback applies when a preference blob is absent or
// carries a non-positive quiz size. Matches the quiz default draw.
const DefaultQuestionsFallback = 5

func DefaultQuizPreferences() QuizPreferences {
	return QuizPreferences{
		DefaultQuestions:         DefaultQuestionsFallback,
		EnableTimer:              true,
		ShowAnswers:              true,
		AchievementNotifications: true,
	}
}

// QuizPreferences decodes the stored preference blob, falling back to
// defaults when absent or malformed.
func (u *User) QuizPreferences() QuizPreferences {
	prefs := DefaultQuizPreferences()
	if len(u.Preferences) == 0 {
		return prefs
	}
	if err := json.Unmarshal(u.Preferences, &prefs); err != nil {
		return DefaultQuizPreferences()
	}
	if prefs.DefaultQuestions <= 0 {
		prefs.DefaultQuestions = DefaultQuestionsFallback
	}
	return prefs
}
