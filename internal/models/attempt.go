package models

import "time"

// Labels recorded on an attempt when the user did not narrow the filter.
const (
	AllSubtopics    = "All Subtopics"
	AllDifficulties = "All Difficulties"
)

// QuizAttempt is the persisted outcome of one finalized quiz session.
// Created exactly once at finalization and never mutated afterward.
type QuizAttempt struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"not null;size:255;index"`
	Score          float64   `json:"score" gorm:"not null"` // percentage, 0-100
	Topic          string    `json:"topic" gorm:"not null;size:100;index"`
	Subtopic       string    `json:"subtopic" gorm:"size:100"`
	Difficulty     string    `json:"difficulty" gorm:"size:20"` // session-level label, may be AllDifficulties
	CorrectAnswers int       `json:"correct_answers" gorm:"default:0"`
	WrongAnswers   int       `json:"wrong_answers" gorm:"default:0"`
	TotalQuestions int       `json:"total_questions" gorm:"default:0"`
	TimeTaken      float64   `json:"time_taken" gorm:"default:0"` // minutes
	AttemptDate    time.Time `json:"attempt_date" gorm:"type:date;index"`
	CreatedAt      time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
