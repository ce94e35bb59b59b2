package models

import "time"

type TopicRequestStatus string

const (
	TopicRequestPending   TopicRequestStatus = "pending"
	TopicRequestApproved  TopicRequestStatus = "approved"
	TopicRequestCompleted TopicRequestStatus = "completed"
	TopicRequestRejected  TopicRequestStatus = "rejected"
)

func (s TopicRequestStatus) Valid() bool {
	switch s {
	case TopicRequestPending, TopicRequestApproved, TopicRequestCompleted, TopicRequestRejected:
		return true
	}
	return false
}

// TopicRequest is a user's request for question coverage of a topic that
// had no matches, the guided fallback of the empty-result-set pathway.
type TopicRequest struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	UserID      string             `json:"user_id" gorm:"not null;size:255;index"`
	Topic       string             `json:"topic" gorm:"not null;size:100" validate:"required,max=100"`
	Subtopic    string             `json:"subtopic" gorm:"size:100" validate:"max=100"`
	Difficulty  DifficultyLevel    `json:"difficulty" gorm:"size:20" validate:"omitempty,difficulty_level"`
	Description string             `json:"description" gorm:"type:text" validate:"required,max=1000"`
	Status      TopicRequestStatus `json:"status" gorm:"default:pending;size:20;index"`
	AdminNotes  string             `json:"admin_notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TopicRequest) TableName() string {
	return "topic_requests"
}
