package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CoachFeedback is the per-mesocycle written feedback a coach leaves for a
// runner; the feedback widget reads it.
type CoachFeedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunnerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_feedback_runner_season" json:"runner_id"`
	SeasonNo  int       `gorm:"not null;index:idx_feedback_runner_season" json:"season_no"`
	Meso      string    `gorm:"size:50;not null" json:"meso"`
	CoachName string    `gorm:"size:255;not null" json:"coach_name"`
	Feedback  string    `gorm:"type:text;not null" json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CoachFeedback) TableName() string { return "coach_feedback" }

// VeerFeedback is a runner's thumbs-up/down on one assistant answer.
type VeerFeedback struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	MessageID         string         `gorm:"size:64;not null;uniqueIndex:idx_veer_message_runner" json:"message_id"`
	RunnerID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_veer_message_runner" json:"runner_id"`
	Feedback          string         `gorm:"size:10;not null" json:"feedback"`
	UserQuestion      string         `gorm:"type:text" json:"user_question"`
	AssistantResponse string         `gorm:"type:text" json:"assistant_response"`
	Comment           string         `gorm:"type:text" json:"comment"`
	Metadata          datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (VeerFeedback) TableName() string { return "veer_feedback" }
