package models

import (
	"time"

	"github.com/google/uuid"
)

// RunnerProfile maps an email to the stable runner_id that score and feedback
// tables key on.
type RunnerProfile struct {
	RunnerID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"runner_id"`
	EmailID    string    `gorm:"size:255;not null;uniqueIndex" json:"email_id"`
	RunnerName string    `gorm:"size:255;not null" json:"runner_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (RunnerProfile) TableName() string { return "runners_profile" }
