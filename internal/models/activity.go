package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivitySummary is per-mesocycle planned/completed activity counts.
type ActivitySummary struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunnerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_activity_runner_season_meso" json:"runner_id"`
	SeasonNo  int       `gorm:"not null;uniqueIndex:idx_activity_runner_season_meso" json:"season_no"`
	Meso      string    `gorm:"size:50;not null;uniqueIndex:idx_activity_runner_season_meso" json:"meso"`
	Planned   int       `gorm:"not null" json:"planned"`
	Completed int       `gorm:"not null" json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ActivitySummary) TableName() string { return "activity_summary" }
