package models

import (
	"time"

	"github.com/google/uuid"
)

// MesoScore is a runner's qualitative score for one mesocycle of a season.
type MesoScore struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RunnerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_qual_runner_season_meso" json:"runner_id"`
	SeasonNo    int       `gorm:"not null;uniqueIndex:idx_qual_runner_season_meso" json:"season_no"`
	Meso        string    `gorm:"size:50;not null;uniqueIndex:idx_qual_runner_season_meso" json:"meso"`
	QualScore   string    `gorm:"size:20;not null" json:"qual_score"`
	SourceTable string    `gorm:"size:50" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MesoScore) TableName() string { return "qual_scores" }

// CumulativeScore is the season-to-date aggregate score for a runner.
type CumulativeScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunnerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cum_runner_season" json:"runner_id"`
	SeasonNo  int       `gorm:"not null;uniqueIndex:idx_cum_runner_season" json:"season_no"`
	Score     float64   `gorm:"not null" json:"score"`
	MaxScore  float64   `gorm:"not null" json:"max_score"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CumulativeScore) TableName() string { return "cumulative_scores" }
