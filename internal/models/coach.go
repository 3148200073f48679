package models

import "time"

// CoachAssignment maps a coach's email to their display name. The display
// name, not the email, is the join key used by roster queries and visibility
// checks everywhere else, so this indirection must be preserved.
type CoachAssignment struct {
	CoachEmail string    `gorm:"primaryKey;size:255" json:"coach_email"`
	CoachName  string    `gorm:"size:255;not null;index" json:"coach_name"`
	Active     bool      `gorm:"default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CoachAssignment) TableName() string { return "rhwb_coaches" }

// RosterAssignment assigns a runner to a coach for one season. Membership is
// season-specific; a season-13 assignment says nothing about season 14.
// fetch_runners_for_coach reads this table joined with runners_profile.
type RosterAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SeasonNo  int       `gorm:"not null;index:idx_roster_season_coach" json:"season_no"`
	CoachName string    `gorm:"size:255;not null;index:idx_roster_season_coach" json:"coach_name"`
	EmailID   string    `gorm:"size:255;not null;index" json:"email_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RosterAssignment) TableName() string { return "rhwb_rosters" }
