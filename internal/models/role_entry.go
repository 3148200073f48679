package models

import "time"

// RoleEntry is a row of the roles view (rhwb_roles), keyed by email. Absence
// of a row means the identity is a plain athlete.
type RoleEntry struct {
	EmailID   string    `gorm:"primaryKey;size:255" json:"email_id"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RoleEntry) TableName() string { return "rhwb_roles" }
