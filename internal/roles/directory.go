package roles

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rhwbclub/pulse-backend/internal/models"
)

// GormDirectory reads the roles view and coach roster from Postgres.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) RoleFor(ctx context.Context, email string) (string, error) {
	var entry models.RoleEntry
	err := d.db.WithContext(ctx).Where("email_id = ?", Normalize(email)).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("role lookup: %w", err)
	}
	return entry.Role, nil
}

func (d *GormDirectory) CoachNameFor(ctx context.Context, email string) (string, error) {
	var coach models.CoachAssignment
	err := d.db.WithContext(ctx).
		Where("coach_email = ? AND active = true", Normalize(email)).
		First(&coach).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("coach name lookup: %w", err)
	}
	return coach.CoachName, nil
}
