package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/rhwbclub/pulse-backend/internal/models"
)

// SeasonService lists the season catalog; the current season is the one with
// the highest season_no known at load time.
type SeasonService struct {
	db *gorm.DB
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{db: db}
}

func (s *SeasonService) List() ([]models.Season, error) {
	var seasons []models.Season
	if err := s.db.Order("season_no DESC").Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}
