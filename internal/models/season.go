package models

import (
	"errors"
	"strconv"
	"time"
	"unicode"
)

var ErrBadSeason = errors.New("season label has no embedded number")

// Season is one training season. Labels are opaque to clients ("Season 14");
// ordering and the notion of "current" come from SeasonNo.
type Season struct {
	SeasonNo  int       `gorm:"primaryKey" json:"season_no"`
	Label     string    `gorm:"size:50;not null" json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

func (Season) TableName() string { return "rhwb_seasons" }

// ParseSeasonNo extracts the embedded integer from a season label. Both bare
// numbers ("14") and prefixed labels ("Season 14") occur in stored data.
func ParseSeasonNo(label string) (int, error) {
	digits := make([]rune, 0, len(label))
	for _, r := range label {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return 0, ErrBadSeason
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, ErrBadSeason
	}
	return n, nil
}
