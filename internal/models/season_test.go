package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeasonNo(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"Season 14", 14},
		{"14", 14},
		{"season 9", 9},
		{" Season 14 ", 14},
	}
	for _, tt := range tests {
		got, err := ParseSeasonNo(tt.label)
		require.NoError(t, err, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}
}

func TestParseSeasonNoRejectsLabelsWithoutDigits(t *testing.T) {
	for _, label := range []string{"", "Season", "current"} {
		_, err := ParseSeasonNo(label)
		assert.ErrorIs(t, err, ErrBadSeason, label)
	}
}
