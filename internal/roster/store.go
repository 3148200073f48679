package roster

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SQLStore calls the roster SQL function and the coach table directly.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

type runnerRow struct {
	EmailID    string
	RunnerName string
}

func (s *SQLStore) RunnersForCoach(ctx context.Context, seasonNo int, coachName string) ([]Entry, error) {
	var rows []runnerRow
	err := s.db.WithContext(ctx).
		Raw("SELECT email_id, runner_name FROM fetch_runners_for_coach(?, ?)", seasonNo, coachName).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch_runners_for_coach(%d, %q): %w", seasonNo, coachName, err)
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{Email: r.EmailID, DisplayName: r.RunnerName}
	}
	return entries, nil
}

func (s *SQLStore) ActiveCoaches(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Raw("SELECT coach_name FROM rhwb_coaches WHERE active = true ORDER BY coach_name").
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("list active coaches: %w", err)
	}
	return names, nil
}
