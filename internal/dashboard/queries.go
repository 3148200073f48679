package dashboard

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rhwbclub/pulse-backend/internal/roles"
)

// GormQueries implements the four widget reads against Postgres. Every query
// joins runners_profile to translate the subject email to the runner_id the
// score tables key on.
type GormQueries struct {
	db *gorm.DB
}

func NewGormQueries(db *gorm.DB) *GormQueries {
	return &GormQueries{db: db}
}

func (q *GormQueries) MesoScores(ctx context.Context, seasonNo int, email string) ([]ScoreRow, error) {
	var rows []ScoreRow
	err := q.db.WithContext(ctx).
		Raw(`SELECT s.meso, s.qual_score
		     FROM qual_scores s
		     JOIN runners_profile p ON p.runner_id = s.runner_id
		     WHERE p.email_id = ? AND s.season_no = ?
		     ORDER BY s.meso`, roles.Normalize(email), seasonNo).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("meso scores: %w", err)
	}
	return rows, nil
}

func (q *GormQueries) CumulativeScore(ctx context.Context, seasonNo int, email string) (Cumulative, error) {
	var row struct {
		Score    float64
		MaxScore float64
	}
	err := q.db.WithContext(ctx).
		Raw(`SELECT c.score, c.max_score
		     FROM cumulative_scores c
		     JOIN runners_profile p ON p.runner_id = c.runner_id
		     WHERE p.email_id = ? AND c.season_no = ?`, roles.Normalize(email), seasonNo).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Cumulative{}, nil
	}
	if err != nil {
		return Cumulative{}, fmt.Errorf("cumulative score: %w", err)
	}
	return Cumulative{Score: row.Score, MaxScore: row.MaxScore, Present: true}, nil
}

func (q *GormQueries) ActivitySummary(ctx context.Context, seasonNo int, email string) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := q.db.WithContext(ctx).
		Raw(`SELECT a.meso, a.planned, a.completed
		     FROM activity_summary a
		     JOIN runners_profile p ON p.runner_id = a.runner_id
		     WHERE p.email_id = ? AND a.season_no = ?
		     ORDER BY a.meso`, roles.Normalize(email), seasonNo).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("activity summary: %w", err)
	}
	return rows, nil
}

func (q *GormQueries) CoachFeedback(ctx context.Context, seasonNo int, email string) ([]FeedbackRow, error) {
	var rows []FeedbackRow
	err := q.db.WithContext(ctx).
		Raw(`SELECT f.meso, f.coach_name, f.feedback, f.created_at
		     FROM coach_feedback f
		     JOIN runners_profile p ON p.runner_id = f.runner_id
		     WHERE p.email_id = ? AND f.season_no = ?
		     ORDER BY f.created_at`, roles.Normalize(email), seasonNo).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("coach feedback: %w", err)
	}
	return rows, nil
}
