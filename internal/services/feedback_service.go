package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/models"
	"github.com/rhwbclub/pulse-backend/internal/roles"
)

var (
	ErrNoRunnerProfile = errors.New("no runner profile for this email")
	ErrBadFeedback     = errors.New("feedback must be 'up' or 'down'")
)

// FeedbackService stores thumbs-up/down responses on assistant answers.
// Writes are self-scoped: the runner is resolved from the caller's own email,
// never from a client-supplied runner id.
type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

func (s *FeedbackService) SubmitVeerFeedback(callerEmail string, req *dto.VeerFeedbackRequest) error {
	if req.Feedback != "up" && req.Feedback != "down" {
		return ErrBadFeedback
	}

	var profile models.RunnerProfile
	err := s.db.Where("email_id = ?", roles.Normalize(callerEmail)).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRunnerProfile
	}
	if err != nil {
		return fmt.Errorf("runner profile lookup: %w", err)
	}

	row := models.VeerFeedback{
		MessageID:         req.MessageID,
		RunnerID:          profile.RunnerID,
		Feedback:          req.Feedback,
		UserQuestion:      req.UserQuestion,
		AssistantResponse: req.AssistantResponse,
		Comment:           req.Comment,
	}

	// Re-submitting for the same message replaces the earlier verdict.
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "runner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"feedback", "user_question", "assistant_response", "comment", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to store veer feedback: %w", err)
	}
	return nil
}
