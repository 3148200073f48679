package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/httpctx"
	"github.com/rhwbclub/pulse-backend/internal/services"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// CreateVeerFeedback handles POST /api/veer/feedback. The runner is always
// the caller; there is no way to submit feedback on someone else's behalf.
func (h *FeedbackHandler) CreateVeerFeedback(c *fiber.Ctx) error {
	caller, err := httpctx.GetEmail(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.VeerFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.MessageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Message ID is required",
		})
	}

	if err := h.feedbackService.SubmitVeerFeedback(caller, &req); err != nil {
		if errors.Is(err, services.ErrBadFeedback) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrNoRunnerProfile) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store feedback",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Feedback recorded"})
}
