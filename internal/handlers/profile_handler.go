package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/httpctx"
	"github.com/rhwbclub/pulse-backend/internal/roles"
	"github.com/rhwbclub/pulse-backend/internal/services"
)

// ProfileHandler seeds the client: role, coach display name and the current
// season — everything the selection state machine needs at mount.
type ProfileHandler struct {
	classifier    *roles.Classifier
	seasonService *services.SeasonService
}

func NewProfileHandler(classifier *roles.Classifier, seasonService *services.SeasonService) *ProfileHandler {
	return &ProfileHandler{classifier: classifier, seasonService: seasonService}
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	email, err := httpctx.GetEmail(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	cl := h.classifier.Classify(c.UserContext(), email)

	resp := dto.MeResponse{
		Email:     email,
		Role:      cl.Role.String(),
		CoachName: cl.CoachName,
	}

	seasons, err := h.seasonService.List()
	if err != nil {
		// Season catalog failure must not block app load; the client can
		// fetch seasons separately.
		slog.Warn("season catalog lookup failed", "error", err)
	} else if len(seasons) > 0 {
		resp.CurrentSeason = seasons[0].Label
	}

	return c.JSON(resp)
}

func (h *ProfileHandler) Seasons(c *fiber.Ctx) error {
	seasons, err := h.seasonService.List()
	if err != nil {
		slog.Error("season list failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list seasons",
		})
	}

	resp := dto.SeasonsResponse{Seasons: make([]dto.SeasonResponse, len(seasons))}
	for i, s := range seasons {
		resp.Seasons[i] = dto.SeasonResponse{SeasonNo: s.SeasonNo, Label: s.Label}
	}
	if len(resp.Seasons) > 0 {
		resp.Current = &resp.Seasons[0]
	}
	return c.JSON(resp)
}
