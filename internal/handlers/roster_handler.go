package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/httpctx"
	"github.com/rhwbclub/pulse-backend/internal/models"
	"github.com/rhwbclub/pulse-backend/internal/roles"
	"github.com/rhwbclub/pulse-backend/internal/roster"
)

type RosterHandler struct {
	classifier *roles.Classifier
	fetcher    *roster.Fetcher
}

func NewRosterHandler(classifier *roles.Classifier, fetcher *roster.Fetcher) *RosterHandler {
	return &RosterHandler{classifier: classifier, fetcher: fetcher}
}

// List handles GET /api/roster?season=S[&coach=C]. Coaches and hybrids always
// get their own roster regardless of the coach parameter; only admins may
// choose the coach. An empty roster is a valid "no athletes available" state.
func (h *RosterHandler) List(c *fiber.Ctx) error {
	caller, err := httpctx.GetEmail(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	seasonNo, err := models.ParseSeasonNo(c.Query("season"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid season",
		})
	}

	cl := h.classifier.Classify(c.UserContext(), caller)

	coachName := ""
	switch cl.Role {
	case roles.Coach, roles.Hybrid:
		coachName = cl.CoachName
	case roles.Admin:
		coachName = c.Query("coach")
		if coachName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Coach is required",
			})
		}
	case roles.Athlete:
		return c.JSON(dto.RosterResponse{Entries: []dto.RosterEntryResponse{}, NoAthletes: true})
	}

	entries, err := h.fetcher.Fetch(c.UserContext(), cl.Role, seasonNo, coachName)
	if err != nil {
		slog.Error("roster fetch failed", "user_email", caller, "season_no", seasonNo, "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Roster temporarily unavailable, please retry",
		})
	}

	resp := dto.RosterResponse{
		Entries:    make([]dto.RosterEntryResponse, len(entries)),
		NoAthletes: len(entries) == 0,
	}
	for i, e := range entries {
		resp.Entries[i] = dto.RosterEntryResponse{Email: e.Email, DisplayName: e.DisplayName}
	}
	return c.JSON(resp)
}

// Coaches handles GET /api/coaches (admin only, gated by middleware): the
// first step of the admin coach→runner cascade.
func (h *RosterHandler) Coaches(c *fiber.Ctx) error {
	names, err := h.fetcher.Coaches(c.UserContext())
	if err != nil {
		slog.Error("coach list failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Coach list temporarily unavailable, please retry",
		})
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(dto.CoachesResponse{Coaches: names})
}
