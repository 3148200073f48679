package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rhwbclub/pulse-backend/internal/authz"
	"github.com/rhwbclub/pulse-backend/internal/dashboard"
	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/httpctx"
	"github.com/rhwbclub/pulse-backend/internal/models"
	"github.com/rhwbclub/pulse-backend/internal/roles"
)

type DashboardHandler struct {
	resolver *authz.Resolver
	queries  dashboard.Queries
	timeout  time.Duration
}

func NewDashboardHandler(resolver *authz.Resolver, queries dashboard.Queries, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{resolver: resolver, queries: queries, timeout: timeout}
}

// Get handles GET /api/dashboard?season=S&subject=E. The resolver runs before
// any widget query; a denial renders as "no data" (all widgets empty), never
// as a distinguishable error.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	caller, err := httpctx.GetEmail(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	season := c.Query("season")
	seasonNo, err := models.ParseSeasonNo(season)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid season",
		})
	}
	subject := roles.Normalize(c.Query("subject"))

	result, err := h.resolver.Authorize(c.UserContext(), caller, subject, seasonNo)
	if err != nil {
		slog.Error("dashboard authorization failed", "user_email", caller, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if result.Denied() {
		return c.JSON(emptyDashboard(season, subject))
	}
	// The widget reads are single-subject; a bulk authorized set needs an
	// explicit subject to narrow it.
	if subject == "" {
		if len(result.AuthorizedEmails) != 1 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Subject is required",
			})
		}
		subject = result.AuthorizedEmails[0]
	}

	orch := dashboard.New(h.queries, h.timeout)
	load := orch.Load(c.UserContext(), dashboard.Subject{SeasonNo: seasonNo, Email: subject})
	<-load.Done()
	state := orch.Snapshot()

	if state.Err != nil {
		slog.Error("primary scores read failed", "user_email", caller, "subject", subject, "error", state.Err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load scores",
		})
	}

	return c.JSON(toDashboardResponse(season, subject, state))
}

func toDashboardResponse(season, subject string, s dashboard.State) dto.DashboardResponse {
	resp := dto.DashboardResponse{
		Season:  season,
		Subject: subject,

		Scores:      s.Scores,
		ScoresEmpty: len(s.Scores) == 0,

		Cumulative:      s.Cumulative,
		CumulativeError: s.CumulativeErr != nil,

		Activity:      s.Activity,
		ActivityEmpty: len(s.Activity) == 0,
		ActivityError: s.ActivityErr != nil,

		Feedback:      s.Feedback,
		FeedbackEmpty: len(s.Feedback) == 0,
		FeedbackError: s.FeedbackErr != nil,
	}
	if resp.Scores == nil {
		resp.Scores = []dashboard.ScoreRow{}
	}
	if resp.Activity == nil {
		resp.Activity = []dashboard.ActivityRow{}
	}
	if resp.Feedback == nil {
		resp.Feedback = []dashboard.FeedbackRow{}
	}
	return resp
}

func emptyDashboard(season, subject string) dto.DashboardResponse {
	return dto.DashboardResponse{
		Season:        season,
		Subject:       subject,
		Scores:        []dashboard.ScoreRow{},
		ScoresEmpty:   true,
		Activity:      []dashboard.ActivityRow{},
		ActivityEmpty: true,
		Feedback:      []dashboard.FeedbackRow{},
		FeedbackEmpty: true,
	}
}
