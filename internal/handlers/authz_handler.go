package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/rhwbclub/pulse-backend/internal/authz"
	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/httpctx"
	"github.com/rhwbclub/pulse-backend/internal/models"
)

type AuthzHandler struct {
	resolver *authz.Resolver
}

func NewAuthzHandler(resolver *authz.Resolver) *AuthzHandler {
	return &AuthzHandler{resolver: resolver}
}

// Resolve handles POST /api/authz/resolve. Authorization denials are 200
// responses with an empty list; only malformed input and auth failures get
// distinct status codes.
func (h *AuthzHandler) Resolve(c *fiber.Ctx) error {
	caller, err := httpctx.GetEmail(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	seasonNo, err := models.ParseSeasonNo(req.Season)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid season",
		})
	}

	result, err := h.resolver.Authorize(c.UserContext(), caller, req.RequestedSubjectEmail, seasonNo)
	if err != nil {
		slog.Error("authorization resolution failed", "user_email", caller, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.ResolveResponse{AuthorizedEmails: result.AuthorizedEmails})
}
