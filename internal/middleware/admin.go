package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/httpctx"
	"github.com/rhwbclub/pulse-backend/internal/roles"
)

// AdminRequired gates admin-only endpoints. The role comes from the directory
// on every request, not from a token claim or the session cache.
func AdminRequired(dir roles.Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, err := httpctx.GetEmail(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		roleStr, err := dir.RoleFor(c.UserContext(), email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		if roles.Parse(roleStr) != roles.Admin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
