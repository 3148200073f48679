// Package httpctx extracts the caller identity from verified JWT claims in
// the Fiber request context.
package httpctx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rhwbclub/pulse-backend/internal/roles"
)

func claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return mc, nil
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	mc, err := claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := mc["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

// GetEmail extracts the caller's lowercased email from JWT claims. It
// identifies the caller only; role decisions are always re-derived server-side.
func GetEmail(c *fiber.Ctx) (string, error) {
	mc, err := claims(c)
	if err != nil {
		return "", err
	}
	email, ok := mc["email"].(string)
	if !ok || email == "" {
		return "", errors.New("missing email claim")
	}
	return roles.Normalize(email), nil
}
