package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/rhwbclub/pulse-backend/internal/config"
	"github.com/rhwbclub/pulse-backend/internal/handlers"
	"github.com/rhwbclub/pulse-backend/internal/middleware"
	"github.com/rhwbclub/pulse-backend/internal/roles"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	dir roles.Directory,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	authzHandler *handlers.AuthzHandler,
	rosterHandler *handlers.RosterHandler,
	dashboardHandler *handlers.DashboardHandler,
	feedbackHandler *handlers.FeedbackHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Everything below requires a verified token.
	protected := api.Group("", middleware.JWTProtected(cfg))

	protected.Get("/me", profileHandler.Me)
	protected.Get("/seasons", profileHandler.Seasons)

	// The trust boundary: every server-mediated subject read resolves here.
	protected.Post("/authz/resolve", authzHandler.Resolve)

	protected.Get("/roster", rosterHandler.List)
	protected.Get("/dashboard", dashboardHandler.Get)
	protected.Post("/veer/feedback", feedbackHandler.CreateVeerFeedback)

	// Admin coach catalog for the coach→runner cascade.
	protected.Get("/coaches", middleware.AdminRequired(dir), rosterHandler.Coaches)
}
