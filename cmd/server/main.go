package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/rhwbclub/pulse-backend/internal/authz"
	"github.com/rhwbclub/pulse-backend/internal/config"
	"github.com/rhwbclub/pulse-backend/internal/dashboard"
	"github.com/rhwbclub/pulse-backend/internal/database"
	"github.com/rhwbclub/pulse-backend/internal/dto"
	"github.com/rhwbclub/pulse-backend/internal/handlers"
	"github.com/rhwbclub/pulse-backend/internal/logging"
	"github.com/rhwbclub/pulse-backend/internal/middleware"
	"github.com/rhwbclub/pulse-backend/internal/roles"
	"github.com/rhwbclub/pulse-backend/internal/roster"
	"github.com/rhwbclub/pulse-backend/internal/routes"
	"github.com/rhwbclub/pulse-backend/internal/services"
	"github.com/rhwbclub/pulse-backend/internal/session"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.EnsureRosterFunction(); err != nil {
		slog.Error("roster function setup failed", "error", err)
		os.Exit(1)
	}

	// Redis (session role/coach-name cache)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Identity, roster and authorization wiring
	directory := roles.NewGormDirectory(database.DB)
	sessionCache := session.NewRedisCache(rdb, cfg.SessionCacheTTL)
	classifier := roles.NewClassifier(directory, sessionCache)
	fetcher := roster.NewFetcher(roster.NewSQLStore(database.DB), cfg.RosterTimeout)
	resolver := authz.NewResolver(directory, fetcher)
	widgetQueries := dashboard.NewGormQueries(database.DB)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	seasonService := services.NewSeasonService(database.DB)
	feedbackService := services.NewFeedbackService(database.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, classifier)
	healthHandler := handlers.NewHealthHandler(rdb)
	profileHandler := handlers.NewProfileHandler(classifier, seasonService)
	authzHandler := handlers.NewAuthzHandler(resolver)
	rosterHandler := handlers.NewRosterHandler(classifier, fetcher)
	dashboardHandler := handlers.NewDashboardHandler(resolver, widgetQueries, cfg.WidgetTimeout)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, directory, authHandler, healthHandler, profileHandler,
		authzHandler, rosterHandler, dashboardHandler, feedbackHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := rdb.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
