package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/database"
	"github.com/caresync/caresync/internal/handlers"
	"github.com/caresync/caresync/internal/logging"
	"github.com/caresync/caresync/internal/middleware"
	"github.com/caresync/caresync/internal/routes"
	"github.com/caresync/caresync/internal/services"
	"github.com/caresync/caresync/internal/vault"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	if cfg.EncryptionKey == "" {
		slog.Error("ENCRYPTION_KEY environment variable is required")
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

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	// System log cleanup (30-day retention; the audit trail is exempt)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		slog.Error("failed to create upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	fileVault, err := vault.New(cfg.EncryptionKey, cfg.MaxFileSize)
	if err != nil {
		slog.Error("invalid ENCRYPTION_KEY", "error", err)
		os.Exit(1)
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	recordService := services.NewRecordService(database.DB, fileVault)
	appointmentService := services.NewAppointmentService(database.DB)
	metricService := services.NewMetricService(database.DB)
	patientService := services.NewPatientService(database.DB)
	adminService := services.NewAdminService(database.DB, cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	recordHandler := handlers.NewRecordHandler(recordService, cfg.UploadDir)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	metricHandler := handlers.NewMetricHandler(metricService)
	doctorHandler := handlers.NewDoctorHandler(recordService, patientService)
	adminHandler := handlers.NewAdminHandler(adminService)

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

	// Fiber app. BodyLimit leaves headroom over the vault's own file
	// size ceiling so oversized uploads get a validation response
	// instead of a dropped connection.
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxFileSize) + 1024*1024,
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
	routes.Setup(app, cfg, authService, authHandler, recordHandler, appointmentHandler, metricHandler, doctorHandler, adminHandler)

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
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
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

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
