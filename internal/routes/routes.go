package routes

import (
	"time"

	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/handlers"
	"github.com/caresync/caresync/internal/middleware"
	"github.com/caresync/caresync/internal/models"
	"github.com/caresync/caresync/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	recordHandler *handlers.RecordHandler,
	appointmentHandler *handlers.AppointmentHandler,
	metricHandler *handlers.MetricHandler,
	doctorHandler *handlers.DoctorHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", handlers.HealthCheck)

	// Auth — public, with a stricter 10 req/min limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Everything below requires a valid token and an active account.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.CurrentUser(authService))

	// Patient record vault and consent ledger
	records := protected.Group("/records", middleware.RoleRequired(models.RolePatient))
	records.Post("/upload", recordHandler.Upload)
	records.Get("/my-records", recordHandler.MyRecords)
	records.Post("/grant-access", recordHandler.GrantAccess)
	records.Post("/revoke-access", recordHandler.RevokeAccess)

	// Health metrics (patient self-tracking)
	metrics := protected.Group("/health-metrics", middleware.RoleRequired(models.RolePatient))
	metrics.Post("/add", metricHandler.Add)
	metrics.Get("/analysis", metricHandler.Analyze)

	// Appointments are shared between both participants
	appointments := protected.Group("/appointments", middleware.RoleRequired(models.RolePatient, models.RoleDoctor))
	appointments.Post("/create", appointmentHandler.Create)
	appointments.Get("/my-appointments", appointmentHandler.ListMine)
	appointments.Put("/:id/update", appointmentHandler.Update)

	// Doctor views: demographic search plus granted records
	doctors := protected.Group("/doctors", middleware.RoleRequired(models.RoleDoctor))
	doctors.Get("/search-patients", doctorHandler.SearchPatients)
	doctors.Get("/patient-records/:patient_id", doctorHandler.PatientRecords)

	// Admin panel
	admin := protected.Group("/admin", middleware.RoleRequired(models.RoleAdmin))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/statistics", adminHandler.Statistics)
	admin.Get("/audit-logs", adminHandler.AuditLogs)
	admin.Put("/users/:id/deactivate", adminHandler.DeactivateUser)
}
