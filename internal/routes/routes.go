package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthconnect-server/internal/config"
	"healthconnect-server/internal/handlers"
	"healthconnect-server/internal/middleware"
	"healthconnect-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, analyzer handlers.Analyzer) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	symptomHandler := handlers.NewSymptomHandler(analyzer)
	feedbackHandler := handlers.NewFeedbackHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		private.GET("/auth/profile", authHandler.GetProfile)

		// AI symptom triage
		private.POST("/symptom-check", symptomHandler.CheckSymptoms)

		// User directory
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/doctors", userHandler.GetDoctors)
			userRoutes.GET("/doctor-patients", userHandler.GetDoctorPatients)
		}

		// Appointment workflow
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Status transitions; who-may-trigger is enforced in the handlers
			appointmentRoutes.PUT("/:id/approve", appointmentHandler.ApproveAppointment)
			appointmentRoutes.PUT("/:id/reject", appointmentHandler.RejectAppointment)
			appointmentRoutes.PUT("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PUT("/:id/complete", appointmentHandler.CompleteAppointment)

			// Negotiation thread
			appointmentRoutes.POST("/:id/messages", appointmentHandler.AppendThreadMessage)
			appointmentRoutes.GET("/:id/messages", appointmentHandler.GetThreadMessages)

			// Feedback on completed appointments
			appointmentRoutes.POST("/:id/feedback", middleware.RoleAuthMiddleware(models.RolePatient), feedbackHandler.SubmitFeedback)
			appointmentRoutes.GET("/:id/feedback", feedbackHandler.GetFeedback)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
