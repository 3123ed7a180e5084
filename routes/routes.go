package routes

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/rahulpatwa/community-events-backend/config"
	"github.com/rahulpatwa/community-events-backend/database"
	"github.com/rahulpatwa/community-events-backend/internal/auditlog"
	"github.com/rahulpatwa/community-events-backend/internal/auth"
	"github.com/rahulpatwa/community-events-backend/internal/event"
	"github.com/rahulpatwa/community-events-backend/internal/eventrsvp"
	"github.com/rahulpatwa/community-events-backend/internal/notification"
	"github.com/rahulpatwa/community-events-backend/internal/reports"
	"github.com/rahulpatwa/community-events-backend/middleware"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.RateLimiter())     // Global rate limit per IP
	api.Use(middleware.AuditMiddleware()) // Capture client IP for audit entries

	// ========== Initialize Audit Log Module ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RequireRole(auth.RoleAdmin))
	{
		auditRoutes.GET("/", auditHandler.GetAuditLogs)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)
	eventService := event.NewService(eventRepo, auditSvc)
	eventHandler := event.NewHandler(eventService)

	rsvpRepo := eventrsvp.NewRepository(database.DB)
	rsvpService := eventrsvp.NewService(rsvpRepo, auditSvc)
	rsvpHandler := eventrsvp.NewHandler(rsvpService)

	reportsRepo := reports.NewRepository(database.DB)
	reportsService := reports.NewService(reportsRepo, eventService, reports.NewReportExporter())
	reportsHandler := reports.NewHandler(reportsService)

	eventRoutes := protected.Group("/events")
	{
		// Write operations - organizers and admins only
		writeRoutes := eventRoutes.Group("")
		writeRoutes.Use(middleware.RequireRole(auth.RoleOrganizer, auth.RoleAdmin))
		{
			writeRoutes.POST("/", eventHandler.CreateEvent)
			writeRoutes.POST("", eventHandler.CreateEvent)
			writeRoutes.PUT("/:id", eventHandler.UpdateEvent)
			writeRoutes.DELETE("/:id", eventHandler.DeactivateEvent)
		}

		// Read operations - any authenticated user
		eventRoutes.GET("/", eventHandler.ListEvents)
		eventRoutes.GET("/upcoming", eventHandler.GetUpcomingEvents)
		eventRoutes.GET("/mine", eventHandler.GetMyEvents)
		eventRoutes.GET("/stats", eventHandler.GetEventStats)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)

		// Attendance management facade. The organizer gate lives in the
		// service layer (organizer or co-organizer of this event), not in
		// a role middleware.
		eventRoutes.GET("/:id/rsvp", rsvpHandler.GetEventRSVPs)
		eventRoutes.POST("/:id/rsvp", rsvpHandler.ManageRSVP)

		// Attendance and feedback exports (csv, excel, pdf)
		eventRoutes.GET("/:id/reports", reportsHandler.ExportEventReport)
	}

	// ========== Participant RSVP self-service ==========
	rsvpRoutes := protected.Group("/event-rsvps")
	{
		rsvpRoutes.GET("/my", rsvpHandler.GetMyRSVPs)
		rsvpRoutes.POST("/:eventID", rsvpHandler.JoinEvent)
		rsvpRoutes.DELETE("/:eventID", rsvpHandler.LeaveEvent)
		rsvpRoutes.DELETE("/:eventID/waitlist", rsvpHandler.LeaveWaitlist)
	}

	// ========== Notifications ==========
	{
		notificationRepo := notification.NewRepository(database.DB)
		notifSvc := notification.NewService(notificationRepo, notification.NewFCMChannel())
		notificationHandler := notification.NewHandler(notifSvc)

		notificationRoutes := protected.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.GetMyNotifications)
			notificationRoutes.PUT("/read-all", notificationHandler.MarkAllNotificationsRead)
			notificationRoutes.PUT("/:id/read", notificationHandler.MarkNotificationRead)

			// Any authenticated user can register/unregister their own device
			notificationRoutes.POST("/device-tokens", notificationHandler.RegisterDeviceToken)
			notificationRoutes.DELETE("/device-tokens", notificationHandler.RemoveDeviceToken)
		}

		// Consume attendance events published by the RSVP state machine
		notification.StartKafkaConsumer(context.Background(), notifSvc)
	}
}
