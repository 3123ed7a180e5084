package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rahulpatwa/community-events-backend/config"
	"github.com/rahulpatwa/community-events-backend/database"
	"github.com/rahulpatwa/community-events-backend/internal/auditlog"
	"github.com/rahulpatwa/community-events-backend/internal/auth"
	"github.com/rahulpatwa/community-events-backend/internal/event"
	"github.com/rahulpatwa/community-events-backend/internal/eventrsvp"
	"github.com/rahulpatwa/community-events-backend/internal/notification"
	"github.com/rahulpatwa/community-events-backend/routes"
	"github.com/rahulpatwa/community-events-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis (optional, summary caching degrades gracefully)
	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis init failed: %v", err)
		log.Println("ℹ️ Continuing without Redis (summary caching disabled)")
	}

	// Init Kafka
	utils.InitializeKafka(cfg)

	// Init Firebase
	if err := utils.InitFirebase(cfg); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without Firebase (push notifications will be disabled)")
	} else if utils.IsFCMEnabled() {
		log.Println("✅ Firebase and FCM initialized successfully")
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.UserRole{},
		&auth.User{},
		&auditlog.AuditLog{},
		&event.Event{},
		&event.EventOrganizer{},
		&eventrsvp.RSVP{},
		&eventrsvp.Feedback{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed roles
	if err := auth.SeedUserRoles(db); err != nil {
		log.Fatalf("❌ Failed to seed roles: %v", err)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
	if utils.IsFCMEnabled() {
		fmt.Println("✅ Firebase Cloud Messaging enabled")
	} else {
		fmt.Println("ℹ️ Firebase Cloud Messaging disabled")
		if err := utils.GetInitError(); err != nil {
			fmt.Printf("   Reason: %v\n", err)
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
