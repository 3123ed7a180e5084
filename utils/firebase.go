package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/rahulpatwa/community-events-backend/config"
)

var (
	FirebaseApp    *firebase.App
	FirebaseClient *messaging.Client
	once           sync.Once
	initErr        error
	isInitialized  bool
)

// InitFirebase initializes Firebase Admin SDK and FCM client (singleton pattern)
func InitFirebase(cfg *config.Config) error {
	if isInitialized {
		return initErr
	}

	once.Do(func() {
		ctx := context.Background()

		// GOOGLE_APPLICATION_CREDENTIALS wins, matching the SDK convention
		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			credentialsPath = cfg.FCMCredentialsPath
		}
		if credentialsPath == "" {
			credentialsPath = "./serviceAccountKey.json"
		}

		projectID := cfg.FCMProjectID

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Printf("⚠️ Firebase credentials file not found at: %s", credentialsPath)
			isInitialized = true
			initErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}

		if projectID == "" {
			log.Println("⚠️ FCM_PROJECT_ID not set - FCM will not work properly")
			isInitialized = true
			initErr = fmt.Errorf("FCM_PROJECT_ID is required for FCM")
			return
		}

		config := &firebase.Config{
			ProjectID: projectID,
		}

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, config, opt)
		if err != nil {
			isInitialized = true
			initErr = fmt.Errorf("firebase app initialization failed: %v", err)
			return
		}

		log.Printf("✅ Firebase app initialized for project: %s", projectID)

		fcmClient, err := app.Messaging(ctx)
		if err != nil {
			FirebaseApp = app
			isInitialized = true
			initErr = fmt.Errorf("FCM client unavailable: %v", err)
			return
		}

		FirebaseApp = app
		FirebaseClient = fcmClient
		isInitialized = true
	})

	return initErr
}

// IsFCMEnabled reports whether push notifications can be sent.
func IsFCMEnabled() bool {
	return FirebaseClient != nil
}

// GetInitError returns the initialization error, if any.
func GetInitError() error {
	return initErr
}
