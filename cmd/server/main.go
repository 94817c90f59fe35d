package main

import (
	"context"
	"log"
	"strconv"

	"github.com/artconnect/backend/internal/router"
	"github.com/artconnect/backend/pkg/config"
	"github.com/artconnect/backend/pkg/firebase"
	"github.com/artconnect/backend/pkg/mailer"
	"github.com/artconnect/backend/pkg/storage"
	"github.com/artconnect/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize the notification mailer; it degrades to a logged no-op
	// when SMTP settings are absent
	emailPort, err := strconv.Atoi(cfg.EmailPort)
	if err != nil {
		emailPort = 587
	}
	m := mailer.New(cfg.EmailHost, emailPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailFrom)

	// Initialize the media store; optional for local development
	var mediaStore *storage.MediaStore
	if cfg.CloudinaryURL != "" {
		mediaStore, err = storage.New(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("Failed to initialize media store: %v", err)
		}
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo.Database(cfg.MongoDatabase), firebaseApp.AuthClient, m, mediaStore)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
