package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/artconnect/backend/internal/handlers"
	"github.com/artconnect/backend/internal/middleware"
	"github.com/artconnect/backend/internal/models"
	"github.com/artconnect/backend/internal/repositories"
	"github.com/artconnect/backend/pkg/mailer"
	"github.com/artconnect/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgdb *mongo.Database, firebaseAuthClient *auth.Client, m *mailer.Mailer, mediaStore *storage.MediaStore) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgdb)
	followRepo := repositories.NewMongoFollowRepository(mgdb)
	purchaseRepo := repositories.NewMongoPurchaseRepository(mgdb)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, postRepo, followRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Engagement routes (likes, comments, shares)
	engagementHandler := handlers.NewEngagementHandler(postRepo)
	engagementHandler.RegisterEngagementRoutes(api)
	log.Println("Engagement routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Purchase routes
	purchaseHandler := handlers.NewPurchaseHandler(purchaseRepo, postRepo, m)
	purchaseHandler.RegisterPurchaseRoutes(api)
	log.Println("Purchase routes configured.")

	// Media storage routes
	if mediaStore != nil {
		storageHandler := handlers.NewStorageHandler(mediaStore)
		storageHandler.RegisterStorageRoutes(api)
		log.Println("Storage routes configured.")
	} else {
		log.Println("Media store not configured, storage routes skipped.")
	}

	log.Println("All routes configured.")
}
