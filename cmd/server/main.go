package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/csmc-contest/backend/internal/api"
	"github.com/csmc-contest/backend/internal/config"
	"github.com/csmc-contest/backend/internal/database"
	"github.com/csmc-contest/backend/internal/migrations"
	"github.com/csmc-contest/backend/internal/redis"
	"github.com/csmc-contest/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis (optional: rate limiting and live-stats relay)
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Printf("[REDIS] Not available (%v), rate limiting and cross-instance stats disabled", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// Start the live-stats hub for the event display screen
	hub := ws.NewHub(db)
	hub.StartRegistrationSubscriber(context.Background(), rdb)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	// Catch-all: anything that escapes handler error mapping surfaces as a
	// generic UNKNOWN_ERROR without internal detail
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("[PANIC] %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"message": "Unknown error", "code": "UNKNOWN_ERROR"},
		})
	}))

	// Initialize API handlers
	api.SetupRoutes(router, db, rdb, cfg, hub)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting CSMC registration server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
