package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/csmc-contest/backend/internal/api/handlers"
	"github.com/csmc-contest/backend/internal/config"
	"github.com/csmc-contest/backend/internal/middleware"
	"github.com/csmc-contest/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config, hub *ws.Hub) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	// No-cache headers in development so the form never sees stale state
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Registration endpoints
		v1.POST("/registration", handlers.RegisterContestant(db, rdb, cfg, hub))
		v1.POST("/registration/check", handlers.CheckReturningVisitor(db))

		// Event display stats
		v1.GET("/stats", handlers.PublicStats(db))
		v1.GET("/stats/live", handlers.LiveStats(hub))

		// Organizer dashboard
		adminGroup := v1.Group("/admin")
		{
			adminGroup.POST("/login", handlers.AdminLogin(db, cfg))

			protected := adminGroup.Group("")
			protected.Use(handlers.AdminAuthRequired(cfg))
			{
				protected.GET("/contestants", handlers.AdminListContestants(db))
				protected.GET("/stats", handlers.AdminStats(db))
			}
		}
	}
}
