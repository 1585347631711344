package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/csmc-contest/backend/internal/admin"
	"github.com/csmc-contest/backend/internal/config"
	"github.com/csmc-contest/backend/internal/registration"
)

// AdminLogin validates organizer credentials and issues a session JWT.
func AdminLogin(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		username := strings.TrimSpace(req.Username)
		account, err := admin.ValidateCredentials(db, username, req.Password)
		if err != nil {
			log.Printf("[ADMIN] Login failed for username %s: %v", username, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		ttl := time.Duration(cfg.AdminTokenTTL) * time.Hour
		token, err := admin.IssueToken(account.Username, cfg.JWTSecret, ttl)
		if err != nil {
			log.Printf("[ADMIN] Failed to issue token for %s: %v", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":        token,
			"display_name": account.DisplayName,
			"expires_in":   int(ttl.Seconds()),
		})
	}
}

// AdminAuthRequired rejects requests without a valid admin bearer token.
func AdminAuthRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		username, err := admin.VerifyToken(strings.TrimPrefix(header, "Bearer "), cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}

// AdminListContestants returns a page of contestants, newest first,
// optionally filtered by category.
func AdminListContestants(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 500 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		categoryFilter := c.Query("category")
		switch categoryFilter {
		case "", "Primary", "Junior", "Senior":
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "category must be Primary, Junior or Senior"})
			return
		}

		contestants, err := registration.ListContestants(db, categoryFilter, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to list contestants: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"contestants": contestants,
			"limit":       limit,
			"offset":      offset,
		})
	}
}

// AdminStats returns per-category registration counts and the current
// sequence counter positions.
func AdminStats(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := registration.CollectStats(db, true)
		if err != nil {
			log.Printf("[ADMIN] Failed to collect stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
