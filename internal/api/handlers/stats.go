package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/csmc-contest/backend/internal/registration"
	"github.com/csmc-contest/backend/internal/ws"
)

// PublicStats returns registration counts for the event display screen
// (REST fallback for clients without websocket support).
func PublicStats(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := registration.CollectStats(db, false)
		if err != nil {
			log.Printf("[STATS] Failed to collect stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// LiveStats upgrades to a websocket streaming registration-count snapshots.
func LiveStats(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.HandleConnection(c.Writer, c.Request)
	}
}
