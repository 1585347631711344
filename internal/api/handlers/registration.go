package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/csmc-contest/backend/internal/config"
	"github.com/csmc-contest/backend/internal/models"
	"github.com/csmc-contest/backend/internal/registration"
	"github.com/csmc-contest/backend/internal/validation"
	"github.com/csmc-contest/backend/internal/ws"
)

// errorResponse builds the structured error body shared by all registration
// endpoints.
func errorResponse(c *gin.Context, status int, message, code string, extras gin.H) {
	body := gin.H{"message": message, "code": code}
	for k, v := range extras {
		body[k] = v
	}
	c.JSON(status, gin.H{"success": false, "error": body})
}

// RegisterContestant handles POST /registration: validate, duplicate-check,
// then one atomic transaction allocating the username and persisting the
// contestant with its device link.
func RegisterContestant(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegistrationRequest
		if err := c.BindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", gin.H{
				"details": []validation.FieldIssue{{Field: "body", Issue: "Request body must be valid JSON"}},
			})
			return
		}

		if issues := validation.ValidateRegistration(&req); len(issues) > 0 {
			errorResponse(c, http.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", gin.H{
				"details": issues,
			})
			return
		}

		ctx := context.Background()

		// Rate limit per device (best effort, skipped without redis)
		if rdb != nil && cfg.RegistrationRateLimitSeconds > 0 {
			key := fmt.Sprintf("reg_rate:%s", req.DeviceFingerprint)
			ok, err := rdb.SetNX(ctx, key, "1", time.Duration(cfg.RegistrationRateLimitSeconds)*time.Second).Result()
			if err == nil && !ok {
				errorResponse(c, http.StatusTooManyRequests, "Too many registration attempts, please wait", "RATE_LIMITED", nil)
				return
			}
		}

		record, err := registration.Register(db, &req)
		if err != nil {
			var conflict *registration.ConflictError
			switch {
			case errors.As(err, &conflict):
				extras := gin.H{"existingUsername": nil}
				if conflict.ExistingUsername != "" {
					extras["existingUsername"] = conflict.ExistingUsername
				}
				errorResponse(c, http.StatusConflict, conflict.Message, conflict.Code, extras)
			case errors.Is(err, registration.ErrSequenceUpdateFailed),
				errors.Is(err, registration.ErrSequenceExhausted):
				log.Printf("[REG] Username generation failed: %v", err)
				errorResponse(c, http.StatusInternalServerError, "Username generation failed", "USERNAME_GENERATION_FAILED", nil)
			default:
				log.Printf("[REG] Registration failed: %v", err)
				errorResponse(c, http.StatusInternalServerError, "Database error", "DATABASE_ERROR", nil)
			}
			return
		}

		ws.AnnounceRegistration(ctx, rdb, record.Username)
		if hub != nil && rdb == nil {
			// No redis to relay through; update local display clients directly.
			hub.Broadcast()
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": record})
	}
}

// CheckReturningVisitor handles POST /registration/check: map a device
// fingerprint to its prior registration. An unknown fingerprint is a normal
// outcome, never an error.
func CheckReturningVisitor(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DeviceFingerprint string `json:"deviceFingerprint"`
		}
		if err := c.BindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "Request body must be valid JSON", "VALIDATION_ERROR", nil)
			return
		}

		if issue := validation.ValidateFingerprint(req.DeviceFingerprint); issue != "" {
			errorResponse(c, http.StatusBadRequest, issue, "VALIDATION_ERROR", nil)
			return
		}

		record, err := registration.FindByFingerprint(db, req.DeviceFingerprint)
		if err != nil {
			log.Printf("[REG] Returning-visitor check failed: %v", err)
			errorResponse(c, http.StatusInternalServerError, "Failed to check registration status", "DATABASE_ERROR", nil)
			return
		}

		if record == nil {
			c.JSON(http.StatusOK, gin.H{"isReturning": false})
			return
		}

		c.JSON(http.StatusOK, gin.H{"isReturning": true, "registration": record})
	}
}
