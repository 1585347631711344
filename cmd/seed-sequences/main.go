package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/csmc-contest/backend/internal/admin"
	"github.com/csmc-contest/backend/internal/config"
	"github.com/csmc-contest/backend/internal/database"
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

	// Seed one counter row per category. Idempotent: existing counters keep
	// their current value.
	result, err := db.Exec(`
		INSERT INTO username_sequences (category, current_number)
		VALUES ('P', 0), ('J', 0), ('S', 0)
		ON CONFLICT (category) DO NOTHING
	`)
	if err != nil {
		log.Fatalf("Failed to seed username sequences: %v", err)
	}
	inserted, _ := result.RowsAffected()
	log.Printf("✓ Username sequences seeded (%d new rows)", inserted)

	// Seed the organizer account when a password is configured
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin account seeding")
		return
	}

	username := cfg.AdminUsername
	if err := admin.CreateAdminAccount(db, username, "Organizer", password); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("✓ Admin account created/updated successfully")
	log.Printf("  Username: %s", username)
	log.Println("\nYou can now login at /api/v1/admin/login")
}
