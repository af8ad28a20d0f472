package main

import (
	"log"
	"os"
	"time"

	"cleanops/internal/database"
)

// Deletes expired refresh tokens and revoked ones older than 30 days. Run
// from cron; the API never blocks on this.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	res := db.Exec(`
		DELETE FROM refresh_tokens
		WHERE expires_at < CURRENT_TIMESTAMP
		   OR (revoked_at IS NOT NULL AND created_at < ?)
	`, time.Now().AddDate(0, 0, -30))
	if res.Error != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", res.Error)
	}

	log.Printf("auth cleanup completed: refresh_tokens=%d", res.RowsAffected)
}
