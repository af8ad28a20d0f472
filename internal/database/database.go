package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the cgo-free "sqlite" database/sql driver that Connect names.
	_ "modernc.org/sqlite"

	"cleanops/internal/repository"
)

// Connect opens Postgres when the DSN looks like a postgres URL, otherwise a
// local SQLite file (":memory:" works for tests).
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate applies the schema for every table the service owns. Packages that
// keep their own row models (uploads) pass them as extras.
func Migrate(db *gorm.DB, extras ...interface{}) error {
	return db.AutoMigrate(append(repository.AllModels(), extras...)...)
}
