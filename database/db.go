package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/akarvir/url-shortener/config"
	"github.com/akarvir/url-shortener/models"
)

const maxConnectAttempts = 5

// Connect opens the Postgres connection and ensures the urls table exists.
// The database is often still starting up alongside the service, so the
// initial connection is retried a few times before giving up.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	var db *gorm.DB
	var err error
	for i := 0; i < maxConnectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxConnectAttempts, err)
		time.Sleep(time.Second * 3)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database after %d attempts: %w", maxConnectAttempts, err)
	}

	log.Println("Connected to database successfully")

	if err := db.AutoMigrate(&models.ShortLink{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Println("Database migration completed")
	return db, nil
}
