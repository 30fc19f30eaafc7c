package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"senflix/internal/config"
	"senflix/internal/models"
)

// NewPostgres opens the PostgreSQL connection, tunes the pool and brings
// the schema up to date.
func NewPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema and seeds lookup data.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Avatar{},
		&models.User{},
		&models.Category{},
		&models.StreamingPlatform{},
		&models.Movie{},
		&models.MovieMetadata{},
		&models.Interaction{},
	); err != nil {
		return err
	}
	return seed(db)
}

// seed inserts the static lookup rows on an empty database. Users pick
// from these at profile creation; they are never mutated at runtime.
func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Avatar{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		avatars := []models.Avatar{
			{Name: "Classic", Filename: "classic.png", Description: "The timeless default"},
			{Name: "Retro", Filename: "retro.png", Description: "VHS never died"},
			{Name: "Noir", Filename: "noir.png", Description: "Black and white, always"},
			{Name: "Popcorn", Filename: "popcorn.png", Description: "Here for the snacks"},
		}
		if err := db.Create(&avatars).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		categories := []models.Category{
			{Name: "New Releases", Img: "new-releases.jpg"},
			{Name: "Action", Img: "action.jpg"},
			{Name: "Comedy", Img: "comedy.jpg"},
			{Name: "Drama", Img: "drama.jpg"},
			{Name: "Horror", Img: "horror.jpg"},
			{Name: "Sci-Fi", Img: "scifi.jpg"},
			{Name: "Documentary", Img: "documentary.jpg"},
		}
		if err := db.Create(&categories).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.StreamingPlatform{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		platforms := []models.StreamingPlatform{
			{Name: "Netflix", URL: "https://www.netflix.com"},
			{Name: "Prime Video", URL: "https://www.primevideo.com"},
			{Name: "Disney+", URL: "https://www.disneyplus.com"},
			{Name: "Apple TV+", URL: "https://tv.apple.com"},
			{Name: "Paramount+", URL: "https://www.paramountplus.com"},
		}
		if err := db.Create(&platforms).Error; err != nil {
			return err
		}
	}

	slog.Info("database migrations completed")
	return nil
}
