package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"senflix/internal/database"
	"senflix/internal/models"
)

// newTestDB opens an in-memory SQLite database with the full schema and
// seed data. A single connection keeps every query on the same in-memory
// instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, whatsapp string) *models.User {
	t.Helper()
	u := &models.User{Name: name, WhatsappNumber: whatsapp, AvatarID: 1}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestMovie(t *testing.T, db *gorm.DB, name string, year int) *models.Movie {
	t.Helper()
	m := &models.Movie{Name: name, ReleaseYear: year, DurationMinutes: 120}
	require.NoError(t, db.Create(m).Error)
	return m
}

func ptrBool(b bool) *bool { return &b }
func ptrFloat(f float64) *float64 { return &f }
func ptrString(s string) *string { return &s }

func linkCategory(t *testing.T, db *gorm.DB, m *models.Movie, categoryID uint) {
	t.Helper()
	var cat models.Category
	require.NoError(t, db.First(&cat, categoryID).Error)
	require.NoError(t, db.Model(m).Association("Categories").Append(&cat))
}
