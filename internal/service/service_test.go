package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"senflix/internal/database"
	"senflix/internal/models"
	"senflix/internal/omdb"
	"senflix/internal/repository"
)

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

func seedUser(t *testing.T, db *gorm.DB, name, whatsapp string) *models.User {
	t.Helper()
	u := &models.User{Name: name, WhatsappNumber: whatsapp, AvatarID: 1}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedMovie(t *testing.T, db *gorm.DB, name string, year int) *models.Movie {
	t.Helper()
	m := &models.Movie{Name: name, ReleaseYear: year}
	require.NoError(t, db.Create(m).Error)
	return m
}

func newRepos(db *gorm.DB) (*repository.UserRepository, *repository.MovieRepository, *repository.InteractionRepository, *repository.MetadataRepository) {
	return repository.NewUserRepository(db),
		repository.NewMovieRepository(db),
		repository.NewInteractionRepository(db),
		repository.NewMetadataRepository(db)
}

// fakeOMDb counts lookups so tests can assert that cached metadata never
// triggers a network call.
type fakeOMDb struct {
	calls int
	movie *omdb.Movie
	err   error
}

func (f *fakeOMDb) FetchByTitle(ctx context.Context, title string, year int) (*omdb.Movie, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.movie, nil
}

func (f *fakeOMDb) FetchByID(ctx context.Context, imdbID string) (*omdb.Movie, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.movie, nil
}

type fakePosters struct {
	calls    int
	filename string
	err      error
}

func (f *fakePosters) Save(ctx context.Context, posterURL, imdbID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.filename, nil
}

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool { return &v }
func sptr(v string) *string { return &v }
