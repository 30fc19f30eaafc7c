package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"senflix/internal/models"
)

func TestUpsertSparseUpdateKeepsOtherFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Mia", "+4915111111111")
	movie := createTestMovie(t, db, "Heat", 1995)

	_, err := repo.Upsert(ctx, user.ID, movie.ID, models.InteractionUpdate{
		Watched: ptrBool(true),
		Comment: ptrString("slow burn, worth it"),
	})
	require.NoError(t, err)

	// Rating-only update must not clobber the earlier comment or flag.
	row, err := repo.Upsert(ctx, user.ID, movie.ID, models.InteractionUpdate{
		Rating: ptrFloat(8.5),
	})
	require.NoError(t, err)

	assert.True(t, row.Watched)
	require.NotNil(t, row.Comment)
	assert.Equal(t, "slow burn, worth it", *row.Comment)
	require.NotNil(t, row.Rating)
	assert.Equal(t, 8.5, *row.Rating)
	assert.False(t, row.OnWatchlist)
	assert.False(t, row.Favorited)
}

func TestUpsertNeverDuplicatesRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Mia", "+4915111111111")
	movie := createTestMovie(t, db, "Heat", 1995)

	for i := 0; i < 3; i++ {
		_, err := repo.Upsert(ctx, user.ID, movie.ID, models.InteractionUpdate{Watched: ptrBool(true)})
		require.NoError(t, err)
	}
	// Empty update hits the DO NOTHING path and still returns the row.
	row, err := repo.Upsert(ctx, user.ID, movie.ID, models.InteractionUpdate{})
	require.NoError(t, err)
	assert.True(t, row.Watched)

	var count int64
	require.NoError(t, db.Model(&models.Interaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestToggleCreatesRowWithAttributeTrue(t *testing.T) {
	db := newTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Leo", "+4915122222222")
	movie := createTestMovie(t, db, "Alien", 1979)

	row, err := repo.Toggle(ctx, user.ID, movie.ID, models.ToggleWatchlist)
	require.NoError(t, err)

	assert.True(t, row.OnWatchlist)
	assert.False(t, row.Watched)
	assert.False(t, row.Favorited)
}

func TestToggleTwiceRestoresValue(t *testing.T) {
	db := newTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Leo", "+4915122222222")
	movie := createTestMovie(t, db, "Alien", 1979)

	_, err := repo.Upsert(ctx, user.ID, movie.ID, models.InteractionUpdate{
		Favorited: ptrBool(true),
		Rating:    ptrFloat(9),
	})
	require.NoError(t, err)

	first, err := repo.Toggle(ctx, user.ID, movie.ID, models.ToggleFavorited)
	require.NoError(t, err)
	assert.False(t, first.Favorited)

	second, err := repo.Toggle(ctx, user.ID, movie.ID, models.ToggleFavorited)
	require.NoError(t, err)
	assert.True(t, second.Favorited)

	// The toggle only touches its own column.
	require.NotNil(t, second.Rating)
	assert.Equal(t, float64(9), *second.Rating)
}

func TestRemoveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Nora", "+4915133333333")
	movie := createTestMovie(t, db, "Arrival", 2016)

	_, err := repo.Upsert(ctx, user.ID, movie.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)

	removed, err := repo.Remove(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Get(ctx, user.ID, movie.ID)
	assert.ErrorIs(t, err, models.ErrInteractionNotFound)
}

func TestRatingsForMovieReturnsOnlyRated(t *testing.T) {
	db := newTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "+4915144444444")
	bob := createTestUser(t, db, "Bob", "+4915155555555")
	movie := createTestMovie(t, db, "Dune", 2021)

	_, err := repo.Upsert(ctx, alice.ID, movie.ID, models.InteractionUpdate{Rating: ptrFloat(7)})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, bob.ID, movie.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)

	ratings, err := repo.RatingsForMovie(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, alice.ID, ratings[0].UserID)
	require.NotNil(t, ratings[0].User)
	assert.Equal(t, "Alice", ratings[0].User.Name)
}

func TestForUserLoadsMovies(t *testing.T) {
	db := newTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Mia", "+4915111111111")
	heat := createTestMovie(t, db, "Heat", 1995)
	dune := createTestMovie(t, db, "Dune", 2021)

	_, err := repo.Upsert(ctx, user.ID, heat.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, user.ID, dune.ID, models.InteractionUpdate{OnWatchlist: ptrBool(true)})
	require.NoError(t, err)

	rows, err := repo.ForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.NotNil(t, row.Movie)
	}
}
