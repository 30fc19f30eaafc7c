package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"senflix/internal/models"
)

func TestAverageRating(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "+4915144444444")
	bob := createTestUser(t, db, "Bob", "+4915155555555")
	rated := createTestMovie(t, db, "Dune", 2021)
	unrated := createTestMovie(t, db, "Tenet", 2020)

	_, err := interactions.Upsert(ctx, alice.ID, rated.ID, models.InteractionUpdate{Rating: ptrFloat(4)})
	require.NoError(t, err)
	_, err = interactions.Upsert(ctx, bob.ID, rated.ID, models.InteractionUpdate{Rating: ptrFloat(5)})
	require.NoError(t, err)

	avg, err := movies.AverageRating(ctx, rated.ID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 4.5, *avg)

	avg, err = movies.AverageRating(ctx, unrated.ID)
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestTopRatedSortsUnratedLast(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "+4915144444444")
	good := createTestMovie(t, db, "Heat", 1995)
	better := createTestMovie(t, db, "Alien", 1979)
	unrated := createTestMovie(t, db, "Tenet", 2020)

	_, err := interactions.Upsert(ctx, alice.ID, good.ID, models.InteractionUpdate{Rating: ptrFloat(8)})
	require.NoError(t, err)
	_, err = interactions.Upsert(ctx, alice.ID, better.ID, models.InteractionUpdate{Rating: ptrFloat(9)})
	require.NoError(t, err)
	_, err = interactions.Upsert(ctx, alice.ID, unrated.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)

	ranked, err := movies.TopRated(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, better.ID, ranked[0].Movie.ID)
	assert.Equal(t, good.ID, ranked[1].Movie.ID)
	assert.Equal(t, unrated.ID, ranked[2].Movie.ID)
	assert.Nil(t, ranked[2].AverageRating)
}

func TestPopularOrdersByInteractionCount(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "+4915144444444")
	bob := createTestUser(t, db, "Bob", "+4915155555555")
	busy := createTestMovie(t, db, "Dune", 2021)
	quiet := createTestMovie(t, db, "Tenet", 2020)

	_, err := interactions.Upsert(ctx, alice.ID, busy.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)
	_, err = interactions.Upsert(ctx, bob.ID, busy.ID, models.InteractionUpdate{OnWatchlist: ptrBool(true)})
	require.NoError(t, err)
	_, err = interactions.Upsert(ctx, alice.ID, quiet.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)

	ranked, err := movies.Popular(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, busy.ID, ranked[0].Movie.ID)
	assert.Equal(t, int64(2), ranked[0].InteractionCount)
	assert.Equal(t, quiet.ID, ranked[1].Movie.ID)
	assert.Equal(t, int64(1), ranked[1].InteractionCount)
}

func TestRecentCommentsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "+4915144444444")
	older := createTestMovie(t, db, "Heat", 1995)
	newer := createTestMovie(t, db, "Dune", 2021)
	silent := createTestMovie(t, db, "Tenet", 2020)

	_, err := interactions.Upsert(ctx, alice.ID, older.ID, models.InteractionUpdate{Comment: ptrString("classic")})
	require.NoError(t, err)
	_, err = interactions.Upsert(ctx, alice.ID, newer.ID, models.InteractionUpdate{Comment: ptrString("stunning")})
	require.NoError(t, err)
	_, err = interactions.Upsert(ctx, alice.ID, silent.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)

	// Pin the comment timestamps so ordering does not depend on clock
	// resolution.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Exec(
		"UPDATE interactions SET updated_at = ? WHERE movie_id = ?", base, older.ID,
	).Error)
	require.NoError(t, db.Exec(
		"UPDATE interactions SET updated_at = ? WHERE movie_id = ?", base.Add(time.Hour), newer.ID,
	).Error)

	ranked, err := movies.RecentComments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, newer.ID, ranked[0].Movie.ID)
	assert.Equal(t, older.ID, ranked[1].Movie.ID)
	require.NotNil(t, ranked[0].LastCommentAt)
}

func TestNewReleasesOrdersByYearThenName(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	ctx := context.Background()

	createTestMovie(t, db, "Heat", 1995)
	createTestMovie(t, db, "Zola", 2021)
	createTestMovie(t, db, "Dune", 2021)

	ms, err := movies.NewReleases(ctx, 3)
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, "Dune", ms[0].Name)
	assert.Equal(t, "Zola", ms[1].Name)
	assert.Equal(t, "Heat", ms[2].Name)
}

func TestDeleteMovieCascades(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	interactions := NewInteractionRepository(db)
	metadata := NewMetadataRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "+4915144444444")
	movie := createTestMovie(t, db, "Dune", 2021)

	linkCategory(t, db, movie, 2)
	_, err := interactions.Upsert(ctx, alice.ID, movie.ID, models.InteractionUpdate{Rating: ptrFloat(9)})
	require.NoError(t, err)
	require.NoError(t, metadata.Upsert(ctx, &models.MovieMetadata{MovieID: movie.ID, IMDbID: "tt1160419"}))

	found, err := movies.Delete(ctx, movie.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = movies.Get(ctx, movie.ID)
	assert.ErrorIs(t, err, models.ErrMovieNotFound)
	_, err = interactions.Get(ctx, alice.ID, movie.ID)
	assert.ErrorIs(t, err, models.ErrInteractionNotFound)
	_, err = metadata.Get(ctx, movie.ID)
	assert.ErrorIs(t, err, models.ErrMetadataNotFound)

	var joins int64
	require.NoError(t, db.Table("movie_categories").Where("movie_id = ?", movie.ID).Count(&joins).Error)
	assert.Zero(t, joins)

	found, err = movies.Delete(ctx, movie.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateReplacesAssociations(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	ctx := context.Background()

	movie := createTestMovie(t, db, "Dune", 2021)
	linkCategory(t, db, movie, 2)

	cats, err := movies.CategoriesByID(ctx, []uint{3, 4})
	require.NoError(t, err)
	require.Len(t, cats, 2)

	movie.Description = "spice"
	require.NoError(t, movies.Update(ctx, movie, cats, nil))

	got, err := movies.Get(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "spice", got.Description)
	require.Len(t, got.Categories, 2)
}

func TestByCategoryFilters(t *testing.T) {
	db := newTestDB(t)
	movies := NewMovieRepository(db)
	ctx := context.Background()

	inCat := createTestMovie(t, db, "Alien", 1979)
	createTestMovie(t, db, "Heat", 1995)
	linkCategory(t, db, inCat, 5)

	ms, err := movies.ByCategory(ctx, 5)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, inCat.ID, ms[0].ID)
}
