package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"senflix/internal/models"
)

func TestCreateUserLoadsAvatar(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Name: "Mia", WhatsappNumber: "+4915111111111", AvatarID: 2}
	require.NoError(t, repo.Create(ctx, u))

	require.NotNil(t, u.Avatar)
	assert.Equal(t, uint(2), u.Avatar.ID)
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.Get(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestDeleteUserCascadesInteractions(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Mia", "+4915111111111")
	movie := createTestMovie(t, db, "Heat", 1995)
	_, err := interactions.Upsert(ctx, user.ID, movie.ID, models.InteractionUpdate{Watched: ptrBool(true)})
	require.NoError(t, err)

	found, err := users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = interactions.Get(ctx, user.ID, movie.ID)
	assert.ErrorIs(t, err, models.ErrInteractionNotFound)

	found, err = users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAvatarsAreSeeded(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	avatars, err := repo.Avatars(context.Background())
	require.NoError(t, err)
	assert.Len(t, avatars, 4)
}
