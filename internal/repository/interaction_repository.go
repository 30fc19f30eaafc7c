package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"senflix/internal/models"
)

// InteractionRepository maintains the single interaction row per
// (user, movie) pair.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

var interactionKey = []clause.Column{{Name: "user_id"}, {Name: "movie_id"}}

// Upsert inserts the interaction row or applies a sparse update: only
// fields set in upd are written, everything else keeps its stored value.
// The write goes through ON CONFLICT so two concurrent first-time writes
// cannot produce a duplicate-row failure.
func (r *InteractionRepository) Upsert(ctx context.Context, userID, movieID uint, upd models.InteractionUpdate) (*models.Interaction, error) {
	row := models.Interaction{UserID: userID, MovieID: movieID}
	assign := map[string]interface{}{}

	if upd.Watched != nil {
		row.Watched = *upd.Watched
		assign["watched"] = *upd.Watched
	}
	if upd.OnWatchlist != nil {
		row.OnWatchlist = *upd.OnWatchlist
		assign["on_watchlist"] = *upd.OnWatchlist
	}
	if upd.Favorited != nil {
		row.Favorited = *upd.Favorited
		assign["favorited"] = *upd.Favorited
	}
	if upd.Rating != nil {
		row.Rating = upd.Rating
		assign["rating"] = *upd.Rating
	}
	if upd.Comment != nil {
		row.Comment = upd.Comment
		assign["comment"] = *upd.Comment
	}

	onConflict := clause.OnConflict{Columns: interactionKey, DoNothing: true}
	if len(assign) > 0 {
		assign["updated_at"] = time.Now().UTC()
		onConflict = clause.OnConflict{Columns: interactionKey, DoUpdates: clause.Assignments(assign)}
	}

	if err := r.db.WithContext(ctx).Clauses(onConflict).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert interaction: %w", err)
	}

	return r.Get(ctx, userID, movieID)
}

// Toggle flips one boolean attribute, creating the row with the attribute
// set true when no interaction exists yet. The flip happens inside the
// ON CONFLICT update so concurrent toggles serialize on the primary key.
func (r *InteractionRepository) Toggle(ctx context.Context, userID, movieID uint, attr models.ToggleAttribute) (*models.Interaction, error) {
	row := models.Interaction{UserID: userID, MovieID: movieID}
	switch attr {
	case models.ToggleWatched:
		row.Watched = true
	case models.ToggleWatchlist:
		row.OnWatchlist = true
	case models.ToggleFavorited:
		row.Favorited = true
	default:
		return nil, models.ErrInvalidAttribute
	}

	col := attr.Column()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: interactionKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			col:          gorm.Expr("NOT interactions." + col),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to toggle %s: %w", attr, err)
	}

	return r.Get(ctx, userID, movieID)
}

// Remove deletes the interaction row if present and reports whether one
// existed. Removing twice is not an error.
func (r *InteractionRepository) Remove(ctx context.Context, userID, movieID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.Interaction{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove interaction: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Get returns the interaction for one (user, movie) pair.
func (r *InteractionRepository) Get(ctx context.Context, userID, movieID uint) (*models.Interaction, error) {
	var row models.Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInteractionNotFound
		}
		return nil, fmt.Errorf("failed to get interaction: %w", err)
	}
	return &row, nil
}

// ForUser returns all of a user's interactions with their movies loaded,
// newest activity first.
func (r *InteractionRepository) ForUser(ctx context.Context, userID uint) ([]models.Interaction, error) {
	var rows []models.Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Movie").
		Preload("Movie.Metadata").
		Preload("Movie.Categories").
		Preload("Movie.Platforms").
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions for user %d: %w", userID, err)
	}
	return rows, nil
}

// RatingsForMovie returns all rated interactions for one movie with the
// rating user (and avatar) loaded, for the detail view.
func (r *InteractionRepository) RatingsForMovie(ctx context.Context, movieID uint) ([]models.Interaction, error) {
	var rows []models.Interaction
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND rating IS NOT NULL", movieID).
		Preload("User").
		Preload("User.Avatar").
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings for movie %d: %w", movieID, err)
	}
	return rows, nil
}
