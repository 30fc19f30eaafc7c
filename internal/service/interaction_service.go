package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"senflix/internal/models"
	"senflix/internal/repository"
)

// InteractionService owns the per-(user, movie) interaction record:
// sparse upserts, attribute toggles and removal.
type InteractionService struct {
	interactions *repository.InteractionRepository
	users        *repository.UserRepository
	movies       *repository.MovieRepository
	redis        *redis.Client
}

// NewInteractionService creates a new InteractionService.
func NewInteractionService(
	interactions *repository.InteractionRepository,
	users *repository.UserRepository,
	movies *repository.MovieRepository,
	rdb *redis.Client,
) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		users:        users,
		movies:       movies,
		redis:        rdb,
	}
}

// Upsert creates or sparsely updates the interaction row. Fields left nil
// in upd keep their stored value, so rating a movie never clobbers an
// earlier comment or watched flag.
func (s *InteractionService) Upsert(ctx context.Context, userID, movieID uint, upd models.InteractionUpdate) (*models.Interaction, error) {
	if upd.Rating != nil && (*upd.Rating < models.RatingMin || *upd.Rating > models.RatingMax) {
		return nil, models.ErrInvalidRating
	}
	if err := s.verifyRefs(ctx, userID, movieID); err != nil {
		return nil, err
	}

	row, err := s.interactions.Upsert(ctx, userID, movieID, upd)
	if err != nil {
		slog.Error("interaction upsert failed", "user_id", userID, "movie_id", movieID, "error", err)
		return nil, err
	}

	s.invalidateAggregates(ctx, movieID)
	return row, nil
}

// Toggle flips one of the three boolean attributes, creating the row with
// the attribute true when absent. Returns the new value plus a snapshot
// of all three flags.
func (s *InteractionService) Toggle(ctx context.Context, userID, movieID uint, attr models.ToggleAttribute) (*models.ToggleResult, error) {
	if err := s.verifyRefs(ctx, userID, movieID); err != nil {
		return nil, err
	}

	row, err := s.interactions.Toggle(ctx, userID, movieID, attr)
	if err != nil {
		slog.Error("interaction toggle failed", "user_id", userID, "movie_id", movieID, "attribute", attr, "error", err)
		return nil, err
	}

	res := &models.ToggleResult{
		Attribute:   attr,
		Watched:     row.Watched,
		OnWatchlist: row.OnWatchlist,
		Favorited:   row.Favorited,
	}
	switch attr {
	case models.ToggleWatched:
		res.Value = row.Watched
	case models.ToggleWatchlist:
		res.Value = row.OnWatchlist
	case models.ToggleFavorited:
		res.Value = row.Favorited
	}
	return res, nil
}

// Remove deletes the interaction row and reports whether one existed.
// Removing an absent row is not an error.
func (s *InteractionService) Remove(ctx context.Context, userID, movieID uint) (bool, error) {
	removed, err := s.interactions.Remove(ctx, userID, movieID)
	if err != nil {
		slog.Error("interaction remove failed", "user_id", userID, "movie_id", movieID, "error", err)
		return false, err
	}
	if removed {
		s.invalidateAggregates(ctx, movieID)
	}
	return removed, nil
}

// Get returns one user's interaction state for one movie.
func (s *InteractionService) Get(ctx context.Context, userID, movieID uint) (*models.Interaction, error) {
	return s.interactions.Get(ctx, userID, movieID)
}

// RatingsForMovie returns all rated interactions for the detail view,
// rating user included.
func (s *InteractionService) RatingsForMovie(ctx context.Context, movieID uint) ([]models.Interaction, error) {
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		return nil, err
	}
	return s.interactions.RatingsForMovie(ctx, movieID)
}

// verifyRefs ensures both sides of the pair exist before any write.
func (s *InteractionService) verifyRefs(ctx context.Context, userID, movieID uint) error {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		return err
	}
	return nil
}

// invalidateAggregates drops the cached rating aggregate for a movie
// after its interactions changed. Ranked lists only carry a short TTL.
func (s *InteractionService) invalidateAggregates(ctx context.Context, movieID uint) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, fmt.Sprintf("movies:avg:%d", movieID)).Err(); err != nil {
		slog.Warn("failed to invalidate rating cache", "movie_id", movieID, "error", err)
	}
}
