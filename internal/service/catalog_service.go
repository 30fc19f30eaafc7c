package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"senflix/internal/models"
	"senflix/internal/repository"
)

const (
	listCacheTTL = 2 * time.Minute
	avgCacheTTL  = 10 * time.Minute
)

// CatalogService handles the shared movie catalog and the ranked
// aggregate lists, with an optional Redis cache in front of the latter.
type CatalogService struct {
	movies *repository.MovieRepository
	redis  *redis.Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(movies *repository.MovieRepository, rdb *redis.Client) *CatalogService {
	return &CatalogService{movies: movies, redis: rdb}
}

// CreateMovie validates and inserts a catalog entry, resolving category
// and platform references.
func (s *CatalogService) CreateMovie(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	if req.Name == "" || len(req.Name) > 100 {
		return nil, models.ErrNameRequired
	}

	categories, err := s.movies.CategoriesByID(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	platforms, err := s.movies.PlatformsByID(ctx, req.PlatformIDs)
	if err != nil {
		return nil, err
	}

	m := &models.Movie{
		Name:            req.Name,
		Description:     req.Description,
		ReleaseYear:     req.ReleaseYear,
		DurationMinutes: req.DurationMinutes,
		CategoryID:      req.CategoryID,
		Categories:      categories,
		Platforms:       platforms,
	}
	if err := s.movies.Create(ctx, m); err != nil {
		slog.Error("failed to create movie", "name", req.Name, "error", err)
		return nil, err
	}
	return s.movies.Get(ctx, m.ID)
}

// GetMovie returns one movie with associations and cached metadata.
func (s *CatalogService) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	return s.movies.Get(ctx, id)
}

// ListMovies returns the whole catalog.
func (s *CatalogService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	return s.movies.List(ctx)
}

// UpdateMovie applies a sparse update; nil fields keep their stored
// value, nil ID slices keep the existing associations.
func (s *CatalogService) UpdateMovie(ctx context.Context, id uint, req models.UpdateMovieRequest) (*models.Movie, error) {
	m, err := s.movies.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" || len(*req.Name) > 100 {
			return nil, models.ErrNameRequired
		}
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.ReleaseYear != nil {
		m.ReleaseYear = *req.ReleaseYear
	}
	if req.DurationMinutes != nil {
		m.DurationMinutes = *req.DurationMinutes
	}
	if req.CategoryID != nil {
		m.CategoryID = req.CategoryID
	}

	var categories []models.Category
	if req.CategoryIDs != nil {
		if categories, err = s.movies.CategoriesByID(ctx, req.CategoryIDs); err != nil {
			return nil, err
		}
	}
	var platforms []models.StreamingPlatform
	if req.PlatformIDs != nil {
		if platforms, err = s.movies.PlatformsByID(ctx, req.PlatformIDs); err != nil {
			return nil, err
		}
	}

	if err := s.movies.Update(ctx, m, categories, platforms); err != nil {
		slog.Error("failed to update movie", "movie_id", id, "error", err)
		return nil, err
	}
	return s.movies.Get(ctx, id)
}

// DeleteMovie removes a movie with its interactions and metadata.
func (s *CatalogService) DeleteMovie(ctx context.Context, id uint) (bool, error) {
	found, err := s.movies.Delete(ctx, id)
	if err != nil {
		slog.Error("failed to delete movie", "movie_id", id, "error", err)
		return false, err
	}
	if found {
		s.delCache(ctx, fmt.Sprintf("movies:avg:%d", id))
	}
	return found, nil
}

// MoviesByCategory returns the movies linked to one category.
func (s *CatalogService) MoviesByCategory(ctx context.Context, categoryID uint) ([]models.Movie, error) {
	return s.movies.ByCategory(ctx, categoryID)
}

// MoviesByPlatform returns the movies linked to one platform.
func (s *CatalogService) MoviesByPlatform(ctx context.Context, platformID uint) ([]models.Movie, error) {
	return s.movies.ByPlatform(ctx, platformID)
}

// Categories returns all category lookup rows.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.movies.Categories(ctx)
}

// Platforms returns all platform lookup rows.
func (s *CatalogService) Platforms(ctx context.Context) ([]models.StreamingPlatform, error) {
	return s.movies.Platforms(ctx)
}

// Popular returns movies ranked by interaction count.
func (s *CatalogService) Popular(ctx context.Context, limit int) ([]models.RankedMovie, error) {
	limit = normalizeLimit(limit)
	key := fmt.Sprintf("movies:popular:%d", limit)
	if ranked, ok := s.cachedRanked(ctx, key); ok {
		return ranked, nil
	}
	ranked, err := s.movies.Popular(ctx, limit)
	if err != nil {
		slog.Error("failed to list popular movies", "error", err)
		return nil, err
	}
	s.cacheRanked(ctx, key, ranked)
	return ranked, nil
}

// TopRated returns movies ranked by mean rating, unrated last.
func (s *CatalogService) TopRated(ctx context.Context, limit int) ([]models.RankedMovie, error) {
	limit = normalizeLimit(limit)
	key := fmt.Sprintf("movies:top-rated:%d", limit)
	if ranked, ok := s.cachedRanked(ctx, key); ok {
		return ranked, nil
	}
	ranked, err := s.movies.TopRated(ctx, limit)
	if err != nil {
		slog.Error("failed to list top rated movies", "error", err)
		return nil, err
	}
	s.cacheRanked(ctx, key, ranked)
	return ranked, nil
}

// RecentComments returns movies with the freshest comments first.
func (s *CatalogService) RecentComments(ctx context.Context, limit int) ([]models.RankedMovie, error) {
	limit = normalizeLimit(limit)
	key := fmt.Sprintf("movies:recent-comments:%d", limit)
	if ranked, ok := s.cachedRanked(ctx, key); ok {
		return ranked, nil
	}
	ranked, err := s.movies.RecentComments(ctx, limit)
	if err != nil {
		slog.Error("failed to list recently commented movies", "error", err)
		return nil, err
	}
	s.cacheRanked(ctx, key, ranked)
	return ranked, nil
}

// NewReleases returns the newest movies by release year.
func (s *CatalogService) NewReleases(ctx context.Context, limit int) ([]models.Movie, error) {
	return s.movies.NewReleases(ctx, normalizeLimit(limit))
}

// AverageRating returns the mean rating for one movie, nil when unrated.
// The value is cached and invalidated whenever the movie's interactions
// change.
func (s *CatalogService) AverageRating(ctx context.Context, movieID uint) (*float64, error) {
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("movies:avg:%d", movieID)
	if cached, err := s.getCache(ctx, key); err == nil {
		var avg *float64
		if json.Unmarshal([]byte(cached), &avg) == nil {
			return avg, nil
		}
	}

	avg, err := s.movies.AverageRating(ctx, movieID)
	if err != nil {
		slog.Error("failed to compute average rating", "movie_id", movieID, "error", err)
		return nil, err
	}

	if data, err := json.Marshal(avg); err == nil {
		s.setCache(ctx, key, string(data), avgCacheTTL)
	}
	return avg, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}

func (s *CatalogService) cachedRanked(ctx context.Context, key string) ([]models.RankedMovie, bool) {
	cached, err := s.getCache(ctx, key)
	if err != nil {
		return nil, false
	}
	var ranked []models.RankedMovie
	if err := json.Unmarshal([]byte(cached), &ranked); err != nil {
		return nil, false
	}
	return ranked, true
}

func (s *CatalogService) cacheRanked(ctx context.Context, key string, ranked []models.RankedMovie) {
	if data, err := json.Marshal(ranked); err == nil {
		s.setCache(ctx, key, string(data), listCacheTTL)
	}
}

// Redis helpers; a nil client disables caching entirely.

func (s *CatalogService) getCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", redis.Nil
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *CatalogService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("failed to set cache", "key", key, "error", err)
	}
}

func (s *CatalogService) delCache(ctx context.Context, key string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, key)
}
