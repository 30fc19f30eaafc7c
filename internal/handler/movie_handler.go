package handler

import (
	"errors"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v3"

	"senflix/internal/models"
	"senflix/internal/poster"
	"senflix/internal/service"
)

// MovieHandler exposes the catalog, the ranked lists, lazy metadata
// enrichment and poster serving.
type MovieHandler struct {
	catalog      *service.CatalogService
	metadata     *service.MetadataService
	interactions *service.InteractionService
	posters      *poster.Store
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(
	catalog *service.CatalogService,
	metadata *service.MetadataService,
	interactions *service.InteractionService,
	posters *poster.Store,
) *MovieHandler {
	return &MovieHandler{
		catalog:      catalog,
		metadata:     metadata,
		interactions: interactions,
		posters:      posters,
	}
}

// CreateMovie adds a movie to the shared catalog.
func (h *MovieHandler) CreateMovie(c fiber.Ctx) error {
	var req models.CreateMovieRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	movie, err := h.catalog.CreateMovie(c.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNameRequired) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
		}
		slog.Error("failed to create movie", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "failed to create movie"})
	}

	return c.Status(fiber.StatusCreated).JSON(movie)
}

// ListMovies returns the whole catalog.
func (h *MovieHandler) ListMovies(c fiber.Ctx) error {
	movies, err := h.catalog.ListMovies(c.Context())
	if err != nil {
		slog.Error("failed to list movies", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list movies"})
	}
	return c.JSON(movies)
}

// GetMovie returns one movie with associations and any cached metadata.
func (h *MovieHandler) GetMovie(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	movie, err := h.catalog.GetMovie(c.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not found"})
		}
		slog.Error("failed to get movie", "movie_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
	return c.JSON(movie)
}

// UpdateMovie applies a sparse update to a catalog entry.
func (h *MovieHandler) UpdateMovie(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateMovieRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	movie, err := h.catalog.UpdateMovie(c.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMovieNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not found"})
		case errors.Is(err, models.ErrNameRequired):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
		}
		slog.Error("failed to update movie", "movie_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to update movie"})
	}
	return c.JSON(movie)
}

// DeleteMovie removes a movie together with its interactions and metadata.
func (h *MovieHandler) DeleteMovie(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	found, err := h.catalog.DeleteMovie(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to delete movie"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories returns all category lookup rows.
func (h *MovieHandler) ListCategories(c fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list categories"})
	}
	return c.JSON(categories)
}

// ListPlatforms returns all streaming platform lookup rows.
func (h *MovieHandler) ListPlatforms(c fiber.Ctx) error {
	platforms, err := h.catalog.Platforms(c.Context())
	if err != nil {
		slog.Error("failed to list platforms", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list platforms"})
	}
	return c.JSON(platforms)
}

// MoviesByCategory returns the movies linked to one category.
func (h *MovieHandler) MoviesByCategory(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	movies, err := h.catalog.MoviesByCategory(c.Context(), id)
	if err != nil {
		slog.Error("failed to list movies by category", "category_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list movies"})
	}
	return c.JSON(movies)
}

// MoviesByPlatform returns the movies linked to one platform.
func (h *MovieHandler) MoviesByPlatform(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	movies, err := h.catalog.MoviesByPlatform(c.Context(), id)
	if err != nil {
		slog.Error("failed to list movies by platform", "platform_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list movies"})
	}
	return c.JSON(movies)
}

// Popular returns movies ranked by interaction count.
func (h *MovieHandler) Popular(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 10)
	ranked, err := h.catalog.Popular(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list popular movies"})
	}
	return c.JSON(ranked)
}

// TopRated returns movies ranked by mean rating.
func (h *MovieHandler) TopRated(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 10)
	ranked, err := h.catalog.TopRated(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list top rated movies"})
	}
	return c.JSON(ranked)
}

// RecentComments returns movies ordered by freshest comment.
func (h *MovieHandler) RecentComments(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 10)
	ranked, err := h.catalog.RecentComments(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list recently commented movies"})
	}
	return c.JSON(ranked)
}

// NewReleases returns the newest catalog entries by release year.
func (h *MovieHandler) NewReleases(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 10)
	movies, err := h.catalog.NewReleases(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list new releases"})
	}
	return c.JSON(movies)
}

// AverageRating returns the mean rating for one movie.
func (h *MovieHandler) AverageRating(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	avg, err := h.catalog.AverageRating(c.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to compute average rating"})
	}
	return c.JSON(fiber.Map{
		"movie_id":       id,
		"average_rating": avg,
	})
}

// ListRatings returns the rated interactions for one movie, rater included.
func (h *MovieHandler) ListRatings(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ratings, err := h.interactions.RatingsForMovie(c.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrMovieNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not found"})
		}
		slog.Error("failed to list ratings", "movie_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list ratings"})
	}
	return c.JSON(ratings)
}

// GetMetadata returns the movie's enrichment data, fetching it from the
// external provider on first request.
func (h *MovieHandler) GetMetadata(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	md, err := h.metadata.GetOrFetch(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMovieNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not found"})
		case errors.Is(err, models.ErrMetadataUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "metadata unavailable"})
		}
		slog.Error("failed to get metadata", "movie_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
	return c.JSON(md)
}

// GetPoster serves a locally cached poster image.
func (h *MovieHandler) GetPoster(c fiber.Ctx) error {
	filename := c.Params("filename")
	data, err := h.posters.Read(filename)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "poster not found"})
	}
	c.Set(fiber.HeaderContentType, mimetype.Detect(data).String())
	return c.Send(data)
}
