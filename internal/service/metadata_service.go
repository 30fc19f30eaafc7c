package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"senflix/internal/models"
	"senflix/internal/omdb"
	"senflix/internal/repository"
)

// OMDbClient is the outbound metadata lookup used by MetadataService.
type OMDbClient interface {
	FetchByTitle(ctx context.Context, title string, year int) (*omdb.Movie, error)
	FetchByID(ctx context.Context, imdbID string) (*omdb.Movie, error)
}

// PosterStore persists a poster image and returns its local filename.
type PosterStore interface {
	Save(ctx context.Context, posterURL, imdbID string) (string, error)
}

// MetadataService ensures a movie has enrichment data without refetching
// on every request. Cached rows are permanent: there is no TTL, and a
// failed lookup is never cached, so unmatched movies retry on the next
// request.
type MetadataService struct {
	movies   *repository.MovieRepository
	metadata *repository.MetadataRepository
	client   OMDbClient
	posters  PosterStore
}

// NewMetadataService creates a new MetadataService.
func NewMetadataService(
	movies *repository.MovieRepository,
	metadata *repository.MetadataRepository,
	client OMDbClient,
	posters PosterStore,
) *MetadataService {
	return &MetadataService{
		movies:   movies,
		metadata: metadata,
		client:   client,
		posters:  posters,
	}
}

// GetOrFetch returns the cached metadata for a movie, fetching and
// persisting it on a miss. A cache hit performs no network call. Lookup
// failures surface as ErrMetadataUnavailable, which callers must treat
// as non-fatal: a detail view renders without enrichment.
func (s *MetadataService) GetOrFetch(ctx context.Context, movieID uint) (*models.MovieMetadata, error) {
	md, err := s.metadata.Get(ctx, movieID)
	if err == nil {
		return md, nil
	}
	if !errors.Is(err, models.ErrMetadataNotFound) {
		return nil, err
	}

	movie, err := s.movies.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}

	result, err := s.client.FetchByTitle(ctx, movie.Name, movie.ReleaseYear)
	if err != nil {
		slog.Warn("metadata fetch failed", "movie_id", movieID, "title", movie.Name, "error", err)
		return nil, fmt.Errorf("%w: %v", models.ErrMetadataUnavailable, err)
	}

	md = fromOMDb(movieID, result)

	// Poster failures are non-fatal; the row is stored without a file.
	filename, err := s.posters.Save(ctx, result.PosterURL, result.IMDbID)
	if err != nil {
		slog.Warn("poster save failed", "movie_id", movieID, "imdb_id", result.IMDbID, "error", err)
	} else {
		md.PosterFile = filename
	}

	// A concurrent request may have fetched the same movie in the
	// meantime; the repository upsert turns that race into an update.
	if err := s.metadata.Upsert(ctx, md); err != nil {
		slog.Error("failed to persist metadata", "movie_id", movieID, "error", err)
		return nil, err
	}

	slog.Info("metadata fetched", "movie_id", movieID, "imdb_id", md.IMDbID)
	return md, nil
}

func fromOMDb(movieID uint, m *omdb.Movie) *models.MovieMetadata {
	return &models.MovieMetadata{
		MovieID:           movieID,
		IMDbID:            m.IMDbID,
		Title:             m.Title,
		Year:              m.Year,
		Rated:             m.Rated,
		Released:          m.Released,
		Runtime:           m.Runtime,
		Genre:             m.Genre,
		Director:          m.Director,
		Writer:            m.Writer,
		Actors:            m.Actors,
		Plot:              m.Plot,
		Language:          m.Language,
		Country:           m.Country,
		Awards:            m.Awards,
		ExternalPosterURL: m.PosterURL,
		IMDbRating:        m.IMDbRating,
		RottenTomatoes:    m.RottenTomatoes,
		Metacritic:        m.Metacritic,
		Type:              m.Type,
		BoxOffice:         m.BoxOffice,
		Production:        m.Production,
		Website:           m.Website,
	}
}
