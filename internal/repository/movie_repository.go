package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"senflix/internal/models"
)

// MovieRepository handles catalog reads/writes and the aggregate list
// queries over movies joined against interactions.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts a movie together with any pre-resolved category/platform
// associations.
func (r *MovieRepository) Create(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

// Get returns one movie with categories, platforms and cached metadata.
func (r *MovieRepository) Get(ctx context.Context, id uint) (*models.Movie, error) {
	var m models.Movie
	err := r.withAssociations(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &m, nil
}

// List returns the full catalog with associations loaded.
func (r *MovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	var ms []models.Movie
	if err := r.withAssociations(ctx).Order("name ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return ms, nil
}

// Update persists field changes on a movie and, when the slices are
// non-nil, replaces its category/platform associations.
func (r *MovieRepository) Update(ctx context.Context, m *models.Movie, categories []models.Category, platforms []models.StreamingPlatform) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "Platforms", "Metadata").Save(m).Error; err != nil {
			return fmt.Errorf("failed to update movie %d: %w", m.ID, err)
		}
		if categories != nil {
			if err := tx.Model(m).Association("Categories").Replace(categories); err != nil {
				return fmt.Errorf("failed to replace categories: %w", err)
			}
		}
		if platforms != nil {
			if err := tx.Model(m).Association("Platforms").Replace(platforms); err != nil {
				return fmt.Errorf("failed to replace platforms: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a movie and everything hanging off it: interactions,
// cached metadata and the join rows. The cascade is spelled out here
// instead of relying on database-level cascade configuration so the
// invariant stays visible and testable.
func (r *MovieRepository) Delete(ctx context.Context, id uint) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", id).Delete(&models.MovieMetadata{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM movie_categories WHERE movie_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM movie_platforms WHERE movie_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Movie{}, id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete movie %d: %w", id, err)
	}
	return found, nil
}

// ByCategory returns the movies linked to one category.
func (r *MovieRepository) ByCategory(ctx context.Context, categoryID uint) ([]models.Movie, error) {
	var ms []models.Movie
	err := r.withAssociations(ctx).
		Joins("INNER JOIN movie_categories mc ON mc.movie_id = movies.id").
		Where("mc.category_id = ?", categoryID).
		Order("movies.name ASC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies for category %d: %w", categoryID, err)
	}
	return ms, nil
}

// ByPlatform returns the movies linked to one streaming platform.
func (r *MovieRepository) ByPlatform(ctx context.Context, platformID uint) ([]models.Movie, error) {
	var ms []models.Movie
	err := r.withAssociations(ctx).
		Joins("INNER JOIN movie_platforms mp ON mp.movie_id = movies.id").
		Where("mp.platform_id = ?", platformID).
		Order("movies.name ASC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies for platform %d: %w", platformID, err)
	}
	return ms, nil
}

// Categories returns all category lookup rows.
func (r *MovieRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cs, nil
}

// Platforms returns all streaming platform lookup rows.
func (r *MovieRepository) Platforms(ctx context.Context) ([]models.StreamingPlatform, error) {
	var ps []models.StreamingPlatform
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	return ps, nil
}

// CategoriesByID resolves category IDs to rows.
func (r *MovieRepository) CategoriesByID(ctx context.Context, ids []uint) ([]models.Category, error) {
	cs := []models.Category{}
	if len(ids) == 0 {
		return cs, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	return cs, nil
}

// PlatformsByID resolves platform IDs to rows.
func (r *MovieRepository) PlatformsByID(ctx context.Context, ids []uint) ([]models.StreamingPlatform, error) {
	ps := []models.StreamingPlatform{}
	if len(ids) == 0 {
		return ps, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve platforms: %w", err)
	}
	return ps, nil
}

// rankedRow is the scan target for the aggregate queries below.
type rankedRow struct {
	ID               uint
	InteractionCount int64
	AvgRating        *float64
	LastCommentAt    time.Time
}

// Popular returns movies ranked by how many users interacted with them.
// Ties break arbitrarily.
func (r *MovieRepository) Popular(ctx context.Context, limit int) ([]models.RankedMovie, error) {
	var rows []rankedRow
	err := r.db.WithContext(ctx).
		Table("movies").
		Select("movies.id AS id, COUNT(interactions.user_id) AS interaction_count").
		Joins("LEFT JOIN interactions ON interactions.movie_id = movies.id").
		Group("movies.id").
		Order("interaction_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query popular movies: %w", err)
	}

	movies, err := r.moviesByIDOrdered(ctx, rows)
	if err != nil {
		return nil, err
	}
	ranked := make([]models.RankedMovie, 0, len(rows))
	for i, row := range rows {
		ranked = append(ranked, models.RankedMovie{Movie: movies[i], InteractionCount: row.InteractionCount})
	}
	return ranked, nil
}

// TopRated returns movies ranked by mean non-null rating; movies with no
// ratings sort last rather than counting as zero. The null handling
// matches AverageRating exactly.
func (r *MovieRepository) TopRated(ctx context.Context, limit int) ([]models.RankedMovie, error) {
	var rows []rankedRow
	err := r.db.WithContext(ctx).
		Table("movies").
		Select("movies.id AS id, AVG(interactions.rating) AS avg_rating").
		Joins("LEFT JOIN interactions ON interactions.movie_id = movies.id").
		Group("movies.id").
		Order("avg_rating IS NULL, avg_rating DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated movies: %w", err)
	}

	movies, err := r.moviesByIDOrdered(ctx, rows)
	if err != nil {
		return nil, err
	}
	ranked := make([]models.RankedMovie, 0, len(rows))
	for i, row := range rows {
		ranked = append(ranked, models.RankedMovie{Movie: movies[i], AverageRating: roundPtr(row.AvgRating)})
	}
	return ranked, nil
}

// RecentComments returns movies carrying a non-empty comment, ordered by
// the latest comment update.
func (r *MovieRepository) RecentComments(ctx context.Context, limit int) ([]models.RankedMovie, error) {
	var rows []rankedRow
	err := r.db.WithContext(ctx).
		Table("interactions").
		Select("interactions.movie_id AS id, MAX(interactions.updated_at) AS last_comment_at").
		Where("interactions.comment IS NOT NULL AND interactions.comment <> ''").
		Group("interactions.movie_id").
		Order("last_comment_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recently commented movies: %w", err)
	}

	movies, err := r.moviesByIDOrdered(ctx, rows)
	if err != nil {
		return nil, err
	}
	ranked := make([]models.RankedMovie, 0, len(rows))
	for i, row := range rows {
		t := row.LastCommentAt
		ranked = append(ranked, models.RankedMovie{Movie: movies[i], LastCommentAt: &t})
	}
	return ranked, nil
}

// NewReleases returns movies by release year descending with a name
// tiebreak so pagination stays stable.
func (r *MovieRepository) NewReleases(ctx context.Context, limit int) ([]models.Movie, error) {
	var ms []models.Movie
	err := r.withAssociations(ctx).
		Order("release_year DESC, name ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query new releases: %w", err)
	}
	return ms, nil
}

// AverageRating returns the mean of all non-null ratings for one movie,
// or nil when nobody has rated it.
func (r *MovieRepository) AverageRating(ctx context.Context, movieID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Select("AVG(rating)").
		Where("movie_id = ? AND rating IS NOT NULL", movieID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average rating for movie %d: %w", movieID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return roundPtr(&avg.Float64), nil
}

func (r *MovieRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Platforms").
		Preload("Metadata")
}

// moviesByIDOrdered loads the movies referenced by rows, associations
// included, preserving the ranking order.
func (r *MovieRepository) moviesByIDOrdered(ctx context.Context, rows []rankedRow) ([]models.Movie, error) {
	if len(rows) == 0 {
		return []models.Movie{}, nil
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var ms []models.Movie
	if err := r.withAssociations(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to load ranked movies: %w", err)
	}
	byID := make(map[uint]models.Movie, len(ms))
	for _, m := range ms {
		byID[m.ID] = m
	}
	ordered := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, byID[id])
	}
	return ordered, nil
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}
