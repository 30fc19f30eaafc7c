package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"senflix/internal/models"
)

// MetadataRepository persists externally fetched movie metadata, one row
// per movie.
type MetadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository creates a new MetadataRepository.
func NewMetadataRepository(db *gorm.DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

// Get returns the cached metadata for a movie.
func (r *MetadataRepository) Get(ctx context.Context, movieID uint) (*models.MovieMetadata, error) {
	var md models.MovieMetadata
	err := r.db.WithContext(ctx).Where("movie_id = ?", movieID).First(&md).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMetadataNotFound
		}
		return nil, fmt.Errorf("failed to get metadata for movie %d: %w", movieID, err)
	}
	return &md, nil
}

// Upsert writes the metadata row. Two requests racing to fetch the same
// never-before-seen movie both land here; the conflict clause turns the
// loser's insert into an update instead of a duplicate-key failure.
func (r *MetadataRepository) Upsert(ctx context.Context, md *models.MovieMetadata) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}},
		UpdateAll: true,
	}).Create(md).Error
	if err != nil {
		return fmt.Errorf("failed to upsert metadata for movie %d: %w", md.MovieID, err)
	}
	return nil
}
