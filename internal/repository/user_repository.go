package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"senflix/internal/models"
)

// UserRepository handles profile and avatar persistence.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user profile.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	// Reload so the response carries the avatar.
	return r.db.WithContext(ctx).Preload("Avatar").First(u, u.ID).Error
}

// Get returns one user with their avatar.
func (r *UserRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Preload("Avatar").First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

// List returns all user profiles.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var us []models.User
	if err := r.db.WithContext(ctx).Preload("Avatar").Order("name ASC").Find(&us).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return us, nil
}

// Delete removes a user and their interactions in one transaction, same
// explicit-cascade policy as movie deletion.
func (r *UserRepository) Delete(ctx context.Context, id uint) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return found, nil
}

// Avatars returns the seeded avatar lookup rows.
func (r *UserRepository) Avatars(ctx context.Context) ([]models.Avatar, error) {
	var as []models.Avatar
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&as).Error; err != nil {
		return nil, fmt.Errorf("failed to list avatars: %w", err)
	}
	return as, nil
}
