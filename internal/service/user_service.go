package service

import (
	"context"
	"log/slog"

	"senflix/internal/models"
	"senflix/internal/repository"
)

// UserService handles profile management and the per-user favorites view.
type UserService struct {
	users        *repository.UserRepository
	interactions *repository.InteractionRepository
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, interactions *repository.InteractionRepository) *UserService {
	return &UserService{users: users, interactions: interactions}
}

// CreateUser creates a profile. The avatar defaults to the first seeded
// one when none is picked.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if req.Name == "" || len(req.Name) > 100 {
		return nil, models.ErrNameRequired
	}
	if req.WhatsappNumber == "" || len(req.WhatsappNumber) > 20 {
		return nil, models.ErrWhatsappRequired
	}

	u := &models.User{
		Name:           req.Name,
		WhatsappNumber: req.WhatsappNumber,
		AvatarID:       1,
	}
	if req.AvatarID != nil {
		u.AvatarID = *req.AvatarID
	}

	if err := s.users.Create(ctx, u); err != nil {
		slog.Error("failed to create user", "name", req.Name, "error", err)
		return nil, err
	}
	return u, nil
}

// GetUser returns one profile.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// ListUsers returns all profiles for the selection screen.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes a profile and its interactions.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (bool, error) {
	found, err := s.users.Delete(ctx, id)
	if err != nil {
		slog.Error("failed to delete user", "user_id", id, "error", err)
		return false, err
	}
	return found, nil
}

// Avatars returns the seeded avatar personas.
func (s *UserService) Avatars(ctx context.Context) ([]models.Avatar, error) {
	return s.users.Avatars(ctx)
}

// Favorites returns every movie the user has interacted with, annotated
// with that user's interaction state, newest activity first.
func (s *UserService) Favorites(ctx context.Context, userID uint) ([]models.FavoriteMovie, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.interactions.ForUser(ctx, userID)
	if err != nil {
		slog.Error("failed to load favorites", "user_id", userID, "error", err)
		return nil, err
	}

	favorites := make([]models.FavoriteMovie, 0, len(rows))
	for _, row := range rows {
		if row.Movie == nil {
			continue
		}
		favorites = append(favorites, models.FavoriteMovie{
			Movie:       *row.Movie,
			Watched:     row.Watched,
			OnWatchlist: row.OnWatchlist,
			Favorited:   row.Favorited,
			Rating:      row.Rating,
			Comment:     row.Comment,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return favorites, nil
}
