package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"senflix/internal/models"
	"senflix/internal/service"
)

// UserHandler exposes profile management and the favorites view.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUser creates a new profile.
func (h *UserHandler) CreateUser(c fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	user, err := h.svc.CreateUser(c.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrNameRequired) || errors.Is(err, models.ErrWhatsappRequired) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
		}
		slog.Error("failed to create user", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// ListUsers returns all profiles.
func (h *UserHandler) ListUsers(c fiber.Ctx) error {
	users, err := h.svc.ListUsers(c.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list users"})
	}
	return c.JSON(users)
}

// GetUser returns one profile by ID.
func (h *UserHandler) GetUser(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.svc.GetUser(c.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "user not found"})
		}
		slog.Error("failed to get user", "user_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
	return c.JSON(user)
}

// DeleteUser removes a profile and its interactions.
func (h *UserHandler) DeleteUser(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	found, err := h.svc.DeleteUser(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to delete user"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "user not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAvatars returns the selectable avatar personas.
func (h *UserHandler) ListAvatars(c fiber.Ctx) error {
	avatars, err := h.svc.Avatars(c.Context())
	if err != nil {
		slog.Error("failed to list avatars", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list avatars"})
	}
	return c.JSON(avatars)
}

// GetFavorites returns the user's movies with their interaction state.
func (h *UserHandler) GetFavorites(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	favorites, err := h.svc.Favorites(c.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "user not found"})
		}
		slog.Error("failed to get favorites", "user_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get favorites"})
	}
	return c.JSON(fiber.Map{
		"user_id":   id,
		"favorites": favorites,
	})
}
