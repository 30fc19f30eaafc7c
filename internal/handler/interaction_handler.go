package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"senflix/internal/models"
	"senflix/internal/service"
)

// InteractionHandler exposes the per-(user, movie) interaction record.
type InteractionHandler struct {
	svc *service.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler.
func NewInteractionHandler(svc *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// Upsert creates or sparsely updates the interaction between one user and
// one movie. Absent body fields keep their stored value.
func (h *InteractionHandler) Upsert(c fiber.Ctx) error {
	userID, movieID, err := pairIDs(c)
	if err != nil {
		return err
	}

	var upd models.InteractionUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	row, err := h.svc.Upsert(c.Context(), userID, movieID, upd)
	if err != nil {
		if status, msg, ok := interactionError(err); ok {
			return c.Status(status).JSON(ErrorResponse{Error: msg})
		}
		slog.Error("failed to upsert interaction", "user_id", userID, "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save interaction"})
	}
	return c.JSON(row)
}

// Toggle flips one boolean attribute, creating the row when absent.
func (h *InteractionHandler) Toggle(c fiber.Ctx) error {
	userID, movieID, err := pairIDs(c)
	if err != nil {
		return err
	}

	attr, err := models.ParseToggleAttribute(c.Params("attribute"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	res, err := h.svc.Toggle(c.Context(), userID, movieID, attr)
	if err != nil {
		if status, msg, ok := interactionError(err); ok {
			return c.Status(status).JSON(ErrorResponse{Error: msg})
		}
		slog.Error("failed to toggle interaction", "user_id", userID, "movie_id", movieID, "attribute", attr, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to toggle attribute"})
	}
	return c.JSON(res)
}

// Get returns one user's interaction state for one movie.
func (h *InteractionHandler) Get(c fiber.Ctx) error {
	userID, movieID, err := pairIDs(c)
	if err != nil {
		return err
	}

	row, err := h.svc.Get(c.Context(), userID, movieID)
	if err != nil {
		if errors.Is(err, models.ErrInteractionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "interaction not found"})
		}
		slog.Error("failed to get interaction", "user_id", userID, "movie_id", movieID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
	return c.JSON(row)
}

// Remove deletes the interaction row. Removing an absent row still
// succeeds.
func (h *InteractionHandler) Remove(c fiber.Ctx) error {
	userID, movieID, err := pairIDs(c)
	if err != nil {
		return err
	}

	if _, err := h.svc.Remove(c.Context(), userID, movieID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to remove interaction"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func pairIDs(c fiber.Ctx) (uint, uint, error) {
	userID, err := paramID(c, "userId")
	if err != nil {
		return 0, 0, err
	}
	movieID, err := paramID(c, "movieId")
	if err != nil {
		return 0, 0, err
	}
	return userID, movieID, nil
}

// interactionError maps the service's sentinel errors onto HTTP statuses
// shared by the write endpoints.
func interactionError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		return fiber.StatusNotFound, "user not found", true
	case errors.Is(err, models.ErrMovieNotFound):
		return fiber.StatusNotFound, "movie not found", true
	case errors.Is(err, models.ErrInvalidRating):
		return fiber.StatusUnprocessableEntity, err.Error(), true
	}
	return 0, "", false
}
