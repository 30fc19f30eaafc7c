package models

import "errors"

// Domain errors shared across repositories, services and handlers.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrMetadataNotFound    = errors.New("metadata not found")

	ErrInvalidRating    = errors.New("rating must be between 1 and 10")
	ErrInvalidAttribute = errors.New("unknown toggle attribute")

	ErrNameRequired     = errors.New("name is required")
	ErrWhatsappRequired = errors.New("whatsapp number is required")

	// ErrMetadataUnavailable signals that the external lookup failed or
	// matched nothing. Callers treat it as non-fatal: the movie renders
	// without enrichment and the next request retries.
	ErrMetadataUnavailable = errors.New("metadata unavailable")
)
