package models

import "time"

// CreateUserRequest is the request body for creating a profile.
type CreateUserRequest struct {
	Name           string `json:"name"`
	WhatsappNumber string `json:"whatsapp_number"`
	AvatarID       *uint  `json:"avatar_id,omitempty"`
}

// CreateMovieRequest is the request body for adding a catalog entry.
type CreateMovieRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	ReleaseYear     int    `json:"release_year"`
	DurationMinutes int    `json:"duration_minutes"`
	CategoryID      *uint  `json:"category_id,omitempty"`
	CategoryIDs     []uint `json:"category_ids,omitempty"`
	PlatformIDs     []uint `json:"platform_ids,omitempty"`
}

// UpdateMovieRequest carries a sparse movie update; nil fields are left
// untouched. Nil ID slices keep the existing associations, empty slices
// clear them.
type UpdateMovieRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	ReleaseYear     *int    `json:"release_year,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	CategoryID      *uint   `json:"category_id,omitempty"`
	CategoryIDs     []uint  `json:"category_ids,omitempty"`
	PlatformIDs     []uint  `json:"platform_ids,omitempty"`
}

// InteractionUpdate carries a sparse interaction upsert; nil fields keep
// their stored value.
type InteractionUpdate struct {
	Watched     *bool    `json:"watched,omitempty"`
	OnWatchlist *bool    `json:"on_watchlist,omitempty"`
	Favorited   *bool    `json:"favorited,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Comment     *string  `json:"comment,omitempty"`
}

// ToggleResult reports the flipped attribute plus a snapshot of all three
// flags so clients can update UI state without a second round trip.
type ToggleResult struct {
	Attribute   ToggleAttribute `json:"attribute"`
	Value       bool            `json:"value"`
	Watched     bool            `json:"watched"`
	OnWatchlist bool            `json:"on_watchlist"`
	Favorited   bool            `json:"favorited"`
}

// FavoriteMovie is one entry of a user's favorites view: the movie plus
// that user's interaction state.
type FavoriteMovie struct {
	Movie       Movie     `json:"movie"`
	Watched     bool      `json:"watched"`
	OnWatchlist bool      `json:"on_watchlist"`
	Favorited   bool      `json:"favorited"`
	Rating      *float64  `json:"rating,omitempty"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RankedMovie is a movie annotated with the aggregate that ranked it.
type RankedMovie struct {
	Movie            Movie      `json:"movie"`
	AverageRating    *float64   `json:"average_rating,omitempty"`
	InteractionCount int64      `json:"interaction_count,omitempty"`
	LastCommentAt    *time.Time `json:"last_comment_at,omitempty"`
}
