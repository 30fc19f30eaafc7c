package models

import "time"

// Avatar is a selectable profile persona. Seeded, shared by many users.
type Avatar struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Filename    string `gorm:"size:255;not null" json:"filename"`
	Description string `gorm:"size:255" json:"description"`
}

func (Avatar) TableName() string { return "avatars" }

// User is a profile in the shared household catalog.
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"size:100;not null" json:"name"`
	WhatsappNumber string  `gorm:"size:20;uniqueIndex;not null" json:"whatsapp_number"`
	AvatarID       uint    `gorm:"not null;default:1" json:"avatar_id"`
	Avatar         *Avatar `gorm:"foreignKey:AvatarID" json:"avatar,omitempty"`
}

func (User) TableName() string { return "users" }

// Movie is a catalog entry. Metadata is absent until the first successful
// external fetch.
type Movie struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	Name            string              `gorm:"size:100;not null" json:"name"`
	Description     string              `gorm:"type:text" json:"description"`
	ReleaseYear     int                 `gorm:"index" json:"release_year"`
	DurationMinutes int                 `json:"duration_minutes"`
	CategoryID      *uint               `json:"category_id,omitempty"`
	Categories      []Category          `gorm:"many2many:movie_categories" json:"categories,omitempty"`
	Platforms       []StreamingPlatform `gorm:"many2many:movie_platforms" json:"platforms,omitempty"`
	Metadata        *MovieMetadata      `gorm:"foreignKey:MovieID" json:"metadata,omitempty"`
}

func (Movie) TableName() string { return "movies" }

// Category is a genre lookup entity.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;not null" json:"name"`
	Img  string `gorm:"size:255" json:"img"`
}

func (Category) TableName() string { return "categories" }

// StreamingPlatform is a lookup entity for where a movie can be watched.
type StreamingPlatform struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	URL  string `gorm:"size:255" json:"url"`
}

func (StreamingPlatform) TableName() string { return "streaming_platforms" }

// MovieMetadata is the locally cached result of an external OMDb lookup,
// one row per movie. PosterFile is the locally stored poster filename and
// stays empty when the download failed.
type MovieMetadata struct {
	MovieID           uint     `gorm:"primaryKey" json:"movie_id"`
	IMDbID            string   `gorm:"column:imdb_id;size:20" json:"imdb_id"`
	Title             string   `gorm:"size:255" json:"title"`
	Year              string   `gorm:"size:10" json:"year"`
	Rated             string   `gorm:"size:10" json:"rated"`
	Released          string   `gorm:"size:20" json:"released"`
	Runtime           string   `gorm:"size:20" json:"runtime"`
	Genre             string   `gorm:"size:100" json:"genre"`
	Director          string   `gorm:"size:255" json:"director"`
	Writer            string   `gorm:"size:255" json:"writer"`
	Actors            string   `gorm:"size:255" json:"actors"`
	Plot              string   `gorm:"type:text" json:"plot"`
	Language          string   `gorm:"size:50" json:"language"`
	Country           string   `gorm:"size:50" json:"country"`
	Awards            string   `gorm:"size:255" json:"awards"`
	PosterFile        string   `gorm:"size:255" json:"poster_file"`
	ExternalPosterURL string   `gorm:"size:255" json:"external_poster_url"`
	IMDbRating        *float64 `gorm:"column:imdb_rating" json:"imdb_rating,omitempty"`
	RottenTomatoes    string   `gorm:"size:10" json:"rotten_tomatoes"`
	Metacritic        string   `gorm:"size:10" json:"metacritic"`
	Type              string   `gorm:"size:20" json:"type"`
	BoxOffice         string   `gorm:"size:20" json:"box_office"`
	Production        string   `gorm:"size:100" json:"production"`
	Website           string   `gorm:"size:255" json:"website"`
}

func (MovieMetadata) TableName() string { return "movie_metadata" }

// Interaction is the single record of one user's relationship to one
// movie: watched/watchlist/favorite flags, an optional 1-10 rating and an
// optional comment. Composite primary key keeps the row unique per pair.
type Interaction struct {
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	MovieID     uint      `gorm:"primaryKey" json:"movie_id"`
	Watched     bool      `gorm:"not null;default:false" json:"watched"`
	OnWatchlist bool      `gorm:"not null;default:false" json:"on_watchlist"`
	Favorited   bool      `gorm:"not null;default:false" json:"favorited"`
	Rating      *float64  `json:"rating,omitempty"`
	Comment     *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

func (Interaction) TableName() string { return "interactions" }

// RatingMin and RatingMax bound user ratings.
const (
	RatingMin = 1.0
	RatingMax = 10.0
)
