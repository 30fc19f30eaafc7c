package models

// ToggleAttribute is the closed set of boolean interaction fields that can
// be flipped in place.
type ToggleAttribute string

const (
	ToggleWatched   ToggleAttribute = "watched"
	ToggleWatchlist ToggleAttribute = "watchlist"
	ToggleFavorited ToggleAttribute = "favorited"
)

// ParseToggleAttribute validates a request-supplied attribute name.
func ParseToggleAttribute(s string) (ToggleAttribute, error) {
	switch ToggleAttribute(s) {
	case ToggleWatched, ToggleWatchlist, ToggleFavorited:
		return ToggleAttribute(s), nil
	}
	return "", ErrInvalidAttribute
}

// Column returns the interactions table column backing the attribute.
func (a ToggleAttribute) Column() string {
	if a == ToggleWatchlist {
		return "on_watchlist"
	}
	return string(a)
}
