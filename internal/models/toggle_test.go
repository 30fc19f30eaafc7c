package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToggleAttribute(t *testing.T) {
	for _, valid := range []string{"watched", "watchlist", "favorited"} {
		attr, err := ParseToggleAttribute(valid)
		require.NoError(t, err)
		assert.Equal(t, ToggleAttribute(valid), attr)
	}

	for _, invalid := range []string{"", "rating", "Watched", "on_watchlist"} {
		_, err := ParseToggleAttribute(invalid)
		assert.ErrorIs(t, err, ErrInvalidAttribute, "input %q", invalid)
	}
}

func TestToggleAttributeColumn(t *testing.T) {
	assert.Equal(t, "watched", ToggleWatched.Column())
	assert.Equal(t, "on_watchlist", ToggleWatchlist.Column())
	assert.Equal(t, "favorited", ToggleFavorited.Column())
}
