package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTheme_ColorFor(t *testing.T) {
	theme := Theme{Primary: 1, Success: 2, Error: 3, Warning: 4}

	assert.Equal(t, 2, theme.ColorFor(ToneOnline))
	assert.Equal(t, 3, theme.ColorFor(ToneOffline))
	assert.Equal(t, 4, theme.ColorFor(ToneError))
	assert.Equal(t, 1, theme.ColorFor(ToneInfo))
}
