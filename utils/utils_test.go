package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "fine") })
	assert.PanicsWithValue(t, "invariant violated - broken", func() { AssertInvariant(false, "broken") })
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"short string untouched", "alice", 10, "alice"},
		{"exact length untouched", "alice", 5, "alice"},
		{"long string cut", "alice and bob", 6, "alice…"},
		{"multibyte runes counted once", "ñañañaña", 4, "ñañ…"},
		{"limit of one", "alice", 1, "…"},
		{"zero limit", "alice", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateRunes(tt.input, tt.limit))
		})
	}
}
