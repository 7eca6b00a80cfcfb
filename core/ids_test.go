package core

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{
			name:   "valid prefix",
			prefix: "ix",
		},
		{
			name:   "uppercase prefix gets lowercased",
			prefix: "IX",
		},
		{
			name:   "prefix with spaces gets trimmed",
			prefix: "  cmd  ",
		},
	}

	fullPattern := regexp.MustCompile(`^[a-z0-9]+_[0123456789ABCDEFGHJKMNPQRSTVWXYZ]{26}$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewID(tt.prefix)

			expectedPrefix := strings.ToLower(strings.TrimSpace(tt.prefix)) + "_"
			assert.True(t, strings.HasPrefix(got, expectedPrefix), "got %s", got)
			assert.Regexp(t, fullPattern, got)
		})
	}
}

func TestNewIDPanicsOnEmptyPrefix(t *testing.T) {
	assert.Panics(t, func() { NewID("") })
	assert.Panics(t, func() { NewID("   ") })
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id := NewID("ix")
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIDTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewID("ix")

	created, ok := IDTime(id)
	require.True(t, ok)
	assert.True(t, created.After(before))
	assert.True(t, created.Before(time.Now().Add(time.Second)))

	_, ok = IDTime("not-an-id")
	assert.False(t, ok)
	_, ok = IDTime("ix_tooshort")
	assert.False(t, ok)
}
