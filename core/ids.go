package core

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"mcmonitor/utils"
)

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("ix") returns "ix_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(prefix != "" && strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + ulid.Make().String()
}

// IDTime returns the creation time embedded in an ID produced by NewID.
func IDTime(id string) (time.Time, bool) {
	prefix, ulidPart, found := strings.Cut(id, "_")
	if !found || prefix == "" || len(ulidPart) != ulid.EncodedSize {
		return time.Time{}, false
	}

	parsed, err := ulid.ParseStrict(ulidPart)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(parsed.Time()), true
}
