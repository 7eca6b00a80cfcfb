package models

import (
	"strings"
	"time"
)

// InteractionKind distinguishes the inbound events the dispatcher handles
type InteractionKind string

const (
	InteractionSlashCommand InteractionKind = "slash_command"
	InteractionButtonClick  InteractionKind = "button_click"
)

// InteractionContext is built per inbound event and owned by the dispatch call
type InteractionContext struct {
	ID      string // platform interaction id
	TraceID string // log correlation id
	Kind    InteractionKind
	// CommandOrCustomID is the command name for slash commands and the
	// component custom id for button clicks
	CommandOrCustomID string
	UserID            string
	GuildID           string
	Options           map[string]string
	Now               time.Time
}

// Option returns a slash-command option value, or "" when it was not supplied
func (c InteractionContext) Option(name string) string {
	if c.Options == nil {
		return ""
	}
	return c.Options[name]
}

// ActionKind is a UI action attached to a rendered view
type ActionKind string

const (
	ActionRefresh     ActionKind = "refresh"
	ActionRetry       ActionKind = "retry"
	ActionViewPlayers ActionKind = "view_players"
)

// MaxCustomIDLength is the longest component custom id Discord accepts
const MaxCustomIDLength = 100

const (
	refreshPrefix = "refresh_"
	playersPrefix = "players_"

	maxButtonKeyLength = MaxCustomIDLength - len(playersPrefix)
	hashedKeyPrefix    = "#"
)

// CustomID encodes an action and a target key into a button id.
// Retry shares the refresh prefix: both re-query and re-render the status view.
func CustomID(kind ActionKind, targetKey string) string {
	switch kind {
	case ActionViewPlayers:
		return playersPrefix + targetKey
	default:
		return refreshPrefix + targetKey
	}
}

// ParseCustomID decodes a button id. Unknown prefixes return ok=false.
func ParseCustomID(customID string) (kind ActionKind, targetKey string, ok bool) {
	if key, found := strings.CutPrefix(customID, playersPrefix); found && key != "" {
		return ActionViewPlayers, key, true
	}
	if key, found := strings.CutPrefix(customID, refreshPrefix); found && key != "" {
		return ActionRefresh, key, true
	}
	return "", "", false
}
