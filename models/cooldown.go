package models

import "time"

// CooldownDecision is the outcome of a cooldown check. When Allowed is false,
// RetryAt is the expiry of the cooldown already in flight.
type CooldownDecision struct {
	Allowed bool
	RetryAt time.Time
}

// Snapshot is the most recent query result observed by the bot
type Snapshot struct {
	Result  QueryResult
	TakenAt time.Time
}
