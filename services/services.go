package services

import (
	"time"

	"github.com/samber/mo"

	"mcmonitor/models"
)

// CooldownLedger defines the per-command, per-user rate limit operations
type CooldownLedger interface {
	CheckAndStart(commandKey, userID string, now time.Time, cooldown time.Duration) models.CooldownDecision
}

// SnapshotStore keeps the last query result in memory
type SnapshotStore interface {
	Record(result models.QueryResult, takenAt time.Time) mo.Option[models.Snapshot]
	Latest() mo.Option[models.Snapshot]
}
