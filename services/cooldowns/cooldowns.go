package cooldowns

import (
	"context"
	"sync"
	"time"

	"mcmonitor/core/log"
	"mcmonitor/models"
	"mcmonitor/services"
)

type ledgerKey struct {
	commandKey string
	userID     string
}

// CooldownLedger records, per command and user, when the command may run again.
// Expiry is always checked against the caller's clock; sweeping only frees memory.
type CooldownLedger struct {
	mutex   sync.Mutex
	entries map[ledgerKey]time.Time // expiry time
}

func NewCooldownLedger() *CooldownLedger {
	return &CooldownLedger{
		entries: make(map[ledgerKey]time.Time),
	}
}

var _ services.CooldownLedger = (*CooldownLedger)(nil)

// CheckAndStart allows the call and starts a new window when no unexpired entry exists,
// otherwise reports the existing expiry without touching it. Check and record happen
// under one lock so concurrent callers for the same key cannot both pass.
func (l *CooldownLedger) CheckAndStart(
	commandKey, userID string,
	now time.Time,
	cooldown time.Duration,
) models.CooldownDecision {
	if cooldown <= 0 {
		return models.CooldownDecision{Allowed: true, RetryAt: now}
	}

	key := ledgerKey{commandKey: commandKey, userID: userID}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if expiresAt, exists := l.entries[key]; exists && now.Before(expiresAt) {
		return models.CooldownDecision{Allowed: false, RetryAt: expiresAt}
	}

	expiresAt := now.Add(cooldown)
	l.entries[key] = expiresAt
	return models.CooldownDecision{Allowed: true, RetryAt: expiresAt}
}

// Sweep drops every entry that has expired at now and returns how many were removed
func (l *CooldownLedger) Sweep(now time.Time) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	removed := 0
	for key, expiresAt := range l.entries {
		if !now.Before(expiresAt) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, expired or not
func (l *CooldownLedger) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.entries)
}

// StartSweeper runs Sweep every interval until ctx is done
func (l *CooldownLedger) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Warn("⚠️ Cooldown sweeper disabled, expired entries are only ignored", "interval", interval)
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := l.Sweep(now); removed > 0 {
					log.Debug("🧹 Swept expired cooldown entries", "removed", removed)
				}
			}
		}
	}()
}
