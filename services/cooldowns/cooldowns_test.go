package cooldowns

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestCooldownLedger_FirstCallAllowed(t *testing.T) {
	ledger := NewCooldownLedger()

	decision := ledger.CheckAndStart("status", "user-1", baseTime, 10*time.Second)

	assert.True(t, decision.Allowed)
	assert.Equal(t, baseTime.Add(10*time.Second), decision.RetryAt)
	assert.Equal(t, 1, ledger.Len())
}

func TestCooldownLedger_BlockedUntilExpiry(t *testing.T) {
	ledger := NewCooldownLedger()
	cooldown := 10 * time.Second

	require.True(t, ledger.CheckAndStart("status", "user-1", baseTime, cooldown).Allowed)

	// One millisecond before expiry is still blocked and reports the original expiry
	blocked := ledger.CheckAndStart("status", "user-1", baseTime.Add(cooldown-time.Millisecond), cooldown)
	assert.False(t, blocked.Allowed)
	assert.Equal(t, baseTime.Add(cooldown), blocked.RetryAt)

	// At expiry the call passes and starts a fresh window
	allowed := ledger.CheckAndStart("status", "user-1", baseTime.Add(cooldown), cooldown)
	assert.True(t, allowed.Allowed)

	again := ledger.CheckAndStart("status", "user-1", baseTime.Add(cooldown+time.Second), cooldown)
	assert.False(t, again.Allowed)
	assert.Equal(t, baseTime.Add(2*cooldown), again.RetryAt)
}

func TestCooldownLedger_BlockedCallDoesNotExtendWindow(t *testing.T) {
	ledger := NewCooldownLedger()
	ledger.CheckAndStart("status", "user-1", baseTime, 10*time.Second)

	for i := 1; i <= 5; i++ {
		decision := ledger.CheckAndStart("status", "user-1", baseTime.Add(time.Duration(i)*time.Second), 10*time.Second)
		assert.False(t, decision.Allowed)
		assert.Equal(t, baseTime.Add(10*time.Second), decision.RetryAt)
	}
}

func TestCooldownLedger_KeysAreIndependent(t *testing.T) {
	ledger := NewCooldownLedger()
	ledger.CheckAndStart("status", "user-1", baseTime, time.Minute)

	assert.True(t, ledger.CheckAndStart("status", "user-2", baseTime, time.Minute).Allowed)
	assert.True(t, ledger.CheckAndStart("players", "user-1", baseTime, time.Minute).Allowed)
	assert.False(t, ledger.CheckAndStart("status", "user-1", baseTime, time.Minute).Allowed)
}

func TestCooldownLedger_ZeroCooldownNeverRecords(t *testing.T) {
	ledger := NewCooldownLedger()

	assert.True(t, ledger.CheckAndStart("help", "user-1", baseTime, 0).Allowed)
	assert.True(t, ledger.CheckAndStart("help", "user-1", baseTime, 0).Allowed)
	assert.Zero(t, ledger.Len())
}

func TestCooldownLedger_ConcurrentCallsYieldOneAllowed(t *testing.T) {
	for round := 0; round < 50; round++ {
		ledger := NewCooldownLedger()

		var allowed, blocked atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})

		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if ledger.CheckAndStart("status", "user-1", baseTime, 10*time.Second).Allowed {
					allowed.Add(1)
				} else {
					blocked.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), allowed.Load(), "round %d", round)
		require.Equal(t, int32(1), blocked.Load(), "round %d", round)
	}
}

func TestCooldownLedger_Sweep(t *testing.T) {
	ledger := NewCooldownLedger()
	ledger.CheckAndStart("status", "user-1", baseTime, time.Second)
	ledger.CheckAndStart("status", "user-2", baseTime, time.Minute)

	assert.Equal(t, 0, ledger.Sweep(baseTime))
	assert.Equal(t, 1, ledger.Sweep(baseTime.Add(time.Second)))
	assert.Equal(t, 1, ledger.Len())

	// Expired entries that were never swept are still treated as absent
	ledger.CheckAndStart("players", "user-3", baseTime, time.Second)
	assert.True(t, ledger.CheckAndStart("players", "user-3", baseTime.Add(2*time.Second), time.Second).Allowed)
}

func TestCooldownLedger_StartSweeper(t *testing.T) {
	ledger := NewCooldownLedger()
	past := time.Now().Add(-time.Hour)
	ledger.CheckAndStart("status", "user-1", past, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ledger.StartSweeper(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return ledger.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCooldownLedger_StartSweeperDisabled(t *testing.T) {
	ledger := NewCooldownLedger()
	ledger.CheckAndStart("status", "user-1", time.Now().Add(-time.Hour), time.Second)

	ledger.StartSweeper(context.Background(), 0)

	assert.Equal(t, 1, ledger.Len())
}
