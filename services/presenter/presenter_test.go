package presenter

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcmonitor/models"
)

var (
	testTarget = models.ServerTarget{Host: "play.example.net", Port: 25565}
	testNow    = time.Date(2026, 10, 18, 12, 30, 45, 0, time.UTC)
	noPrevious = mo.None[models.QueryResult]()
)

func onlineResult(online, max int, sample ...string) models.QueryResult {
	return models.NewOnlineResult(models.OnlineStatus{
		LatencyMs:     42,
		PlayersOnline: online,
		PlayersMax:    max,
		PlayerSample:  sample,
		VersionLabel:  "1.21.1",
	})
}

func TestPresent_OnlineWithPlayers(t *testing.T) {
	p := NewPresenter("DeshiCraft")

	view := p.Present(onlineResult(5, 20, "alice", "bob"), noPrevious, testTarget, false, testNow)

	assert.Equal(t, "🎮 DeshiCraft Server Status", view.Title)
	assert.Equal(t, models.ToneOnline, view.Tone)
	assert.Contains(t, view.StatusLine, "5/20")

	players, ok := view.Field(FieldPlayers)
	require.True(t, ok)
	assert.Equal(t, "5/20", players)

	latency, _ := view.Field(FieldLatency)
	assert.Equal(t, "42ms", latency)

	require.Len(t, view.Actions, 2)
	assert.Equal(t, models.ActionRefresh, view.Actions[0].Kind)
	assert.Equal(t, "refresh_play.example.net:25565", view.Actions[0].CustomID)
	assert.Equal(t, models.ActionViewPlayers, view.Actions[1].Kind)
	assert.Equal(t, 5, view.Actions[1].Count)
	assert.Equal(t, "players_play.example.net:25565", view.Actions[1].CustomID)

	_, hasUpdated := view.Field(FieldLastUpdated)
	assert.False(t, hasUpdated)
	assert.Equal(t, testNow, view.FooterTimestamp)
}

func TestPresent_OnlineWithoutPlayersHasOnlyRefresh(t *testing.T) {
	view := NewPresenter("").Present(onlineResult(0, 20), noPrevious, testTarget, false, testNow)

	require.Len(t, view.Actions, 1)
	assert.Equal(t, models.ActionRefresh, view.Actions[0].Kind)
	assert.False(t, view.HasAction(models.ActionViewPlayers))
	assert.Equal(t, "🎮 play.example.net Server Status", view.Title)
}

func TestPresent_ViewPlayersActionTracksCount(t *testing.T) {
	p := NewPresenter("")
	for _, count := range []int{1, 7, 20} {
		view := p.Present(onlineResult(count, 20), noPrevious, testTarget, false, testNow)

		require.True(t, view.HasAction(models.ActionViewPlayers))
		assert.Equal(t, count, view.Actions[1].Count)
	}
}

func TestPresent_Offline(t *testing.T) {
	result := models.NewOfflineResult(models.ErrorKindUnreachable, "connection refused")

	view := NewPresenter("DeshiCraft").Present(result, noPrevious, testTarget, false, testNow)

	assert.Equal(t, models.ToneOffline, view.Tone)
	assert.Contains(t, view.StatusLine, "Offline")
	require.Len(t, view.Actions, 1)
	assert.Equal(t, models.ActionRetry, view.Actions[0].Kind)
	assert.Equal(t, "refresh_play.example.net:25565", view.Actions[0].CustomID)

	_, hasPlayers := view.Field(FieldPlayers)
	assert.False(t, hasPlayers)
	reason, _ := view.Field(FieldReason)
	assert.Equal(t, "Unreachable", reason)
	details, _ := view.Field(FieldDetails)
	assert.Equal(t, "connection refused", details)
}

func TestPresent_ForRefreshAddsLastUpdated(t *testing.T) {
	p := NewPresenter("")

	online := p.Present(onlineResult(1, 10), noPrevious, testTarget, true, testNow)
	updated, ok := online.Field(FieldLastUpdated)
	require.True(t, ok)
	assert.Equal(t, "12:30:45 UTC", updated)

	offline := p.Present(models.NewOfflineResult(models.ErrorKindTimeout, ""), noPrevious, testTarget, true, testNow)
	_, ok = offline.Field(FieldLastUpdated)
	assert.True(t, ok)
	_, ok = offline.Field(FieldDetails)
	assert.False(t, ok)
}

func TestPresent_IsDeterministic(t *testing.T) {
	p := NewPresenter("DeshiCraft")
	result := onlineResult(3, 10, "alice")

	assert.Equal(t,
		p.Present(result, noPrevious, testTarget, true, testNow),
		p.Present(result, noPrevious, testTarget, true, testNow))
}

func TestPresent_ChangeField(t *testing.T) {
	p := NewPresenter("")
	offline := models.NewOfflineResult(models.ErrorKindTimeout, "")

	tests := []struct {
		name     string
		previous models.QueryResult
		current  models.QueryResult
		want     string
	}{
		{"came online", offline, onlineResult(1, 10), "🟢 Came back online"},
		{"went offline", onlineResult(1, 10), offline, "🔴 Went offline"},
		{"players joined", onlineResult(1, 10), onlineResult(4, 10), "+3 players since last check"},
		{"player left", onlineResult(2, 10), onlineResult(1, 10), "-1 player since last check"},
		{"unchanged", onlineResult(2, 10), onlineResult(2, 10), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := p.Present(tt.current, mo.Some(tt.previous), testTarget, false, testNow)

			change, ok := view.Field(FieldChange)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			assert.Equal(t, tt.want, change)
		})
	}
}

func TestPresentRoster(t *testing.T) {
	p := NewPresenter("DeshiCraft")

	t.Run("lists sample and hidden count", func(t *testing.T) {
		view := p.PresentRoster(*onlineResult(5, 20, "alice", "bob").Online, testTarget, "", testNow)

		assert.Equal(t, "👥 Players on DeshiCraft", view.Title)
		assert.Equal(t, "5/20 players online", view.StatusLine)
		players, _ := view.Field(FieldPlayers)
		assert.Equal(t, "• alice\n• bob\n+3 more not listed", players)
		assert.Empty(t, view.Actions)
	})

	t.Run("empty sample while players online", func(t *testing.T) {
		view := p.PresentRoster(*onlineResult(3, 20).Online, testTarget, "", testNow)
		players, _ := view.Field(FieldPlayers)
		assert.Equal(t, "No player sample available.", players)
	})

	t.Run("nobody online", func(t *testing.T) {
		view := p.PresentRoster(*onlineResult(0, 20).Online, testTarget, "", testNow)
		players, _ := view.Field(FieldPlayers)
		assert.Equal(t, "Nobody is online right now.", players)
	})

	t.Run("filter is case-insensitive", func(t *testing.T) {
		view := p.PresentRoster(*onlineResult(2, 20, "Alice", "bob").Online, testTarget, "ALI", testNow)
		players, _ := view.Field(FieldPlayers)
		assert.Equal(t, "• Alice", players)
	})

	t.Run("filter without matches", func(t *testing.T) {
		view := p.PresentRoster(*onlineResult(2, 20, "alice", "bob").Online, testTarget, "zed", testNow)
		players, _ := view.Field(FieldPlayers)
		assert.Equal(t, `No listed players match "zed".`, players)
	})
}

func TestPresentFailure_OnlyRetry(t *testing.T) {
	view := NewPresenter("DeshiCraft").PresentFailure(testTarget, "❌ Failed to refresh", testNow)

	assert.Equal(t, models.ToneError, view.Tone)
	assert.Equal(t, "❌ Failed to refresh", view.StatusLine)
	require.Len(t, view.Actions, 1)
	assert.Equal(t, models.ActionRetry, view.Actions[0].Kind)
	assert.Equal(t, "refresh_play.example.net:25565", view.Actions[0].CustomID)

	_, hasPlayers := view.Field(FieldPlayers)
	assert.False(t, hasPlayers)
}
