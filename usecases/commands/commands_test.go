package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mcmonitor/clients/minecraft"
	"mcmonitor/models"
	"mcmonitor/services/presenter"
	"mcmonitor/services/snapshots"
	"mcmonitor/usecases/status"
)

var (
	testTarget  = models.ServerTarget{Host: "play.example.net", Port: 25565}
	testNow     = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	testTimeout = 2 * time.Second
)

func setupStatusUseCase(t *testing.T) (*status.StatusUseCase, *minecraft.MockMinecraftClient) {
	t.Helper()
	client := &minecraft.MockMinecraftClient{}
	t.Cleanup(func() { client.AssertExpectations(t) })

	useCase := status.NewStatusUseCase(client, presenter.NewPresenter("DeshiCraft"), snapshots.NewSnapshotStore(), testTarget, testTimeout)
	return useCase, client
}

func newAcknowledger(t *testing.T) *MockAcknowledger {
	t.Helper()
	ack := &MockAcknowledger{}
	t.Cleanup(func() { ack.AssertExpectations(t) })
	return ack
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	useCase, _ := setupStatusUseCase(t)
	registry := NewRegistry()

	require.NoError(t, registry.Register(NewStatusCommand(useCase, mo.None[time.Duration]())))
	require.NoError(t, registry.Register(NewPlayersCommand(useCase, mo.Some(10*time.Second))))

	cmd, ok := registry.Lookup("players")
	require.True(t, ok)
	assert.Equal(t, mo.Some(10*time.Second), cmd.Cooldown())

	_, ok = registry.Lookup("missing")
	assert.False(t, ok)

	definitions := registry.Definitions()
	require.Len(t, definitions, 2)
	assert.Equal(t, "status", definitions[0].Name)
	assert.Equal(t, "players", definitions[1].Name)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	useCase, _ := setupStatusUseCase(t)
	registry := NewRegistry()

	require.NoError(t, registry.Register(NewStatusCommand(useCase, mo.None[time.Duration]())))
	err := registry.Register(NewStatusCommand(useCase, mo.None[time.Duration]()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Len(t, registry.All(), 1)
}

func TestInvocation_DeferOnlyOnce(t *testing.T) {
	ack := newAcknowledger(t)
	ack.On("Acknowledge", mock.Anything, models.DeferReply).Return(nil).Once()

	inv := NewInvocation(models.InteractionContext{}, ack)
	assert.False(t, inv.Acknowledged())

	require.NoError(t, inv.Defer(context.Background(), models.DeferReply))
	require.NoError(t, inv.Defer(context.Background(), models.DeferReply))
	assert.True(t, inv.Acknowledged())
}

func TestInvocation_DeferFailureLeavesUnacknowledged(t *testing.T) {
	ack := newAcknowledger(t)
	ack.On("Acknowledge", mock.Anything, models.DeferReply).Return(errors.New("unknown interaction"))

	inv := NewInvocation(models.InteractionContext{}, ack)
	err := inv.Defer(context.Background(), models.DeferReply)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown interaction")
	assert.False(t, inv.Acknowledged())
}

func TestStatusCommand_Execute(t *testing.T) {
	useCase, client := setupStatusUseCase(t)
	client.On("Query", mock.Anything, testTarget, testTimeout).Return(models.NewOnlineResult(models.OnlineStatus{
		PlayersOnline: 5,
		PlayersMax:    20,
		PlayerSample:  []string{"alice", "bob"},
	}))
	ack := newAcknowledger(t)
	ack.On("Acknowledge", mock.Anything, models.DeferReply).Return(nil)

	inv := NewInvocation(models.InteractionContext{Now: testNow}, ack)
	response, err := NewStatusCommand(useCase, mo.None[time.Duration]()).Execute(context.Background(), inv)

	require.NoError(t, err)
	require.NotNil(t, response.View)
	assert.False(t, response.Ephemeral)
	assert.True(t, response.View.HasAction(models.ActionRefresh))
	assert.True(t, response.View.HasAction(models.ActionViewPlayers))
	assert.True(t, inv.Acknowledged())
}

func TestPlayersCommand_Execute(t *testing.T) {
	tests := []struct {
		name          string
		result        models.QueryResult
		filter        string
		expectContent string
		expectPlayers string
	}{
		{
			name: "online with filter",
			result: models.NewOnlineResult(models.OnlineStatus{
				PlayersOnline: 2,
				PlayersMax:    20,
				PlayerSample:  []string{"alice", "bob"},
			}),
			filter:        "ALI",
			expectPlayers: "• alice",
		},
		{
			name:          "offline",
			result:        models.NewOfflineResult(models.ErrorKindUnreachable, "connection refused"),
			expectContent: "❌ play.example.net is currently offline or unreachable.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase, client := setupStatusUseCase(t)
			client.On("Query", mock.Anything, testTarget, testTimeout).Return(tt.result)
			ack := newAcknowledger(t)
			ack.On("Acknowledge", mock.Anything, models.DeferReplyEphemeral).Return(nil)

			inv := NewInvocation(models.InteractionContext{
				Now:     testNow,
				Options: map[string]string{PlayersFilterOption: tt.filter},
			}, ack)
			response, err := NewPlayersCommand(useCase, mo.None[time.Duration]()).Execute(context.Background(), inv)

			require.NoError(t, err)
			assert.True(t, response.Ephemeral)
			if tt.expectContent != "" {
				assert.Equal(t, tt.expectContent, response.Content)
				assert.Nil(t, response.View)
				return
			}
			require.NotNil(t, response.View)
			players, ok := response.View.Field(presenter.FieldPlayers)
			require.True(t, ok)
			assert.Equal(t, tt.expectPlayers, players)
		})
	}
}

func TestHelpCommand_ListsCommandsWithCooldowns(t *testing.T) {
	useCase, _ := setupStatusUseCase(t)
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewStatusCommand(useCase, mo.None[time.Duration]())))
	require.NoError(t, registry.Register(NewPlayersCommand(useCase, mo.Some(30*time.Second))))
	help := NewHelpCommand(registry, 5*time.Second)
	require.NoError(t, registry.Register(help))

	response, err := help.Execute(context.Background(), NewInvocation(models.InteractionContext{Now: testNow}, newAcknowledger(t)))

	require.NoError(t, err)
	require.NotNil(t, response.View)
	assert.True(t, response.Ephemeral)
	assert.Equal(t, models.ToneInfo, response.View.Tone)
	require.Len(t, response.View.Fields, 3)

	statusField, ok := response.View.Field("/status")
	require.True(t, ok)
	assert.Contains(t, statusField, "Cooldown: 5s")
	playersField, ok := response.View.Field("/players")
	require.True(t, ok)
	assert.Contains(t, playersField, "Cooldown: 30s")
	assert.Empty(t, response.View.Actions)
}
