package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"

	"mcmonitor/models"
)

// MockInteractionResponder implements the clients.InteractionResponder interface for testing
type MockInteractionResponder struct {
	mock.Mock
}

func (m *MockInteractionResponder) Defer(
	ctx context.Context,
	interaction *discordgo.Interaction,
	kind models.DeferKind,
) error {
	args := m.Called(ctx, interaction, kind)
	return args.Error(0)
}

func (m *MockInteractionResponder) Reply(
	ctx context.Context,
	interaction *discordgo.Interaction,
	data *discordgo.InteractionResponseData,
) error {
	args := m.Called(ctx, interaction, data)
	return args.Error(0)
}

func (m *MockInteractionResponder) FollowUp(
	ctx context.Context,
	interaction *discordgo.Interaction,
	params *discordgo.WebhookParams,
) error {
	args := m.Called(ctx, interaction, params)
	return args.Error(0)
}

func (m *MockInteractionResponder) EditOriginal(
	ctx context.Context,
	interaction *discordgo.Interaction,
	edit *discordgo.WebhookEdit,
) error {
	args := m.Called(ctx, interaction, edit)
	return args.Error(0)
}
