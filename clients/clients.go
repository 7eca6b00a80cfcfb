package clients

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"mcmonitor/models"
)

// MinecraftClient queries a Minecraft server for its status.
// Query never returns an error: failures are reported as an offline result.
type MinecraftClient interface {
	Query(ctx context.Context, target models.ServerTarget, timeout time.Duration) models.QueryResult
}

// InteractionResponder delivers interaction responses to Discord
type InteractionResponder interface {
	Defer(ctx context.Context, interaction *discordgo.Interaction, kind models.DeferKind) error
	Reply(ctx context.Context, interaction *discordgo.Interaction, data *discordgo.InteractionResponseData) error
	FollowUp(ctx context.Context, interaction *discordgo.Interaction, params *discordgo.WebhookParams) error
	EditOriginal(ctx context.Context, interaction *discordgo.Interaction, edit *discordgo.WebhookEdit) error
}
