package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"mcmonitor/clients"
	"mcmonitor/models"
)

// InteractionResponder implements the clients.InteractionResponder interface
type InteractionResponder struct {
	session *discordgo.Session
}

// NewInteractionResponder creates a responder that answers interactions through the given session
func NewInteractionResponder(session *discordgo.Session) clients.InteractionResponder {
	return &InteractionResponder{session: session}
}

// Defer acknowledges an interaction so it can be answered after the 3 second window
func (r *InteractionResponder) Defer(
	ctx context.Context,
	interaction *discordgo.Interaction,
	kind models.DeferKind,
) error {
	response := &discordgo.InteractionResponse{}
	switch kind {
	case models.DeferReply:
		response.Type = discordgo.InteractionResponseDeferredChannelMessageWithSource
	case models.DeferReplyEphemeral:
		response.Type = discordgo.InteractionResponseDeferredChannelMessageWithSource
		response.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	case models.DeferUpdate:
		response.Type = discordgo.InteractionResponseDeferredMessageUpdate
	default:
		return fmt.Errorf("unsupported defer kind %q", kind)
	}

	if err := r.session.InteractionRespond(interaction, response, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to defer interaction %s: %w", interaction.ID, err)
	}
	return nil
}

// Reply sends the initial response to an interaction that was not deferred
func (r *InteractionResponder) Reply(
	ctx context.Context,
	interaction *discordgo.Interaction,
	data *discordgo.InteractionResponseData,
) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
	if err := r.session.InteractionRespond(interaction, response, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to reply to interaction %s: %w", interaction.ID, err)
	}
	return nil
}

// FollowUp sends an additional message after the interaction was acknowledged
func (r *InteractionResponder) FollowUp(
	ctx context.Context,
	interaction *discordgo.Interaction,
	params *discordgo.WebhookParams,
) error {
	if _, err := r.session.FollowupMessageCreate(interaction, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send follow-up for interaction %s: %w", interaction.ID, err)
	}
	return nil
}

// EditOriginal replaces the deferred or original response of an interaction
func (r *InteractionResponder) EditOriginal(
	ctx context.Context,
	interaction *discordgo.Interaction,
	edit *discordgo.WebhookEdit,
) error {
	if _, err := r.session.InteractionResponseEdit(interaction, edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit response for interaction %s: %w", interaction.ID, err)
	}
	return nil
}
