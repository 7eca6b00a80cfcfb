package handlers

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"mcmonitor/models"
	"mcmonitor/utils"
)

// Discord embed limits
const (
	maxEmbedTitle      = 256
	maxEmbedFieldName  = 256
	maxEmbedFieldValue = 1024
	maxEmbedFields     = 25
	maxDescription     = 4096
)

// Renderer turns responses into Discord payloads
type Renderer struct {
	theme  models.Theme
	footer string
}

func NewRenderer(theme models.Theme, footer string) *Renderer {
	return &Renderer{theme: theme, footer: footer}
}

// ReplyData builds the payload for an initial interaction response
func (r *Renderer) ReplyData(response models.Response) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    response.Content,
		Embeds:     r.embeds(response),
		Components: r.components(response),
	}
	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

// FollowUpParams builds the payload for a follow-up message
func (r *Renderer) FollowUpParams(response models.Response) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{
		Content:    response.Content,
		Embeds:     r.embeds(response),
		Components: r.components(response),
	}
	if response.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return params
}

// WebhookEdit builds the payload replacing a deferred or original message. Content,
// embeds and buttons are always set so nothing from the previous message survives.
func (r *Renderer) WebhookEdit(response models.Response) *discordgo.WebhookEdit {
	content := response.Content
	embeds := r.embeds(response)
	components := r.components(response)
	return &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}
}

func (r *Renderer) embeds(response models.Response) []*discordgo.MessageEmbed {
	if response.View == nil {
		return []*discordgo.MessageEmbed{}
	}
	return []*discordgo.MessageEmbed{r.Embed(*response.View)}
}

func (r *Renderer) components(response models.Response) []discordgo.MessageComponent {
	if response.View == nil {
		return []discordgo.MessageComponent{}
	}
	return Buttons(response.View.Actions)
}

// Embed renders a view model as a Discord embed
func (r *Renderer) Embed(view models.ViewModel) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       utils.TruncateRunes(view.Title, maxEmbedTitle),
		Description: utils.TruncateRunes(view.StatusLine, maxDescription),
		Color:       r.theme.ColorFor(view.Tone),
	}
	if !view.FooterTimestamp.IsZero() {
		embed.Timestamp = view.FooterTimestamp.UTC().Format(time.RFC3339)
	}
	if r.footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: r.footer}
	}

	for i, field := range view.Fields {
		if i == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   utils.TruncateRunes(field.Label, maxEmbedFieldName),
			Value:  utils.TruncateRunes(field.Value, maxEmbedFieldValue),
			Inline: field.Inline,
		})
	}
	return embed
}

// Buttons renders view actions as a single row of buttons; no actions renders no rows
func Buttons(actions []models.Action) []discordgo.MessageComponent {
	if len(actions) == 0 {
		return []discordgo.MessageComponent{}
	}

	buttons := make([]discordgo.MessageComponent, 0, len(actions))
	for _, action := range actions {
		buttons = append(buttons, button(action))
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func button(action models.Action) discordgo.Button {
	switch action.Kind {
	case models.ActionViewPlayers:
		return discordgo.Button{
			Label:    fmt.Sprintf("👥 View Players (%d)", action.Count),
			Style:    discordgo.PrimaryButton,
			CustomID: action.CustomID,
		}
	case models.ActionRetry:
		return discordgo.Button{
			Label:    "🔄 Try Again",
			Style:    discordgo.SecondaryButton,
			CustomID: action.CustomID,
		}
	default:
		return discordgo.Button{
			Label:    "🔄 Refresh Status",
			Style:    discordgo.SecondaryButton,
			CustomID: action.CustomID,
		}
	}
}
