package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"mcmonitor/clients"
	"mcmonitor/clients/discord"
	"mcmonitor/core"
	"mcmonitor/core/log"
	"mcmonitor/middleware"
	"mcmonitor/models"
	"mcmonitor/usecases/commands"
)

// Interaction tokens stay valid for 15 minutes
const interactionTokenLifetime = 15 * time.Minute

// InteractionDispatcher decides the response to an interaction
type InteractionDispatcher interface {
	Dispatch(ctx context.Context, ic models.InteractionContext, ack commands.Acknowledger) models.Response
}

type DiscordBotConfig struct {
	BotToken                  string
	GuildID                   string // commands are registered globally when empty
	Presence                  string
	RegisterCommands          bool
	MaxConcurrentInteractions int
}

type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	responder        clients.InteractionResponder
	dispatcher       InteractionDispatcher
	renderer         *Renderer
	alerts           *middleware.ErrorAlertMiddleware
	pool             *workerpool.WorkerPool
	definitions      []*discordgo.ApplicationCommand
	config           DiscordBotConfig
	baseCtx          context.Context
	cancel           context.CancelFunc
	now              func() time.Time
}

func NewDiscordEventsHandler(
	config DiscordBotConfig,
	dispatcher InteractionDispatcher,
	definitions []*discordgo.ApplicationCommand,
	renderer *Renderer,
	alerts *middleware.ErrorAlertMiddleware,
) (*DiscordEventsHandler, error) {
	session, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	handler := newDiscordEventsHandler(
		session,
		discord.NewInteractionResponder(session),
		dispatcher,
		definitions,
		renderer,
		alerts,
		config,
	)

	session.AddHandler(handler.handleReadyEvent)
	session.AddHandler(handler.handleInteractionCreatedEvent)

	// Slash commands and buttons arrive without any privileged intents
	session.Identify.Intents = discordgo.IntentsGuilds

	return handler, nil
}

func newDiscordEventsHandler(
	session *discordgo.Session,
	responder clients.InteractionResponder,
	dispatcher InteractionDispatcher,
	definitions []*discordgo.ApplicationCommand,
	renderer *Renderer,
	alerts *middleware.ErrorAlertMiddleware,
	config DiscordBotConfig,
) *DiscordEventsHandler {
	if config.MaxConcurrentInteractions <= 0 {
		config.MaxConcurrentInteractions = 1
	}
	baseCtx, cancel := context.WithCancel(context.Background())

	return &DiscordEventsHandler{
		discordSDKClient: session,
		responder:        responder,
		dispatcher:       dispatcher,
		renderer:         renderer,
		alerts:           alerts,
		pool:             workerpool.New(config.MaxConcurrentInteractions),
		definitions:      definitions,
		config:           config,
		baseCtx:          baseCtx,
		cancel:           cancel,
		now:              time.Now,
	}
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Info("🤖 Discord bot is now running and listening for interactions")
	return nil
}

// StopBot closes the Discord connection and waits for in-flight interactions
func (h *DiscordEventsHandler) StopBot() {
	if h.discordSDKClient != nil {
		if err := h.discordSDKClient.Close(); err != nil {
			log.Warn("⚠️ Failed to close Discord session", "error", err)
		}
	}
	h.pool.StopWait()
	h.cancel()
	log.Info("✅ Discord bot stopped")
}

func (h *DiscordEventsHandler) handleReadyEvent(s *discordgo.Session, r *discordgo.Ready) {
	log.Info("✅ Discord session ready", "user", r.User.Username, "guilds", len(r.Guilds))

	if h.config.Presence != "" {
		if err := s.UpdateWatchStatus(0, h.config.Presence); err != nil {
			log.Warn("⚠️ Failed to update presence", "error", err)
		}
	}

	if !h.config.RegisterCommands {
		log.Info("📋 Skipping application command registration")
		return
	}
	if err := h.registerCommands(s, r.User.ID); err != nil {
		log.Error("❌ Failed to register application commands", "error", err)
		if h.alerts != nil {
			h.alerts.ReportError(h.baseCtx, "application command registration", err)
		}
	}
}

func (h *DiscordEventsHandler) registerCommands(s *discordgo.Session, appID string) error {
	ctx, cancel := context.WithTimeout(h.baseCtx, 30*time.Second)
	defer cancel()

	log.Info("📋 Registering application commands", "count", len(h.definitions), "guild_id", h.config.GuildID)
	registered, err := s.ApplicationCommandBulkOverwrite(appID, h.config.GuildID, h.definitions, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to overwrite application commands: %w", err)
	}

	log.Info("✅ Registered application commands", "count", len(registered))
	return nil
}

func (h *DiscordEventsHandler) handleInteractionCreatedEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	interaction := i.Interaction
	task := func() { h.HandleInteraction(h.baseCtx, interaction) }
	if h.alerts != nil {
		task = h.alerts.WrapTask("interaction "+interaction.ID, task)
	}
	h.pool.Submit(task)
}

// HandleInteraction dispatches one interaction and delivers the response
func (h *DiscordEventsHandler) HandleInteraction(ctx context.Context, interaction *discordgo.Interaction) {
	ic, ok := h.mapToInteractionContext(interaction)
	if !ok {
		log.Debug("🔍 Ignoring unsupported interaction", "type", interaction.Type.String(), "id", interaction.ID)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, interactionTokenLifetime)
	defer cancel()

	logger := log.With("trace_id", ic.TraceID, "interaction_id", ic.ID)
	logger.Debug("📨 Interaction received", "kind", ic.Kind, "id", ic.CommandOrCustomID, "user_id", ic.UserID, "guild_id", ic.GuildID)

	ack := &interactionAcknowledger{responder: h.responder, interaction: interaction}
	response := h.dispatcher.Dispatch(ctx, ic, ack)

	if err := h.deliver(ctx, interaction, response); err != nil {
		logger.Error("❌ Failed to deliver interaction response", "mode", response.Mode, "error", err)
		return
	}
	if received, ok := core.IDTime(ic.TraceID); ok {
		logger = logger.With("elapsed", time.Since(received))
	}
	logger.Debug("✅ Interaction handled", "outcome", response.Outcome, "mode", response.Mode)
}

func (h *DiscordEventsHandler) deliver(ctx context.Context, interaction *discordgo.Interaction, response models.Response) error {
	switch response.Mode {
	case models.ResponseNone, "":
		return nil
	case models.ResponseReply:
		return h.responder.Reply(ctx, interaction, h.renderer.ReplyData(response))
	case models.ResponseFollowUp:
		return h.responder.FollowUp(ctx, interaction, h.renderer.FollowUpParams(response))
	case models.ResponseEdit:
		return h.responder.EditOriginal(ctx, interaction, h.renderer.WebhookEdit(response))
	default:
		return fmt.Errorf("unsupported response mode %q", response.Mode)
	}
}

// mapToInteractionContext maps a Discord interaction to our domain model
func (h *DiscordEventsHandler) mapToInteractionContext(interaction *discordgo.Interaction) (models.InteractionContext, bool) {
	ic := models.InteractionContext{
		ID:      interaction.ID,
		TraceID: core.NewID("ix"),
		GuildID: interaction.GuildID,
		Now:     h.now(),
	}

	switch {
	case interaction.Member != nil && interaction.Member.User != nil:
		ic.UserID = interaction.Member.User.ID
	case interaction.User != nil:
		ic.UserID = interaction.User.ID
	default:
		return models.InteractionContext{}, false
	}

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		data := interaction.ApplicationCommandData()
		ic.Kind = models.InteractionSlashCommand
		ic.CommandOrCustomID = data.Name
		ic.Options = make(map[string]string, len(data.Options))
		for _, option := range data.Options {
			ic.Options[option.Name] = optionValue(option)
		}
	case discordgo.InteractionMessageComponent:
		data := interaction.MessageComponentData()
		if data.ComponentType != discordgo.ButtonComponent {
			return models.InteractionContext{}, false
		}
		ic.Kind = models.InteractionButtonClick
		ic.CommandOrCustomID = data.CustomID
	default:
		return models.InteractionContext{}, false
	}
	return ic, true
}

func optionValue(option *discordgo.ApplicationCommandInteractionDataOption) string {
	if option.Type == discordgo.ApplicationCommandOptionString {
		return option.StringValue()
	}
	return fmt.Sprint(option.Value)
}

// interactionAcknowledger defers a single interaction through the responder
type interactionAcknowledger struct {
	responder   clients.InteractionResponder
	interaction *discordgo.Interaction
}

func (a *interactionAcknowledger) Acknowledge(ctx context.Context, kind models.DeferKind) error {
	return a.responder.Defer(ctx, a.interaction, kind)
}
