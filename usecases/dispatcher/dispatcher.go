package dispatcher

import (
	"context"
	"fmt"
	"time"

	"mcmonitor/core"
	"mcmonitor/core/log"
	"mcmonitor/models"
	"mcmonitor/services"
	"mcmonitor/usecases/commands"
	"mcmonitor/usecases/status"
)

// User-visible messages
const (
	GenericFailureMessage = "❌ There was an error while executing this command!"
	UnknownCommandMessage = "❌ Unknown command"
	PlayersFailureMessage = "❌ Failed to fetch player list. The server may be offline or unreachable."
	RefreshFailureMessage = "❌ Failed to refresh the server status. Try again in a moment."
)

// FailureReporter receives handler failures after they were converted to a user reply
type FailureReporter interface {
	ReportError(ctx context.Context, source string, err error)
}

// Dispatcher routes interactions to commands and button actions. It enforces
// per-user cooldowns on slash commands and never lets a handler failure escape.
type Dispatcher struct {
	registry        *commands.Registry
	cooldowns       services.CooldownLedger
	statusUseCase   *status.StatusUseCase
	defaultCooldown time.Duration
	reporter        FailureReporter
}

type Option func(*Dispatcher)

// WithFailureReporter forwards recovered handler failures, e.g. to an alert channel
func WithFailureReporter(reporter FailureReporter) Option {
	return func(d *Dispatcher) {
		d.reporter = reporter
	}
}

func NewDispatcher(
	registry *commands.Registry,
	cooldowns services.CooldownLedger,
	statusUseCase *status.StatusUseCase,
	defaultCooldown time.Duration,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		registry:        registry,
		cooldowns:       cooldowns,
		statusUseCase:   statusUseCase,
		defaultCooldown: defaultCooldown,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch handles one interaction and returns the response to deliver. The only
// platform call made here is the deferred acknowledgement through ack.
func (d *Dispatcher) Dispatch(ctx context.Context, ic models.InteractionContext, ack commands.Acknowledger) models.Response {
	switch ic.Kind {
	case models.InteractionSlashCommand:
		return d.dispatchCommand(ctx, ic, ack)
	case models.InteractionButtonClick:
		return d.dispatchButton(ctx, ic, ack)
	default:
		log.Warn("⚠️ Ignoring interaction of unsupported kind", "kind", ic.Kind, "trace_id", ic.TraceID)
		return models.NoResponse()
	}
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, ic models.InteractionContext, ack commands.Acknowledger) models.Response {
	name := ic.CommandOrCustomID
	cmd, ok := d.registry.Lookup(name)
	if !ok {
		log.Warn("⚠️ No command matching interaction was found",
			"command", name, "trace_id", ic.TraceID, "error", core.ErrCommandNotFound)
		return models.Response{
			Mode:      models.ResponseReply,
			Content:   UnknownCommandMessage,
			Ephemeral: true,
			Outcome:   models.OutcomeCommandNotFound,
		}
	}

	cooldown := cmd.Cooldown().OrElse(d.defaultCooldown)
	decision := d.cooldowns.CheckAndStart(name, ic.UserID, ic.Now, cooldown)
	if !decision.Allowed {
		log.Info("⏰ Command blocked by cooldown",
			"command", name, "user_id", ic.UserID, "retry_at", decision.RetryAt, "trace_id", ic.TraceID)
		return models.Response{
			Mode:      models.ResponseReply,
			Content:   CooldownMessage(name, decision.RetryAt),
			Ephemeral: true,
			Outcome:   models.OutcomeBlocked,
			RetryAt:   decision.RetryAt,
		}
	}

	log.Info("📋 Executing command", "command", name, "user_id", ic.UserID, "trace_id", ic.TraceID)
	inv := commands.NewInvocation(ic, ack)
	response, err := runHandler(name, func() (models.Response, error) {
		return cmd.Execute(ctx, inv)
	})
	if err != nil {
		d.reportFailure(ctx, ic, err)
		mode := models.ResponseReply
		if inv.Acknowledged() {
			mode = models.ResponseFollowUp
		}
		return models.Response{
			Mode:      mode,
			Content:   GenericFailureMessage,
			Ephemeral: true,
			Outcome:   models.OutcomeFailed,
		}
	}

	response.Mode = models.ResponseReply
	if inv.Acknowledged() {
		response.Mode = models.ResponseEdit
	}
	response.Outcome = models.OutcomeResponded
	log.Info("✅ Command completed", "command", name, "trace_id", ic.TraceID)
	return response
}

func (d *Dispatcher) dispatchButton(ctx context.Context, ic models.InteractionContext, ack commands.Acknowledger) models.Response {
	kind, targetKey, ok := models.ParseCustomID(ic.CommandOrCustomID)
	if !ok {
		log.Debug("🔍 Ignoring component with unknown custom id", "custom_id", ic.CommandOrCustomID, "trace_id", ic.TraceID)
		return models.NoResponse()
	}

	switch kind {
	case models.ActionViewPlayers:
		return d.handlePlayersButton(ctx, ic, ack, targetKey)
	default:
		return d.handleRefreshButton(ctx, ic, ack, targetKey)
	}
}

func (d *Dispatcher) handlePlayersButton(
	ctx context.Context,
	ic models.InteractionContext,
	ack commands.Acknowledger,
	targetKey string,
) models.Response {
	inv := commands.NewInvocation(ic, ack)
	response, err := runHandler("players button", func() (models.Response, error) {
		if err := inv.Defer(ctx, models.DeferReplyEphemeral); err != nil {
			return models.Response{}, err
		}
		if err := d.checkTarget(targetKey); err != nil {
			return models.Response{}, err
		}

		_, roster := d.statusUseCase.RosterView(ctx, "", ic.Now)
		view, ok := roster.Get()
		if !ok {
			return models.Response{Content: commands.OfflineMessage(d.statusUseCase.Target())}, nil
		}
		return models.Response{View: &view}, nil
	})
	if err != nil {
		d.reportFailure(ctx, ic, err)
		response = models.Response{Content: PlayersFailureMessage, Outcome: models.OutcomeFailed}
	} else {
		response.Outcome = models.OutcomeResponded
	}

	response.Ephemeral = true
	response.Mode = deferredMode(inv)
	return response
}

func (d *Dispatcher) handleRefreshButton(
	ctx context.Context,
	ic models.InteractionContext,
	ack commands.Acknowledger,
	targetKey string,
) models.Response {
	inv := commands.NewInvocation(ic, ack)
	response, err := runHandler("refresh button", func() (models.Response, error) {
		if err := inv.Defer(ctx, models.DeferUpdate); err != nil {
			return models.Response{}, err
		}
		if err := d.checkTarget(targetKey); err != nil {
			return models.Response{}, err
		}

		_, view := d.statusUseCase.StatusView(ctx, true, ic.Now)
		return models.Response{View: &view}, nil
	})
	if err != nil {
		d.reportFailure(ctx, ic, err)
		view := d.statusUseCase.FailureView(RefreshFailureMessage, ic.Now)
		response = models.Response{View: &view, Outcome: models.OutcomeFailed}
	} else {
		response.Outcome = models.OutcomeResponded
	}

	response.Mode = deferredMode(inv)
	return response
}

func (d *Dispatcher) checkTarget(targetKey string) error {
	if targetKey != d.statusUseCase.Target().ButtonKey() {
		return fmt.Errorf("button targets %q: %w", targetKey, core.ErrUnknownServerKey)
	}
	return nil
}

func (d *Dispatcher) reportFailure(ctx context.Context, ic models.InteractionContext, err error) {
	logger := log.With("kind", ic.Kind, "id", ic.CommandOrCustomID, "user_id", ic.UserID, "trace_id", ic.TraceID)
	if handlerErr, ok := core.IsHandlerError(err); ok {
		logger = logger.With("handler", handlerErr.Handler, "panicked", handlerErr.Recovered)
	}
	logger.Error("❌ Interaction handler failed", "error", err)
	if d.reporter != nil {
		d.reporter.ReportError(ctx, fmt.Sprintf("interaction %s (%s)", ic.CommandOrCustomID, ic.TraceID), err)
	}
}

// deferredMode edits the acknowledged message, or replies when acknowledging failed
func deferredMode(inv *commands.Invocation) models.ResponseMode {
	if inv.Acknowledged() {
		return models.ResponseEdit
	}
	return models.ResponseReply
}

// runHandler executes fn and converts both returned errors and panics into a HandlerError
func runHandler(name string, fn func() (models.Response, error)) (response models.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr, ok := r.(error)
			if !ok {
				panicErr = fmt.Errorf("%v", r)
			}
			err = &core.HandlerError{Handler: name, Err: panicErr, Recovered: true}
		}
	}()

	response, err = fn()
	if err != nil {
		if _, ok := core.IsHandlerError(err); ok {
			return models.Response{}, err
		}
		return models.Response{}, &core.HandlerError{Handler: name, Err: err}
	}
	return response, nil
}

// CooldownMessage tells the user when a command can be used again, as a Discord relative timestamp
func CooldownMessage(command string, retryAt time.Time) string {
	unix := (retryAt.UnixMilli() + 500) / 1000
	return fmt.Sprintf("⏰ Please wait, you are on a cooldown for `%s`. You can use it again <t:%d:R>.", command, unix)
}
