package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"mcmonitor/models"
)

// Command is the contract every slash command implements. The definition carries
// the name, description and parameter schema registered with Discord.
type Command interface {
	Definition() *discordgo.ApplicationCommand
	// Cooldown overrides the default per-user cooldown when present
	Cooldown() mo.Option[time.Duration]
	Execute(ctx context.Context, inv *Invocation) (models.Response, error)
}

// Acknowledger sends the deferred acknowledgement for an interaction
type Acknowledger interface {
	Acknowledge(ctx context.Context, kind models.DeferKind) error
}

// Invocation is the per-event state handed to a command
type Invocation struct {
	Interaction  models.InteractionContext
	ack          Acknowledger
	acknowledged bool
}

func NewInvocation(interaction models.InteractionContext, ack Acknowledger) *Invocation {
	return &Invocation{Interaction: interaction, ack: ack}
}

// Defer acknowledges the interaction once; later calls are no-ops
func (inv *Invocation) Defer(ctx context.Context, kind models.DeferKind) error {
	if inv.acknowledged {
		return nil
	}
	if err := inv.ack.Acknowledge(ctx, kind); err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}
	inv.acknowledged = true
	return nil
}

// Acknowledged reports whether a deferred acknowledgement was sent
func (inv *Invocation) Acknowledged() bool {
	return inv.acknowledged
}

// Registry holds the commands known to the bot, keyed by name
type Registry struct {
	commands map[string]Command
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command; names must be non-empty, lowercase and unique
func (r *Registry) Register(cmd Command) error {
	definition := cmd.Definition()
	if definition == nil || strings.TrimSpace(definition.Name) == "" {
		return fmt.Errorf("command definition must have a name")
	}
	name := definition.Name
	if name != strings.ToLower(name) {
		return fmt.Errorf("command name %q must be lowercase", name)
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %q is already registered", name)
	}

	r.commands[name] = cmd
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Lookup(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// All returns the registered commands in registration order
func (r *Registry) All() []Command {
	all := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.commands[name])
	}
	return all
}

// Definitions returns the application command payloads to register with Discord
func (r *Registry) Definitions() []*discordgo.ApplicationCommand {
	definitions := make([]*discordgo.ApplicationCommand, 0, len(r.order))
	for _, cmd := range r.All() {
		definitions = append(definitions, cmd.Definition())
	}
	return definitions
}
