package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"mcmonitor/models"
)

// HelpCommand lists the registered commands
type HelpCommand struct {
	registry        *Registry
	defaultCooldown time.Duration
}

func NewHelpCommand(registry *Registry, defaultCooldown time.Duration) *HelpCommand {
	return &HelpCommand{registry: registry, defaultCooldown: defaultCooldown}
}

func (c *HelpCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "help",
		Description: "List the available commands",
	}
}

func (c *HelpCommand) Cooldown() mo.Option[time.Duration] {
	return mo.None[time.Duration]()
}

func (c *HelpCommand) Execute(ctx context.Context, inv *Invocation) (models.Response, error) {
	view := models.ViewModel{
		Title:           "📖 Available commands",
		StatusLine:      "Commands can be run again once their cooldown has passed.",
		Tone:            models.ToneInfo,
		FooterTimestamp: inv.Interaction.Now,
	}

	for _, cmd := range c.registry.All() {
		definition := cmd.Definition()
		cooldown := cmd.Cooldown().OrElse(c.defaultCooldown)
		view.Fields = append(view.Fields, models.Field{
			Label: "/" + definition.Name,
			Value: fmt.Sprintf("%s\nCooldown: %s", definition.Description, cooldown),
		})
	}
	return models.Response{View: &view, Ephemeral: true}, nil
}
