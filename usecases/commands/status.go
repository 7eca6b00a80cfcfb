package commands

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"mcmonitor/models"
	"mcmonitor/usecases/status"
)

// StatusCommand shows the full server status with refresh and player buttons
type StatusCommand struct {
	statusUseCase *status.StatusUseCase
	cooldown      mo.Option[time.Duration]
}

func NewStatusCommand(statusUseCase *status.StatusUseCase, cooldown mo.Option[time.Duration]) *StatusCommand {
	return &StatusCommand{statusUseCase: statusUseCase, cooldown: cooldown}
}

func (c *StatusCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "status",
		Description: "Show the Minecraft server status",
	}
}

func (c *StatusCommand) Cooldown() mo.Option[time.Duration] {
	return c.cooldown
}

func (c *StatusCommand) Execute(ctx context.Context, inv *Invocation) (models.Response, error) {
	if err := inv.Defer(ctx, models.DeferReply); err != nil {
		return models.Response{}, err
	}

	_, view := c.statusUseCase.StatusView(ctx, false, inv.Interaction.Now)
	return models.Response{View: &view}, nil
}
