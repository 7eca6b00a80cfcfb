package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"mcmonitor/models"
	"mcmonitor/usecases/status"
)

// PlayersFilterOption is the optional name filter of the players command
const PlayersFilterOption = "filter"

// PlayersCommand lists the players currently online
type PlayersCommand struct {
	statusUseCase *status.StatusUseCase
	cooldown      mo.Option[time.Duration]
}

func NewPlayersCommand(statusUseCase *status.StatusUseCase, cooldown mo.Option[time.Duration]) *PlayersCommand {
	return &PlayersCommand{statusUseCase: statusUseCase, cooldown: cooldown}
}

func (c *PlayersCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "players",
		Description: "List the players online on the Minecraft server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        PlayersFilterOption,
				Description: "Only show players whose name contains this text",
				Required:    false,
				MaxLength:   16,
			},
		},
	}
}

func (c *PlayersCommand) Cooldown() mo.Option[time.Duration] {
	return c.cooldown
}

func (c *PlayersCommand) Execute(ctx context.Context, inv *Invocation) (models.Response, error) {
	if err := inv.Defer(ctx, models.DeferReplyEphemeral); err != nil {
		return models.Response{}, err
	}

	_, roster := c.statusUseCase.RosterView(ctx, inv.Interaction.Option(PlayersFilterOption), inv.Interaction.Now)
	view, ok := roster.Get()
	if !ok {
		return models.Response{Content: OfflineMessage(c.statusUseCase.Target()), Ephemeral: true}, nil
	}
	return models.Response{View: &view, Ephemeral: true}, nil
}

// OfflineMessage is shown when a player list is requested while the server is down
func OfflineMessage(target models.ServerTarget) string {
	return fmt.Sprintf("❌ %s is currently offline or unreachable.", target.Address())
}
