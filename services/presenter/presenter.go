package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"

	"mcmonitor/models"
)

// Field labels used in rendered views
const (
	FieldStatus      = "Status"
	FieldPlayers     = "Players"
	FieldVersion     = "Version"
	FieldLatency     = "Latency"
	FieldAddress     = "Address"
	FieldMotd        = "MOTD"
	FieldReason      = "Reason"
	FieldDetails     = "Details"
	FieldChange      = "Change"
	FieldLastUpdated = "Last Updated"
)

const (
	statusOnline  = "🟢 Online"
	statusOffline = "🔴 Offline"
)

// Presenter turns query results into view models. It holds only immutable
// display settings and performs no I/O.
type Presenter struct {
	serverName string
}

// NewPresenter creates a presenter; serverName is shown in view titles
func NewPresenter(serverName string) *Presenter {
	return &Presenter{serverName: strings.TrimSpace(serverName)}
}

// Present builds the status view. previous, when present, adds a field describing
// what changed; forRefresh adds a last-updated field.
func (p *Presenter) Present(
	result models.QueryResult,
	previous mo.Option[models.QueryResult],
	target models.ServerTarget,
	forRefresh bool,
	now time.Time,
) models.ViewModel {
	view := models.ViewModel{
		Title:           p.title(target),
		FooterTimestamp: now,
	}

	if result.IsOnline() {
		online := result.Online
		view.Tone = models.ToneOnline
		view.StatusLine = fmt.Sprintf("%s · %d/%d players", statusOnline, online.PlayersOnline, online.PlayersMax)
		view.Fields = append(view.Fields,
			models.Field{Label: FieldStatus, Value: statusOnline, Inline: true},
			models.Field{Label: FieldPlayers, Value: fmt.Sprintf("%d/%d", online.PlayersOnline, online.PlayersMax), Inline: true},
			models.Field{Label: FieldLatency, Value: fmt.Sprintf("%dms", online.LatencyMs), Inline: true},
			models.Field{Label: FieldVersion, Value: valueOr(online.VersionLabel, "Unknown"), Inline: true},
			models.Field{Label: FieldAddress, Value: target.Address(), Inline: true},
		)
		if online.Motd != "" {
			view.Fields = append(view.Fields, models.Field{Label: FieldMotd, Value: online.Motd})
		}

		view.Actions = append(view.Actions, models.Action{
			Kind:     models.ActionRefresh,
			CustomID: models.CustomID(models.ActionRefresh, target.ButtonKey()),
		})
		if online.PlayersOnline > 0 {
			view.Actions = append(view.Actions, models.Action{
				Kind:     models.ActionViewPlayers,
				CustomID: models.CustomID(models.ActionViewPlayers, target.ButtonKey()),
				Count:    online.PlayersOnline,
			})
		}
	} else {
		offline := result.Offline
		view.Tone = models.ToneOffline
		view.StatusLine = statusOffline + " / unreachable"
		view.Fields = append(view.Fields,
			models.Field{Label: FieldStatus, Value: statusOffline, Inline: true},
			models.Field{Label: FieldAddress, Value: target.Address(), Inline: true},
			models.Field{Label: FieldReason, Value: describeReason(offline.Reason), Inline: true},
		)
		if offline.Detail != "" {
			view.Fields = append(view.Fields, models.Field{Label: FieldDetails, Value: offline.Detail})
		}

		view.Actions = []models.Action{{
			Kind:     models.ActionRetry,
			CustomID: models.CustomID(models.ActionRetry, target.ButtonKey()),
		}}
	}

	if prev, ok := previous.Get(); ok {
		if change := describeChange(prev, result); change != "" {
			view.Fields = append(view.Fields, models.Field{Label: FieldChange, Value: change})
		}
	}
	if forRefresh {
		view.Fields = append(view.Fields, models.Field{
			Label:  FieldLastUpdated,
			Value:  now.UTC().Format("15:04:05 UTC"),
			Inline: true,
		})
	}
	return view
}

// PresentRoster builds the player drill-down view. filter narrows the listed names
// by case-insensitive substring.
func (p *Presenter) PresentRoster(
	online models.OnlineStatus,
	target models.ServerTarget,
	filter string,
	now time.Time,
) models.ViewModel {
	view := models.ViewModel{
		Title:           "👥 Players on " + p.displayName(target),
		StatusLine:      fmt.Sprintf("%d/%d players online", online.PlayersOnline, online.PlayersMax),
		Tone:            models.ToneOnline,
		FooterTimestamp: now,
	}

	view.Fields = []models.Field{{Label: FieldPlayers, Value: rosterText(online, strings.TrimSpace(filter))}}
	return view
}

// PresentFailure builds the view shown when refreshing the status failed. Its only
// action is a retry.
func (p *Presenter) PresentFailure(target models.ServerTarget, message string, now time.Time) models.ViewModel {
	return models.ViewModel{
		Title:      p.title(target),
		StatusLine: message,
		Tone:       models.ToneError,
		Fields: []models.Field{
			{Label: FieldAddress, Value: target.Address(), Inline: true},
			{Label: FieldLastUpdated, Value: now.UTC().Format("15:04:05 UTC"), Inline: true},
		},
		Actions: []models.Action{{
			Kind:     models.ActionRetry,
			CustomID: models.CustomID(models.ActionRetry, target.ButtonKey()),
		}},
		FooterTimestamp: now,
	}
}

func rosterText(online models.OnlineStatus, filter string) string {
	if len(online.PlayerSample) == 0 {
		if online.PlayersOnline == 0 {
			return "Nobody is online right now."
		}
		return "No player sample available."
	}

	names := online.PlayerSample
	if filter != "" {
		needle := strings.ToLower(filter)
		names = make([]string, 0, len(online.PlayerSample))
		for _, name := range online.PlayerSample {
			if strings.Contains(strings.ToLower(name), needle) {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return fmt.Sprintf("No listed players match %q.", filter)
		}
	}

	lines := make([]string, 0, len(names)+1)
	for _, name := range names {
		lines = append(lines, "• "+name)
	}
	if hidden := online.PlayersOnline - len(online.PlayerSample); hidden > 0 {
		lines = append(lines, fmt.Sprintf("+%d more not listed", hidden))
	}
	return strings.Join(lines, "\n")
}

func describeChange(previous, current models.QueryResult) string {
	switch {
	case !previous.IsOnline() && current.IsOnline():
		return "🟢 Came back online"
	case previous.IsOnline() && !current.IsOnline():
		return "🔴 Went offline"
	case previous.IsOnline() && current.IsOnline():
		delta := current.Online.PlayersOnline - previous.Online.PlayersOnline
		switch {
		case delta == 1 || delta == -1:
			return fmt.Sprintf("%+d player since last check", delta)
		case delta != 0:
			return fmt.Sprintf("%+d players since last check", delta)
		}
	}
	return ""
}

func describeReason(reason models.ErrorKind) string {
	switch reason {
	case models.ErrorKindTimeout:
		return "Timed out"
	case models.ErrorKindUnreachable:
		return "Unreachable"
	case models.ErrorKindProtocolError:
		return "Invalid response"
	default:
		return string(reason)
	}
}

func (p *Presenter) title(target models.ServerTarget) string {
	return "🎮 " + p.displayName(target) + " Server Status"
}

func (p *Presenter) displayName(target models.ServerTarget) string {
	return valueOr(p.serverName, target.Address())
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
