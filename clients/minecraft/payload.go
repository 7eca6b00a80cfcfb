package minecraft

import (
	"strings"

	"github.com/bytedance/sonic"

	"mcmonitor/models"
)

// servers pad the sample with decorative lines that use the nil UUID
const placeholderPlayerID = "00000000-0000-0000-0000-000000000000"

type statusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type statusPlayer struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type statusPlayers struct {
	Max    int            `json:"max"`
	Online int            `json:"online"`
	Sample []statusPlayer `json:"sample"`
}

// statusPayload is the JSON document carried by the status response packet
type statusPayload struct {
	Version     statusVersion  `json:"version"`
	Players     *statusPlayers `json:"players"`
	Description any            `json:"description"` // string or chat component
}

// decodeStatus converts a status JSON document into an online status without latency
func decodeStatus(document string) (models.OnlineStatus, error) {
	var payload statusPayload
	if err := sonic.UnmarshalString(document, &payload); err != nil {
		return models.OnlineStatus{}, &protocolError{msg: "invalid status JSON", err: err}
	}

	status := models.OnlineStatus{
		VersionLabel:    strings.TrimSpace(stripFormatting(payload.Version.Name)),
		ProtocolVersion: payload.Version.Protocol,
		Motd:            strings.TrimSpace(stripFormatting(flattenDescription(payload.Description))),
		PlayerSample:    []string{},
	}

	if payload.Players == nil {
		return status, nil
	}
	if payload.Players.Online < 0 || payload.Players.Max < 0 {
		return models.OnlineStatus{}, newProtocolError(
			"negative player counts (online=%d, max=%d)", payload.Players.Online, payload.Players.Max)
	}

	status.PlayersOnline = payload.Players.Online
	status.PlayersMax = payload.Players.Max
	for _, player := range payload.Players.Sample {
		name := strings.TrimSpace(player.Name)
		if name == "" || player.ID == placeholderPlayerID {
			continue
		}
		status.PlayerSample = append(status.PlayerSample, name)
	}
	return status, nil
}

// flattenDescription extracts plain text from a string or chat component tree
func flattenDescription(description any) string {
	switch d := description.(type) {
	case string:
		return d
	case []any:
		var sb strings.Builder
		for _, part := range d {
			sb.WriteString(flattenDescription(part))
		}
		return sb.String()
	case map[string]any:
		var sb strings.Builder
		if text, ok := d["text"].(string); ok {
			sb.WriteString(text)
		}
		if extra, ok := d["extra"].([]any); ok {
			sb.WriteString(flattenDescription(extra))
		}
		return sb.String()
	default:
		return ""
	}
}

// stripFormatting removes legacy § colour and style codes
func stripFormatting(s string) string {
	if !strings.ContainsRune(s, '§') {
		return s
	}

	var sb strings.Builder
	skip := false
	for _, r := range s {
		if skip {
			skip = false
			continue
		}
		if r == '§' {
			skip = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
