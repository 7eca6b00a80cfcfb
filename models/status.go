package models

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strconv"

	"mcmonitor/utils"
)

// DefaultMinecraftPort is the port assumed when a server address omits one
const DefaultMinecraftPort = 25565

// ServerTarget identifies the single monitored Minecraft server
type ServerTarget struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Key is the stable identifier of the target, host and port joined
func (t ServerTarget) Key() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ButtonKey is the form of Key embedded in button ids. Keys that would push a
// custom id past MaxCustomIDLength are replaced by a short digest of the key.
func (t ServerTarget) ButtonKey() string {
	key := t.Key()
	if len(key) <= maxButtonKeyLength {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return hashedKeyPrefix + hex.EncodeToString(sum[:8])
}

// Address is the human-facing form of the target; the default port is omitted
func (t ServerTarget) Address() string {
	if t.Port == DefaultMinecraftPort {
		return t.Host
	}
	return t.Key()
}

// ErrorKind classifies why a status query did not produce an online result
type ErrorKind string

const (
	ErrorKindTimeout       ErrorKind = "timeout"
	ErrorKindUnreachable   ErrorKind = "unreachable"
	ErrorKindProtocolError ErrorKind = "protocol_error"
)

// OnlineStatus is the populated variant of a successful status query
type OnlineStatus struct {
	LatencyMs       int64    `json:"latency_ms"`
	PlayersOnline   int      `json:"players_online"`
	PlayersMax      int      `json:"players_max"`
	PlayerSample    []string `json:"player_sample"`
	VersionLabel    string   `json:"version"`
	ProtocolVersion int      `json:"protocol_version"`
	Motd            string   `json:"motd,omitempty"`
}

// OfflineStatus is the populated variant of a failed status query
type OfflineStatus struct {
	Reason ErrorKind `json:"reason"`
	Detail string    `json:"detail"`
}

// QueryResult holds exactly one of Online or Offline
type QueryResult struct {
	Online  *OnlineStatus  `json:"online,omitempty"`
	Offline *OfflineStatus `json:"offline,omitempty"`
}

// NewOnlineResult builds an online result, normalizing counts so that
// PlayersOnline never exceeds PlayersMax and the sample never exceeds PlayersMax.
func NewOnlineResult(status OnlineStatus) QueryResult {
	utils.AssertInvariant(status.PlayersOnline >= 0 && status.PlayersMax >= 0, "player counts cannot be negative")
	utils.AssertInvariant(status.LatencyMs >= 0, "latency cannot be negative")

	if status.PlayersOnline > status.PlayersMax {
		status.PlayersMax = status.PlayersOnline
	}
	if status.PlayerSample == nil {
		status.PlayerSample = []string{}
	}
	if len(status.PlayerSample) > status.PlayersMax {
		status.PlayerSample = status.PlayerSample[:status.PlayersMax]
	}
	return QueryResult{Online: &status}
}

func NewOfflineResult(reason ErrorKind, detail string) QueryResult {
	return QueryResult{Offline: &OfflineStatus{Reason: reason, Detail: detail}}
}

func (r QueryResult) IsOnline() bool {
	utils.AssertInvariant((r.Online == nil) != (r.Offline == nil), "query result must hold exactly one variant")
	return r.Online != nil
}
