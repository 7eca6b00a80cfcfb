package minecraft

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"mcmonitor/clients"
	"mcmonitor/core/log"
	"mcmonitor/models"
)

// DefaultTimeout is used when Query is called without a positive timeout
const DefaultTimeout = 5 * time.Second

// Resolver looks up SRV records; *net.Resolver satisfies it
type Resolver interface {
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
}

// MinecraftClient implements clients.MinecraftClient with the Server List Ping protocol.
// It keeps no per-query state, so one instance serves concurrent queries.
type MinecraftClient struct {
	dialer    *net.Dialer
	resolver  Resolver
	lookupSRV bool
}

type Option func(*MinecraftClient)

// WithSRVLookup enables resolving _minecraft._tcp records for targets on the default port
func WithSRVLookup(enabled bool) Option {
	return func(c *MinecraftClient) {
		c.lookupSRV = enabled
	}
}

func WithResolver(resolver Resolver) Option {
	return func(c *MinecraftClient) {
		c.resolver = resolver
	}
}

// NewMinecraftClient creates a status query client
func NewMinecraftClient(opts ...Option) *MinecraftClient {
	c := &MinecraftClient{
		dialer:   &net.Dialer{KeepAlive: -1},
		resolver: net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ clients.MinecraftClient = (*MinecraftClient)(nil)

// Query asks the target for its status. Failures never escape as errors; they are
// classified into an offline result. The connection is closed on every path and is
// torn down as soon as the timeout expires.
func (c *MinecraftClient) Query(
	ctx context.Context,
	target models.ServerTarget,
	timeout time.Duration,
) models.QueryResult {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	host, port := c.resolve(ctx, target)
	status, err := c.ping(ctx, host, port)
	if err != nil {
		result := classifyError(ctx, err, timeout)
		log.Warn("⚠️ Minecraft status query failed",
			"target", target.Key(),
			"reason", result.Offline.Reason,
			"detail", result.Offline.Detail)
		return result
	}

	log.Debug("✅ Minecraft status query succeeded",
		"target", target.Key(),
		"players_online", status.PlayersOnline,
		"latency_ms", status.LatencyMs)
	return models.NewOnlineResult(status)
}

func (c *MinecraftClient) resolve(ctx context.Context, target models.ServerTarget) (string, int) {
	if !c.lookupSRV || target.Port != models.DefaultMinecraftPort || net.ParseIP(target.Host) != nil {
		return target.Host, target.Port
	}

	_, records, err := c.resolver.LookupSRV(ctx, "minecraft", "tcp", target.Host)
	if err != nil || len(records) == 0 {
		log.Debug("🔍 No SRV record for target, using literal address", "target", target.Key(), "error", err)
		return target.Host, target.Port
	}

	host := strings.TrimSuffix(records[0].Target, ".")
	port := int(records[0].Port)
	log.Debug("🔍 Resolved SRV record", "target", target.Key(), "host", host, "port", port)
	return host, port
}

// dialError marks failures to establish the connection
type dialError struct {
	err error
}

func (e *dialError) Error() string { return e.err.Error() }
func (e *dialError) Unwrap() error { return e.err }

func (c *MinecraftClient) ping(ctx context.Context, host string, port int) (models.OnlineStatus, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return models.OnlineStatus{}, &dialError{err: err}
	}
	defer conn.Close()

	// Abort blocked reads and writes the moment the context ends
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return models.OnlineStatus{}, fmt.Errorf("failed to set connection deadline: %w", err)
		}
	}

	if _, err := conn.Write(handshakePacket(host, port)); err != nil {
		return models.OnlineStatus{}, fmt.Errorf("failed to send handshake: %w", err)
	}

	start := time.Now()
	if _, err := conn.Write(statusRequestPacket()); err != nil {
		return models.OnlineStatus{}, fmt.Errorf("failed to send status request: %w", err)
	}

	id, payload, err := readPacket(bufio.NewReader(conn))
	if err != nil {
		return models.OnlineStatus{}, err
	}
	latency := time.Since(start).Milliseconds()

	if id != packetIDStatusResponse {
		return models.OnlineStatus{}, newProtocolError("unexpected packet id 0x%02x", id)
	}
	document, err := readString(payload)
	if err != nil {
		return models.OnlineStatus{}, err
	}

	status, err := decodeStatus(document)
	if err != nil {
		return models.OnlineStatus{}, err
	}
	status.LatencyMs = latency
	return status, nil
}

func classifyError(ctx context.Context, err error, timeout time.Duration) models.QueryResult {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return models.NewOfflineResult(models.ErrorKindTimeout, fmt.Sprintf("no response within %s", timeout))
		}
		return models.NewOfflineResult(models.ErrorKindTimeout, "query cancelled")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.NewOfflineResult(models.ErrorKindTimeout, fmt.Sprintf("no response within %s", timeout))
	}

	var dialErr *dialError
	if errors.As(err, &dialErr) {
		return models.NewOfflineResult(models.ErrorKindUnreachable, dialErr.Error())
	}

	var protoErr *protocolError
	if errors.As(err, &protoErr) {
		return models.NewOfflineResult(models.ErrorKindProtocolError, protoErr.Error())
	}

	// Write or read failures on an established connection (reset, closed by peer)
	return models.NewOfflineResult(models.ErrorKindProtocolError, err.Error())
}
