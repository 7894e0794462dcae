// Package connection maintains the push socket to a live room.
package connection

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/protocol"
	"github.com/yndnr/livewatch-go/internal/room"
	"github.com/yndnr/livewatch-go/internal/signer"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
	"github.com/yndnr/livewatch-go/internal/telemetry/metric"
)

const (
	// defaultInitialRetries bounds the initial connect procedure.
	defaultInitialRetries = 3

	handshakeTimeout    = 10 * time.Second
	writeTimeout        = 10 * time.Second
	defaultPingInterval = 30 * time.Second
	pongTimeout         = 10 * time.Second

	// frameBuffer absorbs bursts while the consumer is busy.
	frameBuffer = 256
)

// Config carries the connection parameters for one room.
type Config struct {
	// LiveID is the watched live ID, used as logging identity.
	LiveID string
	// RoomID is the resolved room identity for the push handshake.
	RoomID string
	// Token is the ttwid cookie value. May be empty on a degraded
	// session.
	Token string
	// Signer signs the connection URL.
	Signer signer.Signer
	// Endpoint overrides the push endpoint. Defaults to
	// DefaultEndpoint.
	Endpoint string
	// DeviceID is the device identity presented on the push
	// handshake. Defaults to a built-in identity.
	DeviceID string
	// InitialRetries bounds the initial connect procedure.
	// Defaults to 3.
	InitialRetries int
	// InitialRetryDelay is the pause between bounded initial
	// attempts. Defaults to 3s.
	InitialRetryDelay time.Duration
	// ReconnectDelay is the flat pause between reconnect attempts
	// after a drop. Defaults to 5s.
	ReconnectDelay time.Duration
	// HeartbeatInterval is the pause between application heartbeat
	// frames. Defaults to 10s.
	HeartbeatInterval time.Duration
	// PingInterval is the pause between transport-level pings; the
	// read deadline tracks it. Defaults to 30s.
	PingInterval time.Duration
}

// normalize fills config defaults.
func (c *Config) normalize() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.DeviceID == "" {
		c.DeviceID = pushDeviceID
	}
	if c.InitialRetries <= 0 {
		c.InitialRetries = defaultInitialRetries
	}
	if c.InitialRetryDelay <= 0 {
		c.InitialRetryDelay = 3 * time.Second
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 5 * time.Second
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 10 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
}

// Manager owns the push socket for one room.
//
// A Manager is single use: Start once, Stop once. Frames() yields
// parsed inbound frames and closes when the manager terminates.
type Manager struct {
	cfg     Config
	logger  logger.Logger
	metrics *metric.Metrics
	dialer  *websocket.Dialer

	state atomic.Int32

	mu      sync.Mutex // guards conn swap
	writeMu sync.Mutex // serialises all conn writes (ack, heartbeat, ping, close)
	conn    *websocket.Conn

	frames chan *protocol.Frame

	started atomic.Bool
	stopped atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for the manager.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithMetrics attaches connection metrics.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithDialer overrides the WebSocket dialer.
func WithDialer(dialer *websocket.Dialer) Option {
	return func(m *Manager) {
		m.dialer = dialer
	}
}

// NewManager creates a manager for the given room.
func NewManager(cfg Config, opts ...Option) *Manager {
	cfg.normalize()

	m := &Manager{
		cfg:    cfg,
		logger: logger.Default(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
		frames: make(chan *protocol.Frame, frameBuffer),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Frames returns the inbound frame channel. It closes when the
// manager terminates.
func (m *Manager) Frames() <-chan *protocol.Frame {
	return m.frames
}

// State returns the current connection state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Start runs the initial connect procedure and, on success, launches
// the read and reconnect machinery.
//
// Network failures are retried up to InitialRetries times. Signature
// failures abort immediately: a rejected signature never improves by
// retrying the same script.
func (m *Manager) Start(ctx context.Context) error {
	m.setState(StateConnecting)

	var lastErr error
	for attempt := 1; attempt <= m.cfg.InitialRetries; attempt++ {
		err := m.connect(ctx)
		if err == nil {
			m.started.Store(true)
			go m.run(ctx)
			return nil
		}

		if domain.IsSignatureError(err) {
			m.setState(StateDisconnected)
			return err
		}

		lastErr = err
		m.logger.Warn("connect attempt failed",
			"attempt", attempt,
			"max_attempts", m.cfg.InitialRetries,
			"error", err,
		)

		if attempt < m.cfg.InitialRetries && !m.sleep(ctx, m.cfg.InitialRetryDelay) {
			break
		}
	}

	m.setState(StateDisconnected)
	return domain.ErrConnectExhausted.WithCause(lastErr)
}

// Stop closes the socket and waits until the read machinery exits.
// It is safe to call more than once.
func (m *Manager) Stop() {
	if !m.stopped.CompareAndSwap(false, true) {
		return
	}

	m.setState(StateClosing)
	close(m.stopCh)

	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		m.writeMu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		m.writeMu.Unlock()
		conn.Close()
	}

	if m.started.Load() {
		<-m.doneCh
	}
	m.setState(StateTerminated)

	m.logger.Info("push socket stopped", "live_id", m.cfg.LiveID)
}

// SendAck acknowledges a server batch.
func (m *Manager) SendAck(logID uint64, internalExt string) error {
	conn := m.current()
	if conn == nil {
		return domain.ErrSendFailed.WithDetails("not connected")
	}

	if err := m.writeFrame(conn, protocol.NewAck(logID, internalExt)); err != nil {
		return err
	}

	if m.metrics != nil {
		m.metrics.AcksSent.Inc()
	}
	return nil
}

// connect makes one connect attempt: compose and sign the URL, dial,
// and on success install the socket and its keepalive loops.
func (m *Manager) connect(ctx context.Context) error {
	wsURL, err := m.buildURL()
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("User-Agent", room.UserAgent)
	if m.cfg.Token != "" {
		header.Set("Cookie", "ttwid="+m.cfg.Token)
	}

	conn, resp, err := m.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return domain.ErrConnectFailed.
				WithDetails(fmt.Sprintf("handshake status %d", resp.StatusCode)).
				WithCause(err)
		}
		return domain.ErrConnectFailed.WithCause(err)
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	m.setState(StateConnected)

	go m.heartbeatLoop(conn)
	go m.pingLoop(conn)

	m.logger.Info("push socket connected",
		"live_id", m.cfg.LiveID,
		"room_id", m.cfg.RoomID,
	)
	return nil
}

// run owns the read loop and the post-drop reconnect loop. It closes
// the frame channel on exit.
func (m *Manager) run(ctx context.Context) {
	defer close(m.doneCh)
	defer close(m.frames)

	for {
		conn := m.current()
		if conn == nil {
			m.setState(StateTerminated)
			return
		}

		m.readFrames(conn)

		if m.stopping(ctx) {
			m.setState(StateTerminated)
			return
		}

		m.setState(StateReconnecting)
		if m.metrics != nil {
			m.metrics.Reconnects.Inc()
		}
		m.logger.Warn("connection lost, reconnecting",
			"live_id", m.cfg.LiveID,
			"delay", m.cfg.ReconnectDelay,
		)

		// Flat delay, unbounded: the session keeps trying for as
		// long as it runs. Signature failures wait like network
		// failures here; the script may be replaced underneath us.
		for {
			if !m.sleep(ctx, m.cfg.ReconnectDelay) {
				m.setState(StateTerminated)
				return
			}
			if err := m.connect(ctx); err != nil {
				m.logger.Warn("reconnect failed", "error", err)
				continue
			}
			break
		}
	}
}

// readFrames pumps inbound frames until the socket dies.
func (m *Manager) readFrames(conn *websocket.Conn) {
	deadline := m.cfg.PingInterval + pongTimeout
	conn.SetReadDeadline(time.Now().Add(deadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			if m.conn == conn {
				m.conn = nil
			}
			m.mu.Unlock()
			conn.Close()
			if !m.stopped.Load() {
				m.logger.Warn("socket read failed",
					"error", domain.ErrSocketClosed.WithCause(err),
				)
			}
			return
		}

		// Inbound traffic proves liveness as well as pongs do.
		conn.SetReadDeadline(time.Now().Add(deadline))

		if m.metrics != nil {
			m.metrics.FramesReceived.Inc()
		}

		frame, err := protocol.ParseFrame(data)
		if err != nil {
			if m.metrics != nil {
				m.metrics.ParseErrors.WithLabelValues("frame").Inc()
			}
			m.logger.Debug("unparseable frame dropped",
				"bytes", len(data),
				"error", err,
			)
			continue
		}

		select {
		case m.frames <- frame:
		case <-m.stopCh:
			return
		}
	}
}

// heartbeatLoop sends application heartbeats on the given socket.
// A send failure stops only this loop; the read loop notices the
// dead socket and owns reconnection.
func (m *Manager) heartbeatLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			if m.current() != conn {
				return
			}
			if err := m.writeFrame(conn, protocol.NewHeartbeat()); err != nil {
				m.logger.Warn("heartbeat send failed", "error", err)
				return
			}
			if m.metrics != nil {
				m.metrics.HeartbeatsSent.Inc()
			}
			m.logger.Debug("heartbeat sent")
		}
	}
}

// pingLoop sends protocol-level pings on the given socket. It exits
// when the socket is replaced or the manager stops.
func (m *Manager) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(m.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			if m.current() != conn {
				return
			}
			m.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			m.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// writeFrame marshals and writes one frame under the write mutex.
func (m *Manager) writeFrame(conn *websocket.Conn, frame *protocol.Frame) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Marshal()); err != nil {
		return domain.ErrSendFailed.WithCause(err)
	}
	return nil
}

// current returns the live socket, or nil between connections.
func (m *Manager) current() *websocket.Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

// stopping reports whether shutdown has been requested.
func (m *Manager) stopping(ctx context.Context) bool {
	if m.stopped.Load() {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// sleep waits for d. Returns false if shutdown interrupted the wait.
func (m *Manager) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-m.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

// setState records the state and mirrors it to the state gauge.
func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
	if m.metrics != nil {
		m.metrics.ConnectionState.Set(float64(s))
	}
}
