package recorder

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/yndnr/livewatch-go/internal/connection"
	"github.com/yndnr/livewatch-go/internal/core/aggregate"
	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/dispatch"
	"github.com/yndnr/livewatch-go/internal/room"
	"github.com/yndnr/livewatch-go/internal/signer"
	"github.com/yndnr/livewatch-go/internal/storage/snapshot"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
	"github.com/yndnr/livewatch-go/internal/telemetry/metric"
)

// Config carries everything one recording session needs.
type Config struct {
	// LiveID is the room handle to record.
	LiveID string
	// DataDir is where snapshot documents are written.
	DataDir string
	// Signer signs the push connection URL.
	Signer signer.Signer

	// SnapshotInterval is the period between persisted snapshots.
	// Defaults to 300s.
	SnapshotInterval time.Duration
	// HeartbeatInterval is passed through to the connection manager.
	HeartbeatInterval time.Duration
	// PingInterval is passed through to the connection manager.
	PingInterval time.Duration
	// InitialRetries bounds the first-connect attempts.
	InitialRetries int
	// InitialRetryDelay is the pause between first-connect attempts.
	InitialRetryDelay time.Duration
	// ReconnectDelay is the flat pause before re-dialing a lost
	// connection.
	ReconnectDelay time.Duration
	// DeviceID overrides the device identity on the push handshake.
	DeviceID string
	// HTTPTimeout bounds the room page and token requests. Defaults
	// to 10s.
	HTTPTimeout time.Duration

	// Endpoint overrides the push socket endpoint.
	Endpoint string
	// BaseURL overrides the platform web endpoint used for room
	// resolution and token harvest.
	BaseURL string
}

// normalize fills config defaults.
func (c *Config) normalize() {
	if c.SnapshotInterval <= 0 {
		c.SnapshotInterval = 300 * time.Second
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	if c.BaseURL == "" {
		c.BaseURL = room.DefaultBaseURL
	}
}

// Recorder runs one recording session: resolve the room, hold the
// push socket, fan decoded events into the aggregate, and persist
// snapshots until stopped.
//
// A Recorder is single use: Start once, Stop once.
type Recorder struct {
	cfg     Config
	logger  logger.Logger
	metrics *metric.Metrics

	session    *domain.Session
	store      *aggregate.Store
	writer     *snapshot.Writer
	manager    *connection.Manager
	dispatcher *dispatch.Dispatcher

	started      atomic.Bool
	stopped      atomic.Bool
	stopCh       chan struct{}
	dispatchDone chan struct{}
	snapshotDone chan struct{}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger for the recorder and everything it owns.
func WithLogger(l logger.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// WithMetrics attaches metrics to the recorder and everything it owns.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(r *Recorder) {
		r.metrics = metrics
	}
}

// New creates a recorder for the given room.
func New(cfg Config, opts ...Option) *Recorder {
	cfg.normalize()

	r := &Recorder{
		cfg:          cfg,
		logger:       logger.Default(),
		store:        aggregate.New(),
		stopCh:       make(chan struct{}),
		dispatchDone: make(chan struct{}),
		snapshotDone: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Session returns the session identity. Valid after Start succeeds.
func (r *Recorder) Session() *domain.Session {
	return r.session
}

// Counts returns the running totals for progress reporting.
func (r *Recorder) Counts() aggregate.Counts {
	return r.store.Counts()
}

// Start bootstraps the session and launches the ingest machinery.
// It returns once the socket is up; recording then runs until Stop.
func (r *Recorder) Start(ctx context.Context) error {
	httpClient := &http.Client{Timeout: r.cfg.HTTPTimeout}

	// 1. Resolve the room identity. Best effort: on failure the live
	// id doubles as the room id and the room is reported offline.
	tokens := room.NewTokenProvider(
		room.WithTokenBaseURL(r.cfg.BaseURL),
		room.WithTokenHTTPClient(httpClient),
		room.WithTokenLogger(r.logger),
	)
	resolver := room.NewResolver(r.cfg.LiveID, tokens,
		room.WithResolverBaseURL(r.cfg.BaseURL),
		room.WithResolverHTTPClient(httpClient),
		room.WithResolverLogger(r.logger),
	)
	res := resolver.Resolve(ctx)

	// 2. Build the session identity and continue the ordinal sequence
	// from earlier recordings of this room.
	session, err := domain.NewSession(r.cfg.LiveID)
	if err != nil {
		return err
	}
	session.RoomID = res.RoomID
	session.IsLive = res.IsLive

	ordinal, err := snapshot.NextOrdinal(r.cfg.DataDir, r.cfg.LiveID)
	if err != nil {
		return err
	}
	session.Ordinal = ordinal

	if err := session.Validate(); err != nil {
		return err
	}
	r.session = session
	r.store.SetIsLive(res.IsLive)

	// 3. Create the snapshot writer; this also creates the data
	// directory so persistence problems surface before dialing.
	writer, err := snapshot.NewWriter(r.cfg.DataDir, session,
		snapshot.WithLogger(r.logger),
		snapshot.WithMetrics(r.metrics),
	)
	if err != nil {
		return err
	}
	r.writer = writer

	// 4. Bring up the push socket.
	manager := connection.NewManager(connection.Config{
		LiveID:            session.LiveID,
		RoomID:            session.RoomID,
		Token:             tokens.Token(ctx),
		Signer:            r.cfg.Signer,
		Endpoint:          r.cfg.Endpoint,
		DeviceID:          r.cfg.DeviceID,
		InitialRetries:    r.cfg.InitialRetries,
		InitialRetryDelay: r.cfg.InitialRetryDelay,
		ReconnectDelay:    r.cfg.ReconnectDelay,
		HeartbeatInterval: r.cfg.HeartbeatInterval,
		PingInterval:      r.cfg.PingInterval,
	},
		connection.WithLogger(r.logger),
		connection.WithMetrics(r.metrics),
	)
	if err := manager.Start(ctx); err != nil {
		return err
	}
	r.manager = manager

	// 5. Wire dispatch and launch the ingest and snapshot loops.
	r.dispatcher = dispatch.New(r.store, manager,
		dispatch.WithLogger(r.logger),
		dispatch.WithMetrics(r.metrics),
	)
	r.started.Store(true)
	go r.dispatchLoop()
	go r.snapshotLoop()

	r.logger.Info("recording started",
		"live_id", session.LiveID,
		"room_id", session.RoomID,
		"session", session.Ordinal,
		"run_id", session.RunID,
		"is_live", session.IsLive,
		"path", writer.Path(),
	)
	return nil
}

// Stop shuts the session down: socket first, then the loops, then one
// final snapshot. It is safe to call more than once and safe to call
// after a failed Start.
func (r *Recorder) Stop() {
	if !r.stopped.CompareAndSwap(false, true) {
		return
	}
	close(r.stopCh)

	if !r.started.Load() {
		return
	}

	// 1. Stop the socket. The frame channel closes behind it and the
	// dispatch loop drains whatever was already queued.
	r.manager.Stop()
	<-r.dispatchDone
	<-r.snapshotDone

	// 2. One final snapshot so the file carries everything up to the
	// moment of shutdown.
	if err := r.writer.Write(r.store.Snapshot()); err != nil {
		r.logger.Error("final snapshot failed", "error", err)
	}

	// 3. Closing report.
	counts := r.store.Counts()
	r.logger.Info("recording stopped",
		"live_id", r.session.LiveID,
		"session", r.session.Ordinal,
		"duration", r.session.Age().Round(time.Second).String(),
		"chats", counts.Chats,
		"members", counts.Members,
		"follows", counts.Follows,
		"gift_kinds", counts.GiftKinds,
		"likes", counts.Likes,
		"viewers", counts.Viewers,
		"path", r.writer.Path(),
	)
}

// dispatchLoop applies inbound frames until the frame channel closes.
func (r *Recorder) dispatchLoop() {
	defer close(r.dispatchDone)

	for frame := range r.manager.Frames() {
		r.dispatcher.Dispatch(frame)
	}
}

// snapshotLoop persists the aggregate on a fixed cadence.
func (r *Recorder) snapshotLoop() {
	defer close(r.snapshotDone)

	ticker := time.NewTicker(r.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.save()
		}
	}
}

// save writes one snapshot. Failures are logged and ingestion keeps
// running; the next tick retries with more data.
func (r *Recorder) save() {
	if err := r.writer.Write(r.store.Snapshot()); err != nil {
		r.logger.Error("snapshot write failed",
			"path", r.writer.Path(),
			"error", err,
		)
		return
	}

	counts := r.store.Counts()
	r.logger.Info("snapshot saved",
		"session", r.session.Ordinal,
		"chats", counts.Chats,
		"members", counts.Members,
		"follows", counts.Follows,
		"gift_kinds", counts.GiftKinds,
		"likes", counts.Likes,
		"viewers", counts.Viewers,
	)
}
