package dispatch

import (
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/livewatch-go/internal/core/aggregate"
	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/protocol"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
	"github.com/yndnr/livewatch-go/internal/telemetry/metric"
)

// Decode-failure logs are throttled; a desynced stream can produce
// thousands of bad messages per second and the counter already tells
// the full story.
const (
	decodeLogRate  = 1.0
	decodeLogBurst = 5
)

// AckSender acknowledges an inbound batch back to the push service.
// *connection.Manager satisfies it.
type AckSender interface {
	SendAck(logID uint64, internalExt string) error
}

// Dispatcher applies decoded batch events to the aggregate store.
type Dispatcher struct {
	store   *aggregate.Store
	acks    AckSender
	logger  logger.Logger
	metrics *metric.Metrics
	decLog  *rate.Limiter
	now     func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for dispatch events.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithMetrics attaches protocol and room metrics.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = metrics
	}
}

// New creates a Dispatcher that writes into store and acknowledges
// batches through acks.
func New(store *aggregate.Store, acks AckSender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		acks:   acks,
		logger: logger.Default(),
		decLog: rate.NewLimiter(rate.Limit(decodeLogRate), decodeLogBurst),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch processes one inbound frame. Control frames (heartbeat and
// ack echoes) carry no batch and are skipped before decompression.
// Batch decode failure drops the whole frame; a single bad message
// inside a good batch drops only that message.
func (d *Dispatcher) Dispatch(frame *protocol.Frame) {
	if frame.IsControl() {
		return
	}

	batch, err := protocol.DecodeBatchFrame(frame)
	if err != nil {
		d.countParseError("batch")
		if d.decLog.Allow() {
			d.logger.Warn("batch decode failed",
				"log_id", frame.LogID,
				"error", err,
			)
		}
		return
	}

	if batch.NeedsAck {
		if err := d.acks.SendAck(frame.LogID, batch.InternalExt); err != nil {
			d.logger.Warn("batch ack failed",
				"log_id", frame.LogID,
				"error", err,
			)
		}
	}

	for i := range batch.Messages {
		msg := &batch.Messages[i]
		if err := d.handle(msg); err != nil {
			d.countParseError("event")
			if d.decLog.Allow() {
				d.logger.Warn("event decode failed",
					"method", msg.Method,
					"msg_id", msg.MsgID,
					"error", err,
				)
			}
			continue
		}
	}
}

// handle decodes and applies one batch message. Unknown method tags
// are dropped without error; the stream multiplexes many message
// kinds the aggregate does not track.
func (d *Dispatcher) handle(msg *protocol.BatchMessage) error {
	switch msg.Method {
	case domain.MethodChat:
		return d.handleChat(msg.Payload)
	case domain.MethodGift:
		return d.handleGift(msg.Payload)
	case domain.MethodMember:
		return d.handleMember(msg.Payload)
	case domain.MethodLike:
		return d.handleLike(msg.Payload)
	case domain.MethodSocial:
		return d.handleSocial(msg.Payload)
	case domain.MethodRoomUserSeq:
		return d.handleRoomUserSeq(msg.Payload)
	default:
		// One fixed label for all untracked methods; the tags are
		// server-defined and unbounded.
		d.countEvent("other")
		d.logger.Debug("untracked method dropped", "method", msg.Method)
		return nil
	}
}

func (d *Dispatcher) handleChat(payload []byte) error {
	m, err := protocol.ParseChat(payload)
	if err != nil {
		return err
	}

	d.store.ApplyChat(domain.ChatEvent{
		Timestamp: d.now(),
		UserID:    userID(m.User),
		Nickname:  m.User.Nickname,
		Content:   m.Content,
	})
	d.countEvent(domain.MethodChat)
	d.logger.Debug("chat", "nickname", m.User.Nickname, "content", m.Content)
	return nil
}

func (d *Dispatcher) handleGift(payload []byte) error {
	m, err := protocol.ParseGift(payload)
	if err != nil {
		return err
	}

	repeat := int64(m.RepeatCount)
	if repeat <= 0 {
		// Combo frames occasionally omit the count; a gift message
		// still stands for at least one send.
		repeat = 1
	}

	d.store.ApplyGift(domain.GiftEvent{
		Timestamp:   d.now(),
		UserID:      userID(m.User),
		Nickname:    m.User.Nickname,
		GiftName:    m.Gift.Name,
		RepeatCount: repeat,
		UnitValue:   int64(m.Gift.DiamondCount),
	})
	d.countEvent(domain.MethodGift)
	d.logger.Debug("gift",
		"nickname", m.User.Nickname,
		"gift", m.Gift.Name,
		"repeat", repeat,
	)
	return nil
}

func (d *Dispatcher) handleMember(payload []byte) error {
	m, err := protocol.ParseMember(payload)
	if err != nil {
		return err
	}

	entered := d.store.ApplyMember(domain.MemberEvent{
		Timestamp:   d.now(),
		UserID:      userID(m.User),
		Nickname:    m.User.Nickname,
		ViewerCount: int64(m.MemberCount),
	})
	d.countEvent(domain.MethodMember)
	d.syncRoomGauges()
	if entered {
		d.logger.Debug("member entered", "nickname", m.User.Nickname)
	}
	return nil
}

func (d *Dispatcher) handleLike(payload []byte) error {
	m, err := protocol.ParseLike(payload)
	if err != nil {
		return err
	}

	d.store.ApplyLike(domain.LikeEvent{
		Timestamp: d.now(),
		UserID:    userID(m.User),
		Nickname:  m.User.Nickname,
		Delta:     int64(m.Count),
		Total:     int64(m.Total),
	})
	d.countEvent(domain.MethodLike)
	d.syncRoomGauges()
	return nil
}

// handleSocial applies follow announcements. Other social actions
// (shares, invites) ride the same method tag and are ignored.
func (d *Dispatcher) handleSocial(payload []byte) error {
	m, err := protocol.ParseSocial(payload)
	if err != nil {
		return err
	}

	if m.Action != domain.SocialActionFollow {
		return nil
	}

	d.store.ApplyFollow(domain.FollowEvent{
		Timestamp:     d.now(),
		UserID:        userID(m.User),
		Nickname:      m.User.Nickname,
		FollowerCount: int64(m.FollowCount),
	})
	d.countEvent(domain.MethodSocial)
	d.logger.Debug("new follower", "nickname", m.User.Nickname)
	return nil
}

func (d *Dispatcher) handleRoomUserSeq(payload []byte) error {
	m, err := protocol.ParseRoomUserSeq(payload)
	if err != nil {
		return err
	}

	d.store.ApplyViewerCount(domain.ViewerCountEvent{
		Timestamp: d.now(),
		Viewers:   m.TotalUser,
	})
	d.countEvent(domain.MethodRoomUserSeq)
	d.syncRoomGauges()
	return nil
}

func (d *Dispatcher) countEvent(method string) {
	if d.metrics != nil {
		d.metrics.Events.WithLabelValues(method).Inc()
	}
}

func (d *Dispatcher) countParseError(stage string) {
	if d.metrics != nil {
		d.metrics.ParseErrors.WithLabelValues(stage).Inc()
	}
}

// syncRoomGauges mirrors the room totals into Prometheus after
// events that move them.
func (d *Dispatcher) syncRoomGauges() {
	if d.metrics == nil {
		return
	}
	counts := d.store.Counts()
	d.metrics.Viewers.Set(float64(counts.Viewers))
	d.metrics.Likes.Set(float64(counts.Likes))
}

// userID renders the wire user identity for the aggregate. The
// platform issues ids above 2^53, so they travel as strings.
func userID(u protocol.User) string {
	if u.ID == 0 {
		return ""
	}
	return strconv.FormatUint(u.ID, 10)
}
