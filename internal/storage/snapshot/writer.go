package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/livewatch-go/internal/core/domain"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
	"github.com/yndnr/livewatch-go/internal/telemetry/metric"
)

const tempExtension = ".tmp"

// Writer persists one session's aggregate to its snapshot file.
//
// Writer is not safe for concurrent use; the recorder serializes saves
// on a single goroutine.
type Writer struct {
	dir     string
	session *domain.Session
	path    string

	logger  logger.Logger
	metrics *metric.Metrics
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used for write diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(w *Writer) {
		w.logger = log
	}
}

// WithMetrics enables snapshot write metrics.
func WithMetrics(m *metric.Metrics) Option {
	return func(w *Writer) {
		w.metrics = m
	}
}

// NewWriter creates a Writer rooted at dir for the given session and
// ensures the directory exists.
func NewWriter(dir string, session *domain.Session, opts ...Option) (*Writer, error) {
	if dir == "" {
		return nil, domain.ErrSnapshotWrite.WithDetails("data directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, domain.ErrSnapshotWrite.WithDetails("create data directory").WithCause(err)
	}

	w := &Writer{
		dir:     dir,
		session: session,
		path:    filepath.Join(dir, session.SnapshotFileName()),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the snapshot file path for the writer's session.
func (w *Writer) Path() string {
	return w.path
}

// Write persists the aggregate, replacing any previous snapshot for the
// session. The document is staged in a temp file in the same directory
// and renamed into place, so readers never observe a partial file.
func (w *Writer) Write(agg *domain.Aggregate) error {
	doc := newDocument(w.session, agg, time.Now())

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		w.observe("error")
		return domain.ErrSnapshotEncode.WithCause(err)
	}
	data = append(data, '\n')

	tempPath := w.path + tempExtension
	file, err := os.Create(tempPath)
	if err != nil {
		w.observe("error")
		return domain.ErrSnapshotWrite.WithDetails("create temp file").WithCause(err)
	}
	defer os.Remove(tempPath)

	if _, err := file.Write(data); err != nil {
		file.Close()
		w.observe("error")
		return domain.ErrSnapshotWrite.WithDetails("write temp file").WithCause(err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		w.observe("error")
		return domain.ErrSnapshotWrite.WithDetails("sync").WithCause(err)
	}
	if err := file.Close(); err != nil {
		w.observe("error")
		return domain.ErrSnapshotWrite.WithDetails("close").WithCause(err)
	}

	if err := os.Rename(tempPath, w.path); err != nil {
		w.observe("error")
		return domain.ErrSnapshotWrite.WithDetails("rename").WithCause(err)
	}

	w.observe("ok")
	if w.logger != nil {
		w.logger.Debug("snapshot written",
			"path", w.path,
			"bytes", len(data),
			"chats", doc.Stats.TotalChatMessages,
			"members", doc.Stats.TotalMembers,
		)
	}
	return nil
}

func (w *Writer) observe(status string) {
	if w.metrics != nil {
		w.metrics.SnapshotWrites.WithLabelValues(status).Inc()
	}
}
