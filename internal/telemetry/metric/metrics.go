// Package metric provides Prometheus metrics for LiveWatch.
//
// It exposes metrics in Prometheus format for monitoring
// connection health, event throughput, and snapshot persistence.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace is the Prometheus namespace for all LiveWatch metrics.
const namespace = "livewatch"

// Metrics holds all application metrics.
type Metrics struct {
	// Connection metrics
	ConnectionState prometheus.Gauge
	Reconnects      prometheus.Counter
	HeartbeatsSent  prometheus.Counter
	AcksSent        prometheus.Counter

	// Protocol metrics
	FramesReceived prometheus.Counter
	Events         *prometheus.CounterVec
	ParseErrors    *prometheus.CounterVec

	// Room metrics
	Viewers prometheus.Gauge
	Likes   prometheus.Gauge

	// Snapshot metrics
	SnapshotWrites *prometheus.CounterVec
}

// New creates all LiveWatch metrics and registers them with the
// given registry.
//
// This should be called once during initialization.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "state",
			Help:      "Current connection state (0=disconnected 1=connecting 2=connected 3=reconnecting 4=closing 5=terminated)",
		}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "reconnects_total",
			Help:      "Total reconnect attempts after a lost connection",
		}),
		HeartbeatsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "heartbeats_sent_total",
			Help:      "Total heartbeat frames sent",
		}),
		AcksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "acks_sent_total",
			Help:      "Total acknowledgement frames sent",
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "frames_received_total",
			Help:      "Total push frames received from the remote room",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "events_total",
			Help:      "Total decoded events by method",
		}, []string{"method"}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "parse_errors_total",
			Help:      "Total payload decode failures by stage",
		}, []string{"stage"}),
		Viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "room",
			Name:      "viewers",
			Help:      "Most recent viewer count reported by the room",
		}),
		Likes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "room",
			Name:      "likes_total",
			Help:      "Most recent cumulative like count reported by the room",
		}),
		SnapshotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "writes_total",
			Help:      "Total snapshot write attempts by status",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.ConnectionState,
		m.Reconnects,
		m.HeartbeatsSent,
		m.AcksSent,
		m.FramesReceived,
		m.Events,
		m.ParseErrors,
		m.Viewers,
		m.Likes,
		m.SnapshotWrites,
	)

	return m
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
