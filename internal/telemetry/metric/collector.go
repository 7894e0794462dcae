// Package metric provides Prometheus metrics for LiveWatch.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/livewatch-go/internal/core/aggregate"
)

// StatsSource supplies current session totals for collection.
type StatsSource interface {
	Counts() aggregate.Counts
}

// Collector exports session totals from the aggregate store.
//
// Unlike the event counters in Metrics, these values are read on
// scrape, so they stay correct across reconnects without the
// collector observing every event.
type Collector struct {
	source StatsSource

	chatsDesc     *prometheus.Desc
	membersDesc   *prometheus.Desc
	followsDesc   *prometheus.Desc
	giftKindsDesc *prometheus.Desc
}

// NewCollector creates a collector backed by the given source.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,
		chatsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "chat_messages"),
			"Chat messages recorded in the current session",
			nil, nil,
		),
		membersDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "members"),
			"Distinct members seen in the current session",
			nil, nil,
		),
		followsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "follows"),
			"Follow events recorded in the current session",
			nil, nil,
		),
		giftKindsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "gift_kinds"),
			"Distinct gift types recorded in the current session",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chatsDesc
	ch <- c.membersDesc
	ch <- c.followsDesc
	ch <- c.giftKindsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counts := c.source.Counts()

	ch <- prometheus.MustNewConstMetric(c.chatsDesc, prometheus.GaugeValue, float64(counts.Chats))
	ch <- prometheus.MustNewConstMetric(c.membersDesc, prometheus.GaugeValue, float64(counts.Members))
	ch <- prometheus.MustNewConstMetric(c.followsDesc, prometheus.GaugeValue, float64(counts.Follows))
	ch <- prometheus.MustNewConstMetric(c.giftKindsDesc, prometheus.GaugeValue, float64(counts.GiftKinds))
}
