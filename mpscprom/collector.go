// Package mpscprom exports mpsc channel and pool state as Prometheus
// metrics.
package mpscprom

import (
	"github.com/baxromumarov/mpsc"
	"github.com/prometheus/client_golang/prometheus"
)

// QueueProber is implemented by [mpsc.Sender] and [mpsc.Receiver].
type QueueProber interface {
	TotalQueuedItems() int
}

// NewQueueDepthGauge returns a gauge that reports the shared queue length
// of a channel at scrape time. Values already batched into the receiver's
// cache are not counted.
func NewQueueDepthGauge(namespace, channel string, p QueueProber) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "queue_depth",
			Help:        "Items waiting in the shared queue of an mpsc channel.",
			ConstLabels: prometheus.Labels{"channel": channel},
		},
		func() float64 { return float64(p.TotalQueuedItems()) },
	)
}

// PoolCollector exports [mpsc.PoolStats] of one pool.
type PoolCollector struct {
	pool *mpsc.Pool

	submitted  *prometheus.Desc
	completed  *prometheus.Desc
	errored    *prometheus.Desc
	dropped    *prometheus.Desc
	inFlight   *prometheus.Desc
	queueDepth *prometheus.Desc
	workers    *prometheus.Desc
}

// NewPoolCollector creates a collector for p. Metrics carry a "pool"
// label set to name.
func NewPoolCollector(namespace, name string, p *mpsc.Pool) *PoolCollector {
	labels := prometheus.Labels{"pool": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", metric), help, nil, labels)
	}
	return &PoolCollector{
		pool:       p,
		submitted:  desc("submitted_total", "Tasks accepted by Submit."),
		completed:  desc("completed_total", "Tasks that finished running."),
		errored:    desc("errored_total", "Tasks that returned an error or panicked."),
		dropped:    desc("dropped_total", "Queued tasks discarded after the pool context ended."),
		inFlight:   desc("in_flight", "Tasks currently running."),
		queueDepth: desc("queue_depth", "Tasks waiting in the pool's shared queue."),
		workers:    desc("workers", "Concurrency limit of the pool."),
	}
}

// Describe implements [prometheus.Collector].
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.submitted
	ch <- c.completed
	ch <- c.errored
	ch <- c.dropped
	ch <- c.inFlight
	ch <- c.queueDepth
	ch <- c.workers
}

// Collect implements [prometheus.Collector].
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(s.Submitted))
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(s.Completed))
	ch <- prometheus.MustNewConstMetric(c.errored, prometheus.CounterValue, float64(s.Errored))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped))
	ch <- prometheus.MustNewConstMetric(c.inFlight, prometheus.GaugeValue, float64(s.InFlight))
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(s.QueueDepth))
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(s.Workers))
}
