// Package metrics exposes a taskprocessor.Registry's occupancy as
// Prometheus gauges, grounded on the pack's widespread use of
// github.com/prometheus/client_golang for in-process metrics exposition.
//
// Rather than polling on a timer, Collector implements prometheus.Collector
// directly: its Collect method is invoked by the Prometheus registry at
// scrape time, so the reported queue depths are always a fresh read of the
// taskprocessor.Registry rather than a stale cached sample.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/TheEntropyCollective/taskprocessor/taskprocessor"
)

// Collector adapts a *taskprocessor.Registry into a prometheus.Collector.
type Collector struct {
	registry *taskprocessor.Registry

	queueDepth  *prometheus.Desc
	processors  *prometheus.Desc
	queuedTotal *prometheus.Desc
}

// NewCollector returns a Collector reporting on registry's current state.
// Register it with a prometheus.Registerer, e.g.
// prometheus.MustRegister(metrics.NewCollector(registry)).
func NewCollector(registry *taskprocessor.Registry) *Collector {
	return &Collector{
		registry: registry,
		queueDepth: prometheus.NewDesc(
			"taskprocessor_queue_depth",
			"Number of tasks currently queued on a processor, awaiting execution.",
			[]string{"processor"}, nil,
		),
		processors: prometheus.NewDesc(
			"taskprocessor_processors",
			"Number of live taskprocessors registered.",
			nil, nil,
		),
		queuedTotal: prometheus.NewDesc(
			"taskprocessor_queued_tasks_total",
			"Sum of queue depth across every live taskprocessor.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queueDepth
	ch <- c.processors
	ch <- c.queuedTotal
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	depths := c.registry.QueueDepths()

	var total int
	for name, depth := range depths {
		total += depth
		ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(depth), name)
	}
	ch <- prometheus.MustNewConstMetric(c.processors, prometheus.GaugeValue, float64(len(depths)))
	ch <- prometheus.MustNewConstMetric(c.queuedTotal, prometheus.GaugeValue, float64(total))
}
