// Package metrics exposes the fabric's own counters and gauges (task
// dispatch/drop counts, queue depth) through pkg/metrics.Provider, the
// generic Prometheus-backed abstraction the teacher carries for this
// concern.
package metrics

import (
	"net/http"

	"github.com/mqttflow/mqttflow/pkg/metrics"
)

// Metrics holds every metric the fabric reports, built once from a
// provider and shared by the executor and flow packages.
type Metrics struct {
	provider metrics.Provider

	tasksDispatched metrics.CounterVec
	tasksDropped    metrics.CounterVec
	queueDepth      metrics.GaugeVec
}

// New builds the fabric's metric set on top of provider.
func New(provider metrics.Provider) (*Metrics, error) {
	m := &Metrics{provider: provider}

	dispatched, err := provider.NewCounterVec(metrics.MetricOptions{
		Name:   "mqttflow_task_dispatched_total",
		Help:   "Tasks submitted to a queue's worker pool, by queue.",
		Labels: []string{"queue"},
	})
	if err != nil {
		return nil, err
	}
	m.tasksDispatched = dispatched

	dropped, err := provider.NewCounterVec(metrics.MetricOptions{
		Name:   "mqttflow_task_dropped_total",
		Help:   "Tasks dropped because their pool was saturated, by queue.",
		Labels: []string{"queue"},
	})
	if err != nil {
		return nil, err
	}
	m.tasksDropped = dropped

	depth, err := provider.NewGaugeVec(metrics.MetricOptions{
		Name:   "mqttflow_queue_depth",
		Help:   "Number of tasks currently buffered in a queue's channel.",
		Labels: []string{"queue"},
	})
	if err != nil {
		return nil, err
	}
	m.queueDepth = depth

	return m, nil
}

// TaskDispatched records one task handed to queue's pool.
func (m *Metrics) TaskDispatched(queue string) {
	if m == nil {
		return
	}
	m.tasksDispatched.WithLabelValues(queue).Inc()
}

// TaskDropped records one task dropped for queue due to pool saturation.
func (m *Metrics) TaskDropped(queue string) {
	if m == nil {
		return
	}
	m.tasksDropped.WithLabelValues(queue).Inc()
}

// SetQueueDepth reports queue's current buffered task count.
func (m *Metrics) SetQueueDepth(queue string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(queue).Set(float64(depth))
}

// Handler serves the provider's scrape endpoint, or nil if m is nil.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return nil
	}
	return m.provider.Handler()
}
