// Package metrics provides Prometheus-based metrics collection for netsweep.
// It tracks sweep runs, individual probe outcomes, worker activity, and
// capacity events, and exposes the registry for HTTP exposition.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all netsweep metrics
	namespace = "netsweep"

	// Subsystems
	subsystemSweep = "sweep"
	subsystemProbe = "probe"
)

// Metrics holds all Prometheus metric collectors for the sweep engine.
type Metrics struct {
	// Sweep metrics
	sweepsTotal   *prometheus.CounterVec
	sweepDuration *prometheus.HistogramVec
	hostsSwept    *prometheus.CounterVec
	checksPlanned prometheus.Gauge
	truncations   prometheus.Counter

	// Probe metrics
	probesTotal   *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	activeWorkers prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new metrics instance with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{registry: registry}
	m.initSweepMetrics()
	m.initProbeMetrics()
	m.registerMetrics()

	// Register standard Go and process collectors for runtime visibility
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// initSweepMetrics initializes run-level metrics.
func (m *Metrics) initSweepMetrics() {
	m.sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "total",
			Help:      "Total number of sweep phases executed by phase and status",
		},
		[]string{"phase", "status"},
	)

	m.sweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "duration_seconds",
			Help:      "Duration of sweep phases in seconds",
			Buckets:   []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0, 300.0, 600.0},
		},
		[]string{"phase"},
	)

	m.hostsSwept = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "hosts_total",
			Help:      "Total number of hosts swept by reachability status",
		},
		[]string{"status"},
	)

	m.checksPlanned = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "checks_planned",
			Help:      "Number of host/port checks planned for the current run",
		},
	)

	m.truncations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemSweep,
			Name:      "target_truncations_total",
			Help:      "Number of runs whose expanded target set hit the host cap",
		},
	)
}

// initProbeMetrics initializes per-probe metrics.
func (m *Metrics) initProbeMetrics() {
	m.probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "total",
			Help:      "Total number of probes by phase and outcome",
		},
		[]string{"phase", "outcome"},
	)

	m.probeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "duration_seconds",
			Help:      "Duration of individual probes in seconds",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		},
		[]string{"phase"},
	)

	m.activeWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemProbe,
			Name:      "active_workers",
			Help:      "Number of probe workers currently in flight",
		},
	)
}

// registerMetrics registers all collectors with the registry.
func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(
		m.sweepsTotal,
		m.sweepDuration,
		m.hostsSwept,
		m.checksPlanned,
		m.truncations,
		m.probesTotal,
		m.probeDuration,
		m.activeWorkers,
	)
}

// GetRegistry returns the Prometheus registry for the HTTP handler.
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Sweep metrics methods

// IncrementSweepsTotal increments the sweep phase counter.
func (m *Metrics) IncrementSweepsTotal(phase, status string) {
	m.sweepsTotal.WithLabelValues(phase, status).Inc()
}

// RecordSweepDuration records the duration of a sweep phase.
func (m *Metrics) RecordSweepDuration(phase string, duration time.Duration) {
	m.sweepDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// IncrementHostsSwept increments the swept host counter.
func (m *Metrics) IncrementHostsSwept(status string, count int) {
	m.hostsSwept.WithLabelValues(status).Add(float64(count))
}

// SetChecksPlanned sets the planned check count for the current run.
func (m *Metrics) SetChecksPlanned(count int) {
	m.checksPlanned.Set(float64(count))
}

// IncrementTruncations records a target set hitting the host cap.
func (m *Metrics) IncrementTruncations() {
	m.truncations.Inc()
}

// Probe metrics methods

// IncrementProbesTotal increments the probe counter.
func (m *Metrics) IncrementProbesTotal(phase, outcome string) {
	m.probesTotal.WithLabelValues(phase, outcome).Inc()
}

// RecordProbeDuration records the duration of a single probe.
func (m *Metrics) RecordProbeDuration(phase string, duration time.Duration) {
	m.probeDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// AddActiveWorkers adjusts the in-flight worker gauge.
func (m *Metrics) AddActiveWorkers(delta int) {
	m.activeWorkers.Add(float64(delta))
}

// Global instance for easy access
var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetGlobal returns the global metrics instance.
func GetGlobal() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = New()
	})
	return globalMetrics
}
