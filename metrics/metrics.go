// Package metrics counts generation attempts, retries and outcomes per level
// and exports them in the Prometheus text format.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/mpcbench/core"
)

const namespace = "mpcbench"

// Outcome labels.
const (
	Accepted = "accepted"
	Retried  = "retried"
	Failed   = "failed"
)

// Recorder owns a private registry so batches never share state.
type Recorder struct {
	reg *prometheus.Registry

	attempts  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	instances *prometheus.CounterVec
	perInst   *prometheus.HistogramVec
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		// Labels: level, outcome (accepted, retried, failed)
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "attempts_total",
			Help:      "Generation attempts by outcome",
		}, []string{"level", "outcome"}),
		// Labels: level, cause (construction, insufficient, tag_dropped, invariant)
		retries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "retries_total",
			Help:      "Discarded attempts by cause",
		}, []string{"level", "cause"}),
		// Labels: level, outcome (accepted, failed)
		instances: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "instances_total",
			Help:      "Instances by final outcome",
		}, []string{"level", "outcome"}),
		perInst: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "attempts_per_instance",
			Help:      "Attempts spent on one instance",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 32},
		}, []string{"level"}),
	}
}

// Attempt records one gate attempt.
func (r *Recorder) Attempt(level core.Level, outcome string) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(level.String(), outcome).Inc()
}

// Retry records a discarded attempt and its cause.
func (r *Recorder) Retry(level core.Level, cause string) {
	if r == nil {
		return
	}
	r.retries.WithLabelValues(level.String(), cause).Inc()
}

// Instance records the final outcome of one instance.
func (r *Recorder) Instance(level core.Level, outcome string, attempts int) {
	if r == nil {
		return
	}
	r.instances.WithLabelValues(level.String(), outcome).Inc()
	r.perInst.WithLabelValues(level.String()).Observe(float64(attempts))
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes every metric to path atomically in the text
// exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
