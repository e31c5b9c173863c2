// Package metrics exposes change tracker counters.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeRecorded = "recorded"
	OutcomeIgnored  = "ignored"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeSuccess  = "success"
)

// Collector captures events emitted by the tracker. Calls happen inline on
// the edit path and must be cheap.
type Collector interface {
	ObserveEdit(outcome string)
	ObserveReset(outcome string)
	ObserveSync(outcome string, problems int, duration time.Duration)
	SetTrackerEntries(n int)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) ObserveEdit(string)                     {}
func (noopCollector) ObserveReset(string)                    {}
func (noopCollector) ObserveSync(string, int, time.Duration) {}
func (noopCollector) SetTrackerEntries(int)                  {}

// PrometheusCollector exposes tracker metrics via Prometheus.
type PrometheusCollector struct {
	edits          *prometheus.CounterVec
	resets         *prometheus.CounterVec
	syncs          *prometheus.CounterVec
	syncedProblems prometheus.Counter
	syncDuration   prometheus.Histogram
	trackerEntries prometheus.Gauge
}

// NewPrometheusCollector registers the tracker metrics with reg. Metrics that
// are already registered are reused.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	edits, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "problem_tracker_edits_total",
		Help: "Edit notifications handled, by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	resets, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "problem_tracker_resets_total",
		Help: "Tracker log resets, by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	syncs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "problem_tracker_syncs_total",
		Help: "Batch sync runs, by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	synced, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "problem_tracker_synced_problems_total",
		Help: "Problems written to the database by batch sync.",
	}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "problem_tracker_sync_duration_seconds",
		Help:    "Duration of batch sync runs.",
		Buckets: prometheus.DefBuckets,
	}))
	if err != nil {
		return nil, err
	}
	entries, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "problem_tracker_log_entries",
		Help: "Entries in the tracker log after the last append or reset.",
	}))
	if err != nil {
		return nil, err
	}

	return &PrometheusCollector{
		edits:          edits,
		resets:         resets,
		syncs:          syncs,
		syncedProblems: synced,
		syncDuration:   duration,
		trackerEntries: entries,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// ObserveEdit counts a handled edit notification.
func (p *PrometheusCollector) ObserveEdit(outcome string) {
	if p == nil {
		return
	}
	p.edits.WithLabelValues(outcome).Inc()
}

// ObserveReset counts a tracker log reset.
func (p *PrometheusCollector) ObserveReset(outcome string) {
	if p == nil {
		return
	}
	p.resets.WithLabelValues(outcome).Inc()
}

// ObserveSync records a batch sync run.
func (p *PrometheusCollector) ObserveSync(outcome string, problems int, duration time.Duration) {
	if p == nil {
		return
	}
	p.syncs.WithLabelValues(outcome).Inc()
	if problems > 0 {
		p.syncedProblems.Add(float64(problems))
	}
	p.syncDuration.Observe(duration.Seconds())
}

// SetTrackerEntries updates the tracker log size gauge.
func (p *PrometheusCollector) SetTrackerEntries(n int) {
	if p == nil {
		return
	}
	p.trackerEntries.Set(float64(n))
}
