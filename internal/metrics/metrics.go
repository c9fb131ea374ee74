// Package metrics exposes run metrics for the sync job. A one-shot batch job
// has no scrape endpoint, so metrics are pushed to a Prometheus Pushgateway
// at the end of each run when one is configured.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
)

// Run is what one sync pass reports.
type Run struct {
	Scheme   string
	Mode     string
	Delta    float64
	Degraded bool
	Actions  map[string]int
	Duration time.Duration
	Err      error
	At       time.Time
}

// Recorder owns a private registry so tests and repeated runs do not clash
// with the global default registry.
type Recorder struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	records     *prometheus.CounterVec
	delta       *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
}

// New creates a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "runs_total",
			Help:      "Sync runs by scheme and outcome.",
		}, []string{"scheme", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "records_total",
			Help:      "Reconciled records by scheme and action.",
		}, []string{"scheme", "action"}),
		delta: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "ipc_delta_percent",
			Help:      "Monthly index variation applied by the last run.",
		}, []string{"scheme"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"scheme"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a sync run.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"scheme"}),
	}
	r.registry.MustRegister(r.runs, r.records, r.delta, r.lastSuccess, r.duration)
	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one run.
func (r *Recorder) Observe(run Run) {
	r.duration.WithLabelValues(run.Scheme).Observe(run.Duration.Seconds())

	status := "success"
	switch {
	case run.Err != nil:
		status = "failure"
	case run.Degraded:
		status = "degraded"
	}
	r.runs.WithLabelValues(run.Scheme, status).Inc()
	if run.Err != nil {
		return
	}

	for action, n := range run.Actions {
		r.records.WithLabelValues(run.Scheme, action).Add(float64(n))
	}
	r.delta.WithLabelValues(run.Scheme).Set(run.Delta)
	at := run.At
	if at.IsZero() {
		at = time.Now()
	}
	r.lastSuccess.WithLabelValues(run.Scheme).Set(float64(at.Unix()))
}

// Push sends the registry to a Pushgateway, grouped by scheme.
func (r *Recorder) Push(ctx context.Context, gatewayURL, scheme string) error {
	if gatewayURL == "" {
		return nil
	}
	err := push.New(gatewayURL, constants.MetricsJob).
		Gatherer(r.registry).
		Grouping("scheme", scheme).
		PushContext(ctx)
	if err != nil {
		return errors.WrapAPI("pushgateway", 0, err)
	}
	return nil
}
