// Package metrics exposes Prometheus collectors for the ledger service.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder groups the collectors the service updates
type Recorder struct {
	splits       *prometheus.CounterVec
	planSize     prometheus.Histogram
	planResidue  prometheus.Counter
	httpDuration *prometheus.HistogramVec
	events       *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		splits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "split_computations_total",
			Help:      "Split computations by policy and outcome.",
		}, []string{"policy", "outcome"}),
		planSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "settlement_plan_transfers",
			Help:      "Number of transfers in computed settlement plans.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),
		planResidue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "settlement_plan_residue_total",
			Help:      "Settlement plans that left a balance above tolerance.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "ledger_events_published_total",
			Help:      "Ledger events handed to the publisher, by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	reg.MustRegister(r.splits, r.planSize, r.planResidue, r.httpDuration, r.events)
	return r
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveSplit counts one split computation
func (r *Recorder) ObserveSplit(policy string, err error) {
	if r == nil {
		return
	}
	r.splits.WithLabelValues(policy, outcome(err)).Inc()
}

// ObservePlan records the size of a settlement plan
func (r *Recorder) ObservePlan(transfers int, residue bool) {
	if r == nil {
		return
	}
	r.planSize.Observe(float64(transfers))
	if residue {
		r.planResidue.Inc()
	}
}

// ObserveRequest records one served HTTP request
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, statusLabel(status)).Observe(elapsed.Seconds())
}

// ObserveEvent counts one published ledger event
func (r *Recorder) ObserveEvent(eventType string, err error) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(eventType, outcome(err)).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
