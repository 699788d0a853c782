// Package metrics exposes Prometheus counters for the auth and moderation flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estate"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder owns a private registry. A nil *Recorder records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	authEvents    *prometheus.CounterVec
	moderations   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	dbPoolWaits   prometheus.Counter
	dbPoolWaited  prometheus.Counter
	dbPoolInUse   prometheus.Gauge
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Auth flow steps by event and outcome.",
		}, []string{"event", "outcome"}),
		moderations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_transitions_total",
			Help:      "Admin moderation transitions by entity type and resulting state.",
		}, []string{"entity", "state"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Dispatched notifications by kind and outcome.",
		}, []string{"kind", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		dbPoolWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_pool_waits_total",
			Help:      "Connections that had to wait for a free slot in the Postgres pool.",
		}),
		dbPoolWaited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_pool_wait_seconds_total",
			Help:      "Total time spent waiting for a Postgres pool connection.",
		}),
		dbPoolInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_in_use_connections",
			Help:      "Postgres connections currently in use.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.authEvents,
		r.moderations,
		r.notifications,
		r.httpDuration,
		r.dbPoolWaits,
		r.dbPoolWaited,
		r.dbPoolInUse,
	)

	return r
}

// AuthEvent counts one signup, verify, login, otp, refresh or logout attempt.
func (r *Recorder) AuthEvent(event string, err error) {
	if r == nil {
		return
	}
	r.authEvents.WithLabelValues(event, outcome(err)).Inc()
}

func (r *Recorder) ModerationTransition(entity, state string) {
	if r == nil {
		return
	}
	r.moderations.WithLabelValues(entity, state).Inc()
}

func (r *Recorder) NotificationDispatched(kind string, err error) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(kind, outcome(err)).Inc()
}

func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// DBPoolSample adds the waits seen since the previous sample and sets the in-use gauge.
func (r *Recorder) DBPoolSample(waits int64, waited time.Duration, inUse int) {
	if r == nil {
		return
	}
	if waits > 0 {
		r.dbPoolWaits.Add(float64(waits))
		r.dbPoolWaited.Add(waited.Seconds())
	}
	r.dbPoolInUse.Set(float64(inUse))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the registry for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}

	return OutcomeSuccess
}
