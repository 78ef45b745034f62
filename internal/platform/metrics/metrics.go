package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec

	ComplaintsSubmitted *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	ComplaintsPublished prometheus.Counter
	FeedbackSubmitted   *prometheus.CounterVec
	TrackingRetries     prometheus.Counter
	StatsCacheHits      prometheus.Counter
	StatsCacheMisses    prometheus.Counter
}

// New creates and registers all Prometheus metrics on the given registerer.
// Passing nil registers on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nammasev_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ComplaintsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nammasev_complaints_submitted_total",
			Help: "Complaints accepted, labelled by category",
		}, []string{"category"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nammasev_status_transitions_total",
			Help: "Completed status transitions, labelled by source and target status",
		}, []string{"from", "to"}),
		ComplaintsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "nammasev_complaints_published_total",
			Help: "Complaints made publicly visible",
		}),
		FeedbackSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nammasev_feedback_submitted_total",
			Help: "Feedback entries recorded, labelled by rating",
		}, []string{"rating"}),
		TrackingRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "nammasev_tracking_id_retries_total",
			Help: "Tracking ID generation retries caused by collisions",
		}),
		StatsCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "nammasev_stats_cache_hits_total",
			Help: "Public statistics served from cache",
		}),
		StatsCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "nammasev_stats_cache_misses_total",
			Help: "Public statistics recomputed from the store",
		}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (m *Metrics) IncComplaintsSubmitted(category string) {
	m.ComplaintsSubmitted.WithLabelValues(category).Inc()
}

func (m *Metrics) IncStatusTransition(from, to string) {
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncFeedbackSubmitted(rating int) {
	m.FeedbackSubmitted.WithLabelValues(strconv.Itoa(rating)).Inc()
}
