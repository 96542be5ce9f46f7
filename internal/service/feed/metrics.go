package feed

import (
	"time"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the feed collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	returned prometheus.Histogram
	recalled prometheus.Counter
}

// NewMetrics creates the feed collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_requests_total",
				Help: "Total number of feed requests",
			},
			[]string{"strategy", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feed_duration_seconds",
				Help:    "Duration of feed assembly",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"strategy"},
		),
		returned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "feed_examples_returned",
				Help:    "Number of examples returned per feed request",
				Buckets: []float64{0, 1, 5, 10, 20, 30, 50, 100},
			},
		),
		recalled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "feed_recall_injections_total",
				Help: "Total number of recall words injected into feeds",
			},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.returned, m.recalled)
	return m
}

func (m *Metrics) observe(strategy domain.FeedStrategy, err error, elapsed time.Duration, returned, recalled int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(string(strategy), outcome).Inc()
	m.duration.WithLabelValues(string(strategy)).Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	m.returned.Observe(float64(returned))
	m.recalled.Add(float64(recalled))
}
