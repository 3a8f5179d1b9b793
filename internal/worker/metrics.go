package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for one pool. A nil *Metrics records nothing.
type Metrics struct {
	queueDepth prometheus.Gauge
	submitted  prometheus.Counter
	dropped    prometheus.Counter
	processed  *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewMetrics registers pool metrics under slide_relay_<name>_*.
// Returns nil if reg is nil.
func NewMetrics(reg prometheus.Registerer, name string) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slide_relay",
			Subsystem: name,
			Name:      "queue_depth",
			Help:      "Tasks waiting in the queue",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: name,
			Name:      "submitted_total",
			Help:      "Tasks accepted into the queue",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: name,
			Name:      "dropped_total",
			Help:      "Tasks rejected because the queue was full",
		}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: name,
			Name:      "processed_total",
			Help:      "Tasks finished by status",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slide_relay",
			Subsystem: name,
			Name:      "task_duration_seconds",
			Help:      "Task run time",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}),
	}
	reg.MustRegister(m.queueDepth, m.submitted, m.dropped, m.processed, m.duration)
	return m
}

func (m *Metrics) submit(depth int) {
	if m == nil {
		return
	}
	m.submitted.Inc()
	m.queueDepth.Set(float64(depth))
}

func (m *Metrics) drop() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *Metrics) dequeue(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

func (m *Metrics) done(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.processed.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
}
