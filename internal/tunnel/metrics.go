package tunnel

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds tunnel metrics. A nil *Metrics records nothing.
type Metrics struct {
	connected    prometheus.Gauge
	replacements prometheus.Counter
	unmatched    prometheus.Counter
	requests     *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewMetrics creates and registers tunnel metrics. Returns nil if reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slide_relay",
			Subsystem: "tunnel",
			Name:      "connected_agents",
			Help:      "Edge agents with a live tunnel",
		}),
		replacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: "tunnel",
			Name:      "replacements_total",
			Help:      "Tunnels replaced by a reconnect of the same agent",
		}),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: "tunnel",
			Name:      "unmatched_responses_total",
			Help:      "Responses for unknown or expired requests",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: "tunnel",
			Name:      "requests_total",
			Help:      "Tunnelled requests by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slide_relay",
			Subsystem: "tunnel",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of answered tunnelled requests",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
	}
	reg.MustRegister(m.connected, m.replacements, m.unmatched, m.requests, m.duration)
	return m
}

func (m *Metrics) setConnected(n int) {
	if m == nil {
		return
	}
	m.connected.Set(float64(n))
}

func (m *Metrics) replaced() {
	if m == nil {
		return
	}
	m.replacements.Inc()
}

func (m *Metrics) unmatchedResponse() {
	if m == nil {
		return
	}
	m.unmatched.Inc()
}

func (m *Metrics) request(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resultLabel(err)).Inc()
	if err == nil {
		m.duration.Observe(elapsed.Seconds())
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAgentNotConnected):
		return "not_connected"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrReplaced):
		return "replaced"
	case errors.Is(err, ErrDisconnected):
		return "disconnected"
	case errors.Is(err, ErrShutdown):
		return "shutdown"
	case errors.Is(err, ErrSendFailed):
		return "send_failed"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	default:
		return "cancelled"
	}
}
