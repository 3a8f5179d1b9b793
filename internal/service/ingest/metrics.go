package ingest

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeOK    = "ok"
	outcomeError = "error"

	outcomeAccepted   = "accepted"
	outcomeDuplicated = "duplicated"
	outcomeRejected   = "rejected"
)

// Metrics counts ingested batches and events. A nil *Metrics records nothing.
type Metrics struct {
	batches *prometheus.CounterVec
	events  *prometheus.CounterVec
}

// NewMetrics creates and registers ingestion metrics. Returns nil if reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: "ingest",
			Name:      "batches_total",
			Help:      "Ingested batches by result",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Subsystem: "ingest",
			Name:      "events_total",
			Help:      "Ingested events by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.batches, m.events)
	return m
}

func (m *Metrics) batch(result string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(result).Inc()
}

func (m *Metrics) countEvents(outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.events.WithLabelValues(outcome).Add(float64(n))
}
