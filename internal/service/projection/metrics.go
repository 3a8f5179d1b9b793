package projection

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

// Metrics counts projection outcomes. A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
}

// NewMetrics creates and registers projection metrics. Returns nil if reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slide_relay",
			Name:      "projection_total",
			Help:      "Projected events by event type and outcome",
		}, []string{"event_type", "outcome"}),
	}
	reg.MustRegister(m.outcomes)
	return m
}

func (m *Metrics) observe(eventType string, outcome Outcome) {
	if m == nil {
		return
	}
	// Producers choose event types freely; keep label cardinality bounded.
	switch eventType {
	case domain.EventTypeCaseUpserted, domain.EventTypeSlideRegistered, domain.EventTypePreviewPublished:
	default:
		eventType = "other"
	}
	m.outcomes.WithLabelValues(eventType, string(outcome)).Inc()
}
