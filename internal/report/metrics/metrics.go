package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the report module.
type Metrics struct {
	ReportsCreated   *prometheus.CounterVec
	EscalationsTotal prometheus.Counter
	EscalationSweeps prometheus.Counter
}

// New creates and registers all report metrics. Call once at startup.
func New() *Metrics {
	return &Metrics{
		ReportsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "smartbin_reports_created_total",
			Help: "Total reports created, by incident type",
		}, []string{"type"}),
		EscalationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartbin_escalations_total",
			Help: "Total reports auto-escalated by the monitor",
		}),
		EscalationSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartbin_escalation_sweeps_total",
			Help: "Total escalation sweep passes",
		}),
	}
}
