package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the resolution module.
type Metrics struct {
	ResolutionsTotal   *prometheus.CounterVec
	PointsAwardedTotal prometheus.Counter
	ResolutionSeconds  prometheus.Histogram
}

// New creates and registers all resolution metrics. Call once at startup.
func New() *Metrics {
	return &Metrics{
		ResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "smartbin_resolutions_total",
			Help: "Resolution attempts by outcome",
		}, []string{"outcome"}),
		PointsAwardedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "smartbin_points_awarded_total",
			Help: "Total reward points credited through resolutions",
		}),
		ResolutionSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartbin_resolution_duration_seconds",
			Help:    "Wall time of the resolve operation",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
