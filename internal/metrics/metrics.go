// Package metrics defines the Prometheus collectors the tick driver observes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tick groups the per-tick collectors for the player-info encoder.
type Tick struct {
	Duration  prometheus.Histogram
	BlobBytes prometheus.Histogram
	Additions prometheus.Counter
	Errors    prometheus.Counter
	Viewers   prometheus.Gauge
}

// NewTick creates and registers the tick collectors on reg.
func NewTick(reg prometheus.Registerer) *Tick {
	factory := promauto.With(reg)
	return &Tick{
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rs2go",
			Subsystem: "playerinfo",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one full encoding pass over all viewers.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		BlobBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rs2go",
			Subsystem: "playerinfo",
			Name:      "blob_bytes",
			Help:      "Size of one viewer's encoded player-info blob.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 12),
		}),
		Additions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "playerinfo",
			Name:      "player_additions_total",
			Help:      "Global-to-local player transitions encoded.",
		}),
		Errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "playerinfo",
			Name:      "tick_errors_total",
			Help:      "Per-viewer encoding failures.",
		}),
		Viewers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "rs2go",
			Subsystem: "playerinfo",
			Name:      "registered_viewers",
			Help:      "Currently registered viewers.",
		}),
	}
}
