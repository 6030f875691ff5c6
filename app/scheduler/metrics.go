package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_ticks_total",
		Help: "Dispatch ticks by terminal outcome",
	}, []string{"outcome"})

	sendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_send_duration_seconds",
		Help:    "Duration of individual email send attempts",
		Buckets: prometheus.DefBuckets,
	})

	inconsistenciesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_inconsistencies_total",
		Help: "Sends that reached the provider but failed to commit",
	})
)

func observeTick(outcome TickOutcome) {
	ticksTotal.WithLabelValues(string(outcome)).Inc()
}
