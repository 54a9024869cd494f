package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedViewers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_viewers_total",
			Help: "Current number of connected live viewers",
		},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total broadcast events by name",
		},
		[]string{"event"},
	)

	viewersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewers_dropped_total",
			Help: "Viewers dropped for not keeping up with publishes",
		},
	)

	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_operations_total",
			Help: "Coordinator operations by name and outcome",
		},
		[]string{"operation", "status"},
	)

	persistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "persistence_failures_total",
			Help: "Document saves that failed and rolled back the mutation",
		},
	)
)

func SetConnectedViewers(n int) {
	connectedViewers.Set(float64(n))
}

func EventPublished(event string, dropped int) {
	eventsPublished.WithLabelValues(event).Inc()
	if dropped > 0 {
		viewersDropped.Add(float64(dropped))
	}
}

// TrackOperation records one coordinator operation outcome, status being
// "ok" or the failure class.
func TrackOperation(operation, status string) {
	operations.WithLabelValues(operation, status).Inc()
}

func PersistenceFailure() {
	persistenceFailures.Inc()
}
