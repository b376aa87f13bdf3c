package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the transaction orchestrator.
var (
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infection_transactions_total",
			Help: "Total orchestrated transactions by type and final status",
		},
		[]string{"type", "status"},
	)

	TransactionStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "infection_transaction_steps_total",
			Help: "Total saga steps by step name and outcome",
		},
		[]string{"step", "status"},
	)

	TransactionInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "infection_transaction_in_flight",
			Help: "1 while an orchestrated operation is running (loading indicator)",
		},
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(TransactionsTotal)
	prometheus.MustRegister(TransactionStepsTotal)
	prometheus.MustRegister(TransactionInFlight)
}

// GaugeLoadingIndicator backs the caller-visible loading indicator with the
// in-flight gauge.
type GaugeLoadingIndicator struct{}

func (GaugeLoadingIndicator) Set(active bool) {
	if active {
		TransactionInFlight.Inc()
		return
	}
	TransactionInFlight.Dec()
}
