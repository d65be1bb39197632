package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "textbook_requests_created_total",
			Help: "Total number of textbook requests created",
		},
	)

	RequestsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "textbook_requests_deleted_total",
			Help: "Total number of textbook requests deleted",
		},
	)

	SyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textbook_sync_total",
			Help: "Reconciliation attempts partitioned by outcome",
		},
		[]string{"outcome"},
	)

	ReceiptsRenderedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "textbook_receipts_rendered_total",
			Help: "Total number of receipt images rendered and uploaded",
		},
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(RequestsCreatedTotal)
	prometheus.MustRegister(RequestsDeletedTotal)
	prometheus.MustRegister(SyncTotal)
	prometheus.MustRegister(ReceiptsRenderedTotal)
}
