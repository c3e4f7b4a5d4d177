package metrics

import "github.com/prometheus/client_golang/prometheus"

// Point operation Prometheus metrics.
var (
	PointOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecstore",
			Name:      "point_operations_total",
			Help:      "Total number of point write operations",
		},
		[]string{"operation", "status"},
	)

	QueryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecstore",
			Name:      "query_requests_total",
			Help:      "Total number of vector query requests",
		},
		[]string{"variant", "status"},
	)
)

var pointMetricsRegistered bool

// RegisterPointMetrics registers Prometheus point metrics. Must be called once from main.
func RegisterPointMetrics() {
	if pointMetricsRegistered {
		return
	}
	prometheus.MustRegister(PointOperationsTotal)
	prometheus.MustRegister(QueryRequestsTotal)
	pointMetricsRegistered = true
}
