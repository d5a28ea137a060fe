package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics counts wallet operations and records their latency.
// A nil *OperationMetrics discards observations.
type OperationMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	configures *prometheus.CounterVec
}

// NewOperationMetrics creates the collectors and registers them on reg.
func NewOperationMetrics(namespace string, reg prometheus.Registerer) (*OperationMetrics, error) {
	m := &OperationMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_operations_total",
			Help:      "Wallet operations by operation name and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wallet_operation_duration_seconds",
			Help:      "Wallet operation latency including lock acquisition.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		configures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_configurations_total",
			Help:      "Runtime backend reconfigurations by kind, mode and outcome.",
		}, []string{"kind", "mode", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.latency, m.configures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveOperation records one operation. Outcome is "success",
// "unsuccessful" or an error kind.
func (m *OperationMetrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveConfigure records one runtime reconfiguration.
func (m *OperationMetrics) ObserveConfigure(kind, mode, outcome string) {
	if m == nil {
		return
	}
	m.configures.WithLabelValues(kind, mode, outcome).Inc()
}
