package providers

import (
	"github.com/samber/do/v2"

	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
)

// ProvideMetrics provides the Prometheus metrics registry.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}
