// Package metrics exports engine operation metrics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	wterror "github.com/msto63/werktag/foundation/core/error"
)

// Collector implements businesstime.Observer
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	iterations *prometheus.HistogramVec
}

// NewCollector creates a collector registered on its own registry
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Business-time operations by operation and result code.",
		}, []string{"operation", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of business-time operations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"operation"}),
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_iterations",
			Help:      "Precision steps probed per operation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"operation"}),
	}
	c.registry.MustRegister(c.operations, c.duration, c.iterations)
	return c
}

// ObserveOperation records one finished operation
func (c *Collector) ObserveOperation(operation string, iterations int, elapsed time.Duration, err error) {
	code := "OK"
	if err != nil {
		code = string(wterror.GetCode(err))
	}
	c.operations.WithLabelValues(operation, code).Inc()
	c.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	c.iterations.WithLabelValues(operation).Observe(float64(iterations))
}

// Registry returns the registry holding the collector's metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes the metrics atomically in the node_exporter
// textfile format
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return wterror.Wrap(err, "failed to write metrics textfile").
			WithCode(wterror.CodeConfigError).
			WithDetail("path", path)
	}
	return nil
}

// Handler serves the metrics in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
