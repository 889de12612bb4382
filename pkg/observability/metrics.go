package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric when none is configured
const DefaultNamespace = "sae_inference"

// PrometheusMetricsClient implements MetricsClient using Prometheus collectors
// on a private registry
type PrometheusMetricsClient struct {
	registry *prometheus.Registry

	apiRequests       *prometheus.CounterVec
	apiDuration       *prometheus.HistogramVec
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	activeFeatures    prometheus.Histogram
	rateLimited       *prometheus.CounterVec
}

// NewPrometheusMetricsClient creates a new Prometheus metrics client
func NewPrometheusMetricsClient(namespace string) *PrometheusMetricsClient {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &PrometheusMetricsClient{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total API requests",
		}, []string{"method", "endpoint", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total SAE operations by outcome",
		}, []string{"operation", "status"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "SAE operation duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		activeFeatures: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_active_features",
			Help:      "Active features per encoding",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"endpoint"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.apiRequests,
		c.apiDuration,
		c.operations,
		c.operationDuration,
		c.activeFeatures,
		c.rateLimited,
	)

	return c
}

// NewMetricsClient returns a Prometheus client when metrics are enabled and a
// no-op client otherwise
func NewMetricsClient(cfg MetricsConfig) MetricsClient {
	if !cfg.Enabled {
		return NewNoopMetricsClient()
	}
	return NewPrometheusMetricsClient(cfg.Namespace)
}

// RecordAPIOperation records an API operation
func (c *PrometheusMetricsClient) RecordAPIOperation(method, endpoint string, statusCode int, duration time.Duration) {
	c.apiRequests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	c.apiDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordOperation records an SAE operation
func (c *PrometheusMetricsClient) RecordOperation(operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	c.operations.WithLabelValues(operation, status).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordActiveFeatures records the active feature count of one encoding
func (c *PrometheusMetricsClient) RecordActiveFeatures(count int) {
	c.activeFeatures.Observe(float64(count))
}

// RecordRateLimited counts a rejected request
func (c *PrometheusMetricsClient) RecordRateLimited(endpoint string) {
	c.rateLimited.WithLabelValues(endpoint).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (c *PrometheusMetricsClient) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry, DisableCompression: true})
}

// NoopMetricsClient discards every measurement
type NoopMetricsClient struct{}

// NewNoopMetricsClient creates a new NoopMetricsClient
func NewNoopMetricsClient() MetricsClient {
	return &NoopMetricsClient{}
}

// RecordAPIOperation implements MetricsClient
func (n *NoopMetricsClient) RecordAPIOperation(method, endpoint string, statusCode int, duration time.Duration) {
}

// RecordOperation implements MetricsClient
func (n *NoopMetricsClient) RecordOperation(operation string, success bool, duration time.Duration) {}

// RecordActiveFeatures implements MetricsClient
func (n *NoopMetricsClient) RecordActiveFeatures(count int) {}

// RecordRateLimited implements MetricsClient
func (n *NoopMetricsClient) RecordRateLimited(endpoint string) {}

// Handler implements MetricsClient
func (n *NoopMetricsClient) Handler() http.Handler {
	return http.NotFoundHandler()
}
