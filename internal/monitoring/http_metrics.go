package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics contains the request metrics and the business counters of the API.
type HTTPMetrics struct {
	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	responseSize     *prometheus.HistogramVec
	inFlightRequests *prometheus.GaugeVec

	businessOperations *prometheus.CounterVec
	businessDuration   *prometheus.HistogramVec

	withdrawals         *prometheus.CounterVec
	proposals           *prometheus.CounterVec
	rateLimitRejections *prometheus.CounterVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "justthetip_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "path", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justthetip_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		responseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "justthetip_http_response_size_bytes",
				Help:    "Size of HTTP responses in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 2, 8),
			},
			[]string{"method", "path", "status"},
		),
		inFlightRequests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "justthetip_http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
			[]string{"method", "path"},
		),
		businessOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justthetip_business_operations_total",
				Help: "Total number of business operations",
			},
			[]string{"operation_type", "category", "status"},
		),
		businessDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "justthetip_business_operation_duration_seconds",
				Help:    "Duration of business operations in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"operation_type", "category", "status"},
		),
		withdrawals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justthetip_withdrawals_total",
				Help: "Withdrawal state changes by resulting status",
			},
			[]string{"currency", "status"},
		),
		proposals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justthetip_multisig_proposals_total",
				Help: "Multisig proposal state changes by resulting status",
			},
			[]string{"status"},
		),
		rateLimitRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justthetip_rate_limit_rejections_total",
				Help: "Commands rejected by the rate limiter",
			},
			[]string{"command_type", "scope"},
		),
	}
}

// MustRegister registers all HTTP metrics with the provided registry
func (m *HTTPMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.responseSize,
		m.inFlightRequests,
		m.businessOperations,
		m.businessDuration,
		m.withdrawals,
		m.proposals,
		m.rateLimitRejections,
	)
}

func (m *HTTPMetrics) RecordBusinessMetric(operationType, category, status string, duration float64) {
	m.businessOperations.WithLabelValues(operationType, category, status).Inc()
	if duration > 0 {
		m.businessDuration.WithLabelValues(operationType, category, status).Observe(duration)
	}
}

// HTTPMetricsMiddleware creates a Gin middleware for HTTP metrics collection
func HTTPMetricsMiddleware(metrics *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		method := c.Request.Method

		// unmatched routes have no template, keep cardinality bounded
		if path == "" {
			path = "unmatched"
		}

		metrics.inFlightRequests.WithLabelValues(method, path).Inc()
		defer metrics.inFlightRequests.WithLabelValues(method, path).Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		responseSize := float64(c.Writer.Size())

		metrics.requestDuration.WithLabelValues(method, path, status).Observe(duration)
		metrics.requestsTotal.WithLabelValues(method, path, status).Inc()
		if responseSize > 0 {
			metrics.responseSize.WithLabelValues(method, path, status).Observe(responseSize)
		}
	}
}

// BusinessMetricsRecorder is handed to the services. A nil recorder drops everything.
type BusinessMetricsRecorder struct {
	metrics *HTTPMetrics
}

func NewBusinessMetricsRecorder(metrics *HTTPMetrics) *BusinessMetricsRecorder {
	return &BusinessMetricsRecorder{
		metrics: metrics,
	}
}

func (r *BusinessMetricsRecorder) RecordWithdrawal(currency, status string) {
	if r == nil {
		return
	}
	r.metrics.withdrawals.WithLabelValues(currency, status).Inc()
}

func (r *BusinessMetricsRecorder) RecordProposal(status string) {
	if r == nil {
		return
	}
	r.metrics.proposals.WithLabelValues(status).Inc()
}

func (r *BusinessMetricsRecorder) RecordRateLimitRejection(commandType, scope string) {
	if r == nil {
		return
	}
	r.metrics.rateLimitRejections.WithLabelValues(commandType, scope).Inc()
}

// RecordExecution times a transfer submitted for a withdrawal or a proposal.
func (r *BusinessMetricsRecorder) RecordExecution(source, status string, duration float64) {
	if r == nil {
		return
	}
	r.metrics.RecordBusinessMetric("execution", source, status, duration)
}

// RecordReconciled counts claimed transfers the sweeps closed as FAILED because no outcome was stored.
func (r *BusinessMetricsRecorder) RecordReconciled(job string, failed int64) {
	if r == nil {
		return
	}
	r.metrics.businessOperations.WithLabelValues("expiry_sweep", job, "reconciled").Add(float64(failed))
}

func (r *BusinessMetricsRecorder) RecordSweep(job string, expired int64) {
	if r == nil {
		return
	}
	r.metrics.businessOperations.WithLabelValues("expiry_sweep", job, "expired").Add(float64(expired))
}
