package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizzeria_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pizzeria_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizzeria_order_operations_total",
			Help: "Total number of order, cart and catalog operations",
		},
		[]string{"operation", "status"},
	)

	checkoutTotal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pizzeria_checkout_total_amount",
			Help:    "Order totals at checkout, in currency units",
			Buckets: []float64{500, 1000, 1500, 2000, 3000, 5000, 10000},
		},
	)

	writeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizzeria_write_failures_total",
			Help: "Checkout writes that failed and were not rolled back",
		},
		[]string{"kind"},
	)
)

// PrometheusMiddleware records request counts and latencies per route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
	}
}

func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

// RecordOperation is meant to be deferred by handlers; it reads the final
// response status.
func RecordOperation(c *gin.Context, operation string) {
	code := c.Writer.Status()
	RecordOrderOperation(operation, code >= 200 && code < 300)
}

func RecordCheckout(total int64) {
	checkoutTotal.Observe(float64(total))
}

// RecordWriteFailure matches the checkout pipeline's failure hook signature.
func RecordWriteFailure(kind string, _ error) {
	writeFailures.WithLabelValues(kind).Inc()
}
