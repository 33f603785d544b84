package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "model_comparator"

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	modelInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_invocations_total",
			Help:      "Number of model invocations by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	modelInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_invocation_duration_seconds",
			Help:      "Wall-clock duration of model invocations",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	comparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Number of comparison runs by outcome",
		},
		[]string{"status"},
	)
)

func HTTPRequest(method, path, code string, duration time.Duration) {
	httpRequestsTotal.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"code":   code,
	}).Inc()
	httpRequestDuration.With(prometheus.Labels{
		"method": method,
		"path":   path,
	}).Observe(duration.Seconds())
}

func ModelInvocation(provider, model, status string, duration time.Duration) {
	modelInvocationsTotal.With(prometheus.Labels{
		"provider": provider,
		"model":    model,
		"status":   status,
	}).Inc()
	modelInvocationDuration.With(prometheus.Labels{
		"provider": provider,
		"model":    model,
	}).Observe(duration.Seconds())
}

func Comparison(status string) {
	comparisonsTotal.With(prometheus.Labels{"status": status}).Inc()
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
