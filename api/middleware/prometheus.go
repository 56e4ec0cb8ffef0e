package middleware

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
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status", "service"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	feedSamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_samples_total",
			Help: "Total number of feed sample calls",
		},
		[]string{"status", "service"},
	)

	feedSampleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_sample_duration_seconds",
			Help:    "Duration of feed sample calls in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service"},
	)

	feedSampleBatch = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_sample_batch_size",
			Help:    "Number of posts returned per feed sample",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10, 20, 50},
		},
		[]string{"service"},
	)

	feedExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_exhausted_total",
			Help: "Total number of exhausted feed responses",
		},
		[]string{"service"},
	)

	engagementOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_ops_total",
			Help: "Total number of engagement operations",
		},
		[]string{"operation", "status", "service"},
	)

	engagementOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engagement_op_duration_seconds",
			Help:    "Duration of engagement operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "service"},
	)
)

func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
			serviceName,
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			serviceName,
		).Observe(duration)
	}
}

// RecordFeedSample записывает метрики одного вызова сэмплера
func RecordFeedSample(serviceName string, batch int, exhausted bool, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	feedSamplesTotal.WithLabelValues(status, serviceName).Inc()
	feedSampleDuration.WithLabelValues(serviceName).Observe(duration.Seconds())

	if err != nil {
		return
	}
	feedSampleBatch.WithLabelValues(serviceName).Observe(float64(batch))
	if exhausted {
		feedExhaustedTotal.WithLabelValues(serviceName).Inc()
	}
}

// RecordEngagementOp записывает метрики лайка/комментария
func RecordEngagementOp(operation, serviceName string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	engagementOpsTotal.WithLabelValues(operation, status, serviceName).Inc()
	engagementOpDuration.WithLabelValues(operation, serviceName).Observe(duration.Seconds())
}
