// Package metrics provides Prometheus instrumentation for the Jugnu billing service.
package metrics

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jugnu",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jugnu",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// QuotesTotal counts successful price quotes by package code.
	QuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jugnu",
			Name:      "quotes_total",
			Help:      "Total successful price quotes by package.",
		},
		[]string{"package"},
	)

	// QuoteErrorsTotal counts rejected quote requests by reason.
	QuoteErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jugnu",
			Name:      "quote_errors_total",
			Help:      "Total rejected quote requests by reason.",
		},
		[]string{"reason"},
	)

	// CheckoutSessionsTotal counts checkout session attempts by outcome.
	CheckoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jugnu",
			Name:      "checkout_sessions_total",
			Help:      "Total checkout sessions by outcome.",
		},
		[]string{"status"},
	)

	// PointsEarnedTotal counts loyalty points credited to wallets.
	PointsEarnedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jugnu",
		Name:      "points_earned_total",
		Help:      "Total loyalty points credited.",
	})

	// PointsRedeemedTotal counts loyalty points debited at checkout.
	PointsRedeemedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jugnu",
		Name:      "points_redeemed_total",
		Help:      "Total loyalty points redeemed.",
	})

	// RedemptionRejectionsTotal counts refused redemption attempts by reason.
	RedemptionRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jugnu",
			Name:      "redemption_rejections_total",
			Help:      "Total rejected redemption attempts by reason.",
		},
		[]string{"reason"},
	)

	// DBOpenConnections tracks open database connections.
	DBOpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jugnu", Name: "db_open_connections",
		Help: "Number of open database connections.",
	})
	// DBIdleConnections tracks idle database connections.
	DBIdleConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jugnu", Name: "db_idle_connections",
		Help: "Number of idle database connections.",
	})
	// DBInUseConnections tracks in-use database connections.
	DBInUseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jugnu", Name: "db_in_use_connections",
		Help: "Number of in-use database connections.",
	})
	// DBWaitCount tracks the total number of connections waited for.
	DBWaitCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jugnu", Name: "db_wait_count_total",
		Help: "Total number of connections waited for.",
	})
	// DBWaitDuration tracks total time waited for connections.
	DBWaitDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jugnu", Name: "db_wait_duration_seconds_total",
		Help: "Total time waited for connections in seconds.",
	})
	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jugnu", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		QuotesTotal,
		QuoteErrorsTotal,
		CheckoutSessionsTotal,
		PointsEarnedTotal,
		PointsRedeemedTotal,
		RedemptionRejectionsTotal,
		DBOpenConnections,
		DBIdleConnections,
		DBInUseConnections,
		DBWaitCount,
		DBWaitDuration,
		GoroutineCount,
	)
}

// StartDBStatsCollector periodically samples sql.DBStats and runtime goroutine
// count into Prometheus gauges. Call in a goroutine; exits when ctx is done.
func StartDBStatsCollector(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			DBOpenConnections.Set(float64(stats.OpenConnections))
			DBIdleConnections.Set(float64(stats.Idle))
			DBInUseConnections.Set(float64(stats.InUse))
			DBWaitCount.Set(float64(stats.WaitCount))
			DBWaitDuration.Set(stats.WaitDuration.Seconds())
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // Uses route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
