// Package telemetry registers the Prometheus metrics exposed on GET /metrics.
//
// HTTP metrics use the Gin route template (c.FullPath()) as the path label so that
// team and request ids do not create unbounded label cardinality.
package telemetry

import (
	"database/sql"
	"time"

	"halisaha-backend/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics, labelled by method, route template and status code
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// Join request workflow metrics.
//
// JoinRequestsResolvedTotal is labelled by decision (approved or rejected).
var (
	JoinRequestsSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "join_requests_submitted_total",
			Help: "Total number of team join requests created.",
		},
	)

	JoinRequestsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "join_requests_resolved_total",
			Help: "Total number of team join requests resolved, by decision.",
		},
		[]string{"decision"},
	)
)

// Notification metrics, labelled by notification type
var (
	NotificationsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications stored, by type.",
		},
		[]string{"type"},
	)

	NotificationDispatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatch_failures_total",
			Help: "Total number of notifications that could not be stored, by type.",
		},
		[]string{"type"},
	)

	WebsocketDeliveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_websocket_deliveries_total",
			Help: "Total number of notifications pushed to open websocket connections.",
		},
	)
)

// DBOpenConnections tracks the open connections of the database pool
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector samples pool statistics every interval. A failed ping skips
// that sample; collection resumes once the database answers again.
func StartDBStatsCollector(db *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			collectDBStats(db)
		}
	}()
}

func collectDBStats(db *sql.DB) bool {
	if err := db.Ping(); err != nil {
		logger.New().WithError(err).Warn("db stats collector: database unreachable, skipping sample")
		return false
	}
	DBOpenConnections.Set(float64(db.Stats().OpenConnections))
	return true
}
