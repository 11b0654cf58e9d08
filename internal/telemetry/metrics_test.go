package telemetry

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsRegistered(t *testing.T) {
	cases := []struct {
		name string
		c    prometheus.Collector
	}{
		{"http_requests_total", HTTPRequestsTotal},
		{"http_request_duration_seconds", HTTPRequestDuration},
		{"join_requests_submitted_total", JoinRequestsSubmittedTotal},
		{"join_requests_resolved_total", JoinRequestsResolvedTotal},
		{"notifications_created_total", NotificationsCreatedTotal},
		{"notification_dispatch_failures_total", NotificationDispatchFailuresTotal},
		{"notification_websocket_deliveries_total", WebsocketDeliveriesTotal},
		{"db_open_connections", DBOpenConnections},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := prometheus.DefaultRegisterer.Register(tc.c)
			var already prometheus.AlreadyRegisteredError
			assert.ErrorAs(t, err, &already)
		})
	}
}

func TestResolvedCounterByDecision(t *testing.T) {
	approved := counterValue(t, JoinRequestsResolvedTotal.WithLabelValues("approved"))
	rejected := counterValue(t, JoinRequestsResolvedTotal.WithLabelValues("rejected"))

	JoinRequestsResolvedTotal.WithLabelValues("approved").Inc()

	assert.Equal(t, approved+1, counterValue(t, JoinRequestsResolvedTotal.WithLabelValues("approved")))
	assert.Equal(t, rejected, counterValue(t, JoinRequestsResolvedTotal.WithLabelValues("rejected")))
}

func TestDispatchFailureCounter(t *testing.T) {
	before := counterValue(t, NotificationDispatchFailuresTotal.WithLabelValues("team_join"))
	NotificationDispatchFailuresTotal.WithLabelValues("team_join").Inc()
	assert.Equal(t, before+1, counterValue(t, NotificationDispatchFailuresTotal.WithLabelValues("team_join")))
}

func TestDBStatsCollectorSurvivesFailedPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	DBOpenConnections.Set(-1)

	assert.False(t, collectDBStats(db))
	var m dto.Metric
	require.NoError(t, DBOpenConnections.Write(&m))
	assert.Equal(t, float64(-1), m.GetGauge().GetValue())

	assert.True(t, collectDBStats(db))
	require.NoError(t, DBOpenConnections.Write(&m))
	assert.Equal(t, float64(db.Stats().OpenConnections), m.GetGauge().GetValue())

	assert.NoError(t, mock.ExpectationsWereMet())
}
