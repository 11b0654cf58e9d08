package handlers_test

import (
	"database/sql"
	"net/http"
	"testing"

	"halisaha-backend/internal/api/handlers"
	"halisaha-backend/internal/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newHealthRouter(t *testing.T) (*testutils.HTTPTestSuite, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	handler := handlers.NewHealthHandler(db, "test")
	httpSuite := testutils.SetupHTTPTest()
	httpSuite.Router.GET("/health", handler.Health)
	httpSuite.Router.GET("/health/ready", handler.Ready)
	httpSuite.Router.GET("/health/live", handler.Live)
	return httpSuite, mock
}

func TestHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		httpSuite, mock := newHealthRouter(t)
		mock.ExpectPing()

		recorder := httpSuite.MakeRequest(http.MethodGet, "/health", nil)

		var response handlers.HealthResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "test", response.Version)
		assert.Equal(t, "healthy", response.Services["database"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database down", func(t *testing.T) {
		httpSuite, mock := newHealthRouter(t)
		mock.ExpectPing().WillReturnError(sql.ErrConnDone)

		recorder := httpSuite.MakeRequest(http.MethodGet, "/health", nil)

		var response handlers.HealthResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusServiceUnavailable, &response)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Services["database"], "error:")
	})
}

func TestReady(t *testing.T) {
	httpSuite, mock := newHealthRouter(t)
	mock.ExpectPing().WillReturnError(sql.ErrConnDone)

	recorder := httpSuite.MakeRequest(http.MethodGet, "/health/ready", nil)

	var response map[string]interface{}
	testutils.AssertJSONResponse(t, recorder, http.StatusServiceUnavailable, &response)
	assert.Equal(t, false, response["ready"])
}

func TestLive(t *testing.T) {
	httpSuite, _ := newHealthRouter(t)

	recorder := httpSuite.MakeRequest(http.MethodGet, "/health/live", nil)

	var response map[string]interface{}
	testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
	assert.Equal(t, true, response["alive"])
}
