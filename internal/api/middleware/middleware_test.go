package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"halisaha-backend/internal/config"
	"halisaha-backend/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		id, _ := c.Get(RequestIDKey)
		c.String(http.StatusOK, "%v", id)
	})

	t.Run("generates a uuid when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates inbound id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "match-night-42")
		router.ServeHTTP(w, req)

		assert.Equal(t, "match-night-42", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "match-night-42", w.Body.String())
	})
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), Logger(), Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:5173"}}
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/teams", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/teams", nil)
		req.Header.Set("Origin", "https://evil.example")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/teams", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestMetrics(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())
	router.GET("/teams/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := telemetry.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/teams/:id", "200")
	before := readCounter(t, counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, before+1, readCounter(t, counter))
}

func readCounter(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
