package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/prometheus"
	"github.com/helix-insights/madison/pkg/types/intel"
)

type stubService struct{}

func (stubService) Run(context.Context, intel.Query) (*intel.Report, error) {
	return &intel.Report{ReportID: "r-1", DetailedRecords: []intel.ScoredRecord{}}, nil
}

func (stubService) TableRows(*intel.Report) []intel.TableRow { return []intel.TableRow{} }

func newTestRouter(metrics *prometheus.Metrics) *gin.Engine {
	return NewRouter(gin.TestMode, RouterDeps{
		Service: stubService{},
		Logger:  logging.NewNopLogger(),
		Metrics: metrics,
		Version: "test",
	})
}

func TestRouterWiresAnalysisRoute(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reportId":"r-1"`)
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	metrics := prometheus.NewMetrics()
	router := newTestRouter(metrics)

	// Serve one request so the HTTP counters have a sample.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "madison_http_requests_total")
}

func TestRouterMetricsRouteAbsentWithoutMetrics(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
