package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/enrolld/enrolld/internal/health"
	"github.com/enrolld/enrolld/internal/observability"
	"github.com/enrolld/enrolld/internal/registration"
	_ "github.com/enrolld/enrolld/testing"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func newTestRouter(t *testing.T, pinger stubPinger, metrics *observability.Metrics) http.Handler {
	t.Helper()
	logger := slog.Default()
	svc := registration.NewService(nil, nil, logger, registration.ServiceConfig{})
	return NewRouter(RouterParams{
		Logger:              logger,
		Config:              &Config{AppEnv: "development"},
		RegistrationHandler: registration.NewHandler(logger, svc),
		HealthHandler:       health.NewHandler(pinger, logger),
		Metrics:             metrics,
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t, stubPinger{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "healthy")
}

func TestRouterHealthDatabaseDown(t *testing.T) {
	router := newTestRouter(t, stubPinger{err: errors.New("down")}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouterSecurityHeaders(t *testing.T) {
	router := newTestRouter(t, stubPinger{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, stubPinger{}, observability.NewMetrics())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "enrolld_http_requests_total")
}

func TestRouterJobsRoutesAbsentWithoutHandler(t *testing.T) {
	router := newTestRouter(t, stubPinger{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
