package prometheus

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountersAndHandler(t *testing.T) {
	m := NewMetrics("patentlens_test")

	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/patents", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/patents", "200").Inc()
	m.CacheHitsTotal.WithLabelValues("patents").Inc()
	m.ExportJobsTotal.WithLabelValues("done").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/patents", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("patents")))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "patentlens_test_http_requests_total"))
	assert.True(t, strings.Contains(body, "patentlens_test_export_jobs_total"))
}

func TestMetricsDefaultNamespace(t *testing.T) {
	m := NewMetrics("")
	m.HTTPActiveRequests.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPActiveRequests))
}
