package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := metrics.Middleware(mux)

	for _, id := range []string{"a", "b", "missing"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/blogs/"+id, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	// ID записи не попадает в метку: все запросы схлопываются в шаблон маршрута
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET /api/v1/blogs/{id}", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET /api/v1/blogs/{id}", "GET", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("unmatched", "GET", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.inFlight))

	count, err := testutil.GatherAndCount(reg, "bloglist_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	expected := `
# HELP bloglist_http_requests_in_flight Number of HTTP requests being served.
# TYPE bloglist_http_requests_in_flight gauge
bloglist_http_requests_in_flight 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "bloglist_http_requests_in_flight"))
}

// Запрос, отклоненный до ServeMux, учитывается под шаблоном маршрута
func TestMetrics_RejectedBeforeMux(t *testing.T) {
	reg := prometheus.NewRegistry()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	metrics := NewMetrics(reg).WithRoutes(mux)
	handler := metrics.Middleware(TokenMiddleware(setupTestLogger())(mux))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "malformed header", header: "Basic a b", wantStatus: http.StatusUnauthorized},
		{name: "bearer without token", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "valid header", header: "Bearer token", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/blogs/42", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("DELETE /api/v1/blogs/{id}", "DELETE", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("DELETE /api/v1/blogs/{id}", "DELETE", "204")))
}
