package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.ObserveGraphTx("read", "ok", time.Millisecond)
	m.IncSearchCache(true)
	m.SetBreakerState("graph", 2)
	m.ApiInflightInc()
	m.ApiInflightDec()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestMetricsRecordAndExpose(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveAPI("POST", "/research", 200, 20*time.Millisecond)
	m.ObserveAPI("POST", "/research", 200, 30*time.Millisecond)
	m.ObserveGraphTx("write", "error", time.Millisecond)
	m.IncSearchCache(false)

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("POST", "/research", "200")); got != 2 {
		t.Fatalf("unexpected api count: got=%v want=2", got)
	}
	if got := testutil.ToFloat64(m.graphTx.WithLabelValues("write", "error")); got != 1 {
		t.Fatalf("unexpected tx count: got=%v want=1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"heraldry_api_requests_total", "heraldry_search_cache_total{result=\"miss\"} 1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
