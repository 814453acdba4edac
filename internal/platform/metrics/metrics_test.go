package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/v1/pivot/sessions/{id}", 200, 3*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/pivot/sessions/{id}", 200, 5*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/pivot/sessions/{id}", 404, time.Millisecond)

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/pivot/sessions/{id}", "200")); got != 2 {
		t.Fatalf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/pivot/sessions/{id}", "404")); got != 1 {
		t.Fatalf("404 count = %v, want 1", got)
	}
}

func TestRefreshAndSnapshot(t *testing.T) {
	m := New()
	m.ObserveRefresh("changed")
	m.ObserveRefresh("unchanged")
	m.ObserveRefresh("unchanged")
	m.SetSnapshot(4, 1200)
	m.SetSessions(3)
	m.ObserveRebuild(1200, time.Millisecond)

	if got := testutil.ToFloat64(m.IngestRefreshes.WithLabelValues("unchanged")); got != 2 {
		t.Fatalf("unchanged = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.IngestRecords); got != 1200 {
		t.Fatalf("records = %v", got)
	}
	if got := testutil.ToFloat64(m.IngestVersion); got != 4 {
		t.Fatalf("version = %v", got)
	}
	if got := testutil.ToFloat64(m.PivotSessions); got != 3 {
		t.Fatalf("sessions = %v", got)
	}
	if got := testutil.ToFloat64(m.PivotRebuilds); got != 1 {
		t.Fatalf("rebuilds = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.ObserveRefresh("error")
	m.ObserveRebuild(1, time.Millisecond)
	m.SetSnapshot(1, 1)
	m.SetSessions(1)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRefresh("changed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), `incidencia_ingest_refreshes_total{outcome="changed"} 1`) {
		t.Fatalf("metrics output missing refresh counter:\n%s", body)
	}
}
