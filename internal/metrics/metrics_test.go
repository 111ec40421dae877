package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Recording(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	m.ObserveReload(nil, 10*time.Millisecond)
	m.ObserveReload(errors.New("boom"), time.Millisecond)
	m.ObserveReload(nil, time.Millisecond)
	m.SetSnapshot(3, 10, 2)
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()

	if got := testutil.ToFloat64(m.Reloads.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok reloads = %v", got)
	}
	if got := testutil.ToFloat64(m.Reloads.WithLabelValues("error")); got != 1 {
		t.Errorf("error reloads = %v", got)
	}
	if got := testutil.ToFloat64(m.States); got != 3 {
		t.Errorf("states = %v", got)
	}
	if got := testutil.ToFloat64(m.Rows.WithLabelValues("dropped")); got != 2 {
		t.Errorf("dropped rows = %v", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Errorf("cache misses = %v", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveReload(nil, time.Second)
	m.SetSnapshot(1, 1, 1)
	m.CacheHit()
	m.CacheMiss()
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.SetSnapshot(5, 7, 0)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "policymap_catalog_states 5") {
		t.Errorf("metrics output missing states gauge:\n%s", rec.Body.String())
	}
}
