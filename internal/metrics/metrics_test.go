package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jonesrussell/north-cloud/article-service/internal/metrics"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := metrics.New()

	m.RecordCreate()
	m.RecordCreate()
	m.RecordLookup(metrics.LookupByID, true)
	m.RecordLookup(metrics.LookupByViewID, false)
	m.RecordFilter(3*time.Millisecond, 0)
	m.RecordFilter(time.Millisecond, 4)

	if got := testutil.ToFloat64(m.ArticlesCreated); got != 2 {
		t.Errorf("articles_created_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Lookups.WithLabelValues("id", "hit")); got != 1 {
		t.Errorf("lookups id/hit = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Lookups.WithLabelValues("view_id", "miss")); got != 1 {
		t.Errorf("lookups view_id/miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Filters.WithLabelValues("empty")); got != 1 {
		t.Errorf("filters empty = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.FilterDuration); got != 1 {
		t.Errorf("filter_duration collectors = %d, want 1", got)
	}
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	m.RecordCreate()
	m.RecordLookup(metrics.LookupByID, true)
	m.RecordFilter(time.Millisecond, 1)
	if m.Handler() != nil {
		t.Error("nil metrics should have no handler")
	}
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.RecordCreate()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "/metrics", http.NoBody)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "article_service_articles_created_total 1") {
		t.Errorf("exposition missing counter:\n%s", w.Body.String())
	}
}
