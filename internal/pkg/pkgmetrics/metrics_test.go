package pkgmetrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordUpload(t *testing.T) {
	m := New()

	m.RecordUpload("csv", "ok", 10, 2)
	m.RecordUpload("csv", "ok", 5, 0)
	m.RecordUpload("xlsx", "failed", 0, 0)

	if got := testutil.ToFloat64(m.uploads.WithLabelValues("csv", "ok")); got != 2 {
		t.Fatalf("csv ok uploads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues("xlsx", "failed")); got != 1 {
		t.Fatalf("xlsx failed uploads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rows.WithLabelValues("parsed")); got != 15 {
		t.Fatalf("parsed rows = %v, want 15", got)
	}
	if got := testutil.ToFloat64(m.rows.WithLabelValues("dropped")); got != 2 {
		t.Fatalf("dropped rows = %v, want 2", got)
	}
}

func TestRecordUploadNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordUpload("csv", "ok", 1, 1)
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/anything", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "unmatched", "201")); got != 1 {
		t.Fatalf("requests counter = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "placement_http_requests_total") {
		t.Fatalf("expected exposition to contain placement_http_requests_total")
	}
}

func TestRecordDeliveryAndQueueDepth(t *testing.T) {
	m := New()

	m.RecordDelivery("data_uploaded", "delivered")
	m.RecordDelivery("data_uploaded", "delivered")
	m.RecordDelivery("batch_added", "failed")

	if got := testutil.ToFloat64(m.events.WithLabelValues("data_uploaded", "delivered")); got != 2 {
		t.Fatalf("delivered = %v, want 2", got)
	}

	depth := 3
	if err := m.ObserveQueue("event", func() int { return depth }); err != nil {
		t.Fatalf("ObserveQueue: %v", err)
	}
	if err := m.ObserveQueue("event", func() int { return 0 }); err == nil {
		t.Fatal("expected duplicate gauge registration to fail")
	}

	want := `
# HELP placement_event_queue_depth Items waiting in the event queue.
# TYPE placement_event_queue_depth gauge
placement_event_queue_depth 3
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "placement_event_queue_depth"); err != nil {
		t.Fatalf("unexpected gauge: %v", err)
	}

	var nilMetrics *Metrics
	nilMetrics.RecordDelivery("batch_added", "delivered")
	if err := nilMetrics.ObserveQueue("event", func() int { return 0 }); err != nil {
		t.Fatalf("nil ObserveQueue: %v", err)
	}
}
