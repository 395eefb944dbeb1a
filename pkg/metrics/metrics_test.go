package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve_CountsByToolAndOutcome(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewToolMetrics(reg)

	m.Observe("ucp_list_products", "ok", 20*time.Millisecond)
	m.Observe("ucp_list_products", "ok", 10*time.Millisecond)
	m.Observe("ucp_list_products", "upstream_error", 5*time.Millisecond)

	ok := testutil.ToFloat64(m.Invocations.WithLabelValues("ucp_list_products", "ok"))
	if ok != 2 {
		t.Errorf("ok invocations = %v, want 2", ok)
	}
	failed := testutil.ToFloat64(m.Invocations.WithLabelValues("ucp_list_products", "upstream_error"))
	if failed != 1 {
		t.Errorf("upstream_error invocations = %v, want 1", failed)
	}
}

func TestObserve_NilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var m *ToolMetrics
	m.Observe("ucp_discover", "ok", time.Millisecond)
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewToolMetrics(reg)
	m.Observe("ucp_get_order", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "flowerbridge_tool_invocations_total") {
		t.Error("exposition missing flowerbridge_tool_invocations_total")
	}
}
