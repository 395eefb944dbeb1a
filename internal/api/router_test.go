package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ucpkit/flowerbridge/internal/domain/tool"
	"github.com/ucpkit/flowerbridge/internal/infra/ucp"
	"github.com/ucpkit/flowerbridge/pkg/metrics"
)

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	t.Cleanup(upstream.Close)

	registry, err := tool.NewBuiltinRegistry(ucp.NewClient(upstream.URL, ucp.DefaultTimeout))
	if err != nil {
		t.Fatalf("NewBuiltinRegistry failed: %v", err)
	}

	promReg := prometheus.NewRegistry()
	dispatcher := tool.NewDispatcher(registry, metrics.NewToolMetrics(promReg))

	router, err := NewRouter(dispatcher, promReg)
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	return router, promReg
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if body["server"] != "ucp-flower-shop" {
		t.Errorf("server = %q, want ucp-flower-shop", body["server"])
	}
}

func TestRouter_InfoListsTools(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/info", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Name       string            `json:"name"`
		Version    string            `json:"version"`
		Transports map[string]string `json:"transports"`
		Tools      []string          `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode info body: %v", err)
	}

	if body.Name != "ucp-flower-shop" {
		t.Errorf("name = %q", body.Name)
	}
	if len(body.Tools) != 9 {
		t.Errorf("len(tools) = %d, want 9", len(body.Tools))
	}
	if body.Transports["sse"] != "/sse" || body.Transports["streamable"] != "/mcp" {
		t.Errorf("transports = %v", body.Transports)
	}
	for _, name := range body.Tools {
		if !strings.HasPrefix(name, "ucp_") {
			t.Errorf("unexpected tool name %q", name)
		}
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
