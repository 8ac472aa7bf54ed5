package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/saas-mcp/internal/app"
	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/config"
	"github.com/bobmcallan/saas-mcp/internal/runner"
)

func newTestApp(t *testing.T, mutate ...func(*config.Config)) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Server.Transport = "http"
	for _, m := range mutate {
		m(cfg)
	}

	application, err := app.New(cfg, common.NewSilentLogger(), app.WithRunner(&runner.Fake{}))
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func postMCP(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Status string `json:"status"`
		Tools  int    `json:"tools"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %s", body.Status)
	}
	if body.Tools != application.Registry.Len() {
		t.Errorf("expected %d tools, got %d", application.Registry.Len(), body.Tools)
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("GET", "/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["name"] != "saas-mcp" {
		t.Errorf("expected name saas-mcp, got %s", body["name"])
	}
}

func TestRoutes_NotFound(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON 404, got content type %s", ct)
	}
	if !strings.Contains(w.Body.String(), "/mcp") {
		t.Errorf("expected 404 body to point at /mcp, got %s", w.Body.String())
	}
}

func TestRoutes_MCPToolsList(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	w := postMCP(t, srv.Handler(), `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.Result.Tools) != application.Registry.Len() {
		t.Errorf("expected %d tools, got %d", application.Registry.Len(), len(resp.Result.Tools))
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	application := newTestApp(t)
	srv := New(application)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Header().Get("X-Correlation-ID") != "req-123" {
		t.Errorf("expected X-Correlation-ID=req-123, got %s", w.Header().Get("X-Correlation-ID"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on every route")
	}
}

func TestRoutes_MetricsEnabled(t *testing.T) {
	application := newTestApp(t, func(c *config.Config) {
		c.Metrics.Enabled = true
	})
	srv := New(application)

	call := postMCP(t, srv.Handler(), `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_version","arguments":{}}}`)
	if call.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", call.Code)
	}

	req := httptest.NewRequest("GET", application.Config.Metrics.Path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `saas_mcp_tool_calls_total{outcome="success",tool="get_version"} 1`) {
		t.Errorf("expected get_version call counted, got:\n%s", w.Body.String())
	}
}

func TestRoutes_MetricsDisabled(t *testing.T) {
	application := newTestApp(t, func(c *config.Config) {
		c.Metrics.Enabled = false
	})
	srv := New(application)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 with metrics disabled, got %d", w.Code)
	}
}
