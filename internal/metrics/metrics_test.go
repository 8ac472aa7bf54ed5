package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCall_CountsByOutcome(t *testing.T) {
	m := New()

	m.ObserveCall("stripe_check", "success", 120*time.Millisecond)
	m.ObserveCall("stripe_check", "success", 80*time.Millisecond)
	m.ObserveCall("stripe_check", "error", 5*time.Millisecond)

	if got := testutil.ToFloat64(m.calls.WithLabelValues("stripe_check", "success")); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.calls.WithLabelValues("stripe_check", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveCall("parallel", "success", time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `saas_mcp_tool_calls_total{outcome="success",tool="parallel"} 1`) {
		t.Errorf("expected tool_calls_total series in output:\n%s", body)
	}
	if !strings.Contains(string(body), "saas_mcp_tool_call_duration_seconds_bucket") {
		t.Error("expected duration histogram in output")
	}
}
