package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsEndpoint(t *testing.T) {
	reg := InitRegistry()

	ObserveHTTP("/v1/banks", "GET", 200, 12*time.Millisecond)
	ObserveExternal("sentiment", "/v1/sentiment", 200, 80*time.Millisecond)
	ObserveCache("redis", "hit")
	ObservePipeline("clean", "kept", 42)
	ObservePipeline("resolve", "unmapped", 3)

	srv := httptest.NewServer(MetricsHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)

	for _, want := range []string{
		"bankpulse_http_requests_total",
		"bankpulse_external_requests_total",
		"bankpulse_cache_events_total",
		`bankpulse_pipeline_records_total{outcome="kept",stage="clean"} 42`,
		`bankpulse_pipeline_records_total{outcome="unmapped",stage="resolve"} 3`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestObservePipeline_IgnoresNonPositive(t *testing.T) {
	reg := InitRegistry()

	ObservePipeline("persist", "written", 0)
	ObservePipeline("persist", "written", -5)

	srv := httptest.NewServer(MetricsHandler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), `outcome="written",stage="persist"`) {
		t.Fatalf("non-positive counts must not create series")
	}
}

func TestLabelErr(t *testing.T) {
	if got := LabelErr(nil); got != "none" {
		t.Fatalf("nil: %q", got)
	}
	if got := LabelErr(io.EOF); got == "" || got == "none" {
		t.Fatalf("non-nil: %q", got)
	}
}
