package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/credstore"
)

type fakeSource struct {
	snapshot credstore.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() credstore.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                       { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewFromSource(fakeSource{
		snapshot: credstore.MetricsSnapshot{
			Counters:   map[credstore.MetricID]uint64{},
			Histograms: map[credstore.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderCountersAndHistogram(t *testing.T) {
	exp := NewFromSource(fakeSource{
		snapshot: credstore.MetricsSnapshot{
			Counters: map[credstore.MetricID]uint64{
				credstore.MetricRegisterSuccess: 7,
			},
			Histograms: map[credstore.MetricID][]uint64{
				credstore.MetricVerifyLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	for _, want := range []string{
		"credstore_register_success_total 7",
		"credstore_token_malformed_total 0",
		`credstore_verify_latency_seconds_bucket{le="0.005"} 1`,
		`credstore_verify_latency_seconds_bucket{le="+Inf"} 36`,
		"credstore_verify_latency_seconds_count 36",
		"credstore_audit_dropped_total 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "credstore_authenticate_latency_seconds") {
		t.Fatalf("histogram absent from snapshot must not render:\n%s", out)
	}
}

func TestRenderFromStore(t *testing.T) {
	cfg := credstore.NewConfig("exporter-secret", 60)
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	store, err := credstore.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	_, _ = store.Register(ctx, "alice", "pw123", "a@x.com")
	_, _ = store.Authenticate(ctx, "alice", "pw123")
	store.VerifyToken(ctx, "garbage-string")

	out := New(store).Render()
	for _, want := range []string{
		"credstore_register_success_total 1",
		"credstore_authenticate_success_total 1",
		"credstore_token_malformed_total 1",
		"credstore_authenticate_latency_seconds_count 1",
		"credstore_verify_latency_seconds_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewFromSource(fakeSource{
		snapshot: credstore.MetricsSnapshot{
			Counters:   map[credstore.MetricID]uint64{credstore.MetricTokenIssued: 1},
			Histograms: map[credstore.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEscapeHelp(t *testing.T) {
	if got := escapeHelp("a\\b\nc"); got != `a\\b\nc` {
		t.Fatalf("escapeHelp = %q", got)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewFromSource(fakeSource{
		snapshot: credstore.MetricsSnapshot{
			Counters: map[credstore.MetricID]uint64{
				credstore.MetricRegisterSuccess:     1000,
				credstore.MetricAuthenticateSuccess: 800,
				credstore.MetricAuthenticateFailure: 40,
				credstore.MetricTokenValid:          700,
			},
			Histograms: map[credstore.MetricID][]uint64{
				credstore.MetricAuthenticateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
				credstore.MetricVerifyLatency:       {80, 10, 0, 0, 0, 0, 0, 0},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
