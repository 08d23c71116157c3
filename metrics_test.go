package credstore

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricRegisterSuccess)

	if got := m.Value(MetricRegisterSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricTokenValid)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricTokenValid); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		700 * time.Millisecond,
	}
	for _, d := range observations {
		m.Observe(MetricAuthenticateLatency, d)
	}

	buckets := m.Snapshot().Histograms[MetricAuthenticateLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}
	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d expected 1, got %d", i, v)
		}
	}
}

func TestMetricsObserveIgnoresCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.Observe(MetricTokenIssued, time.Millisecond)

	if _, ok := m.Snapshot().Histograms[MetricTokenIssued]; ok {
		t.Fatal("counter id must not produce a histogram")
	}
}

func TestStoreMetricsFlow(t *testing.T) {
	ctx := context.Background()
	cfg := NewConfig(testSecret, 60)
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	s, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer s.Close()

	_, _ = s.Register(ctx, "alice", "pw123", "a@x.com")
	_, _ = s.Register(ctx, "alice", "pw123", "a@x.com")
	_, _ = s.Authenticate(ctx, "alice", "pw123")
	_, _ = s.Authenticate(ctx, "alice", "bad")
	_, _ = s.Authenticate(ctx, "nobody", "pw")
	token, _ := s.IssueToken(ctx, "alice")
	s.VerifyToken(ctx, token)
	s.VerifyToken(ctx, "garbage-string")
	_, _, _ = s.GetUserInfo(ctx, "alice")
	_, _, _ = s.GetUserInfo(ctx, "nobody")

	snap := s.MetricsSnapshot()
	want := map[MetricID]uint64{
		MetricRegisterSuccess:         1,
		MetricRegisterDuplicate:       1,
		MetricAuthenticateSuccess:     1,
		MetricAuthenticateFailure:     1,
		MetricAuthenticateUnknownUser: 1,
		MetricTokenIssued:             1,
		MetricTokenValid:              1,
		MetricTokenMalformed:          1,
		MetricUserInfoHit:             1,
		MetricUserInfoMiss:            1,
	}
	for id, v := range want {
		if got := snap.Counters[id]; got != v {
			t.Fatalf("counter %d = %d, want %d", id, got, v)
		}
	}

	var authObs, verifyObs uint64
	for _, v := range snap.Histograms[MetricAuthenticateLatency] {
		authObs += v
	}
	for _, v := range snap.Histograms[MetricVerifyLatency] {
		verifyObs += v
	}
	if authObs != 3 || verifyObs != 2 {
		t.Fatalf("histogram totals = %d/%d, want 3/2", authObs, verifyObs)
	}
}

func TestTokenStatusMetric(t *testing.T) {
	tests := map[TokenStatus]MetricID{
		TokenValid:            MetricTokenValid,
		TokenExpired:          MetricTokenExpired,
		TokenInvalidSignature: MetricTokenInvalidSignature,
		TokenMalformed:        MetricTokenMalformed,
		TokenInvalidClaims:    MetricTokenInvalidClaims,
	}
	for status, want := range tests {
		if got := tokenStatusMetric(status); got != want {
			t.Fatalf("tokenStatusMetric(%v) = %d, want %d", status, got, want)
		}
	}
}
