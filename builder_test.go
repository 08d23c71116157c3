package credstore

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/MrEthical07/credstore/user"
)

type countingRepository struct {
	mu    sync.Mutex
	puts  int
	inner *user.MemoryRepository
}

func (r *countingRepository) repo() *user.MemoryRepository {
	if r.inner == nil {
		r.inner = user.NewMemoryRepository()
	}
	return r.inner
}

func (r *countingRepository) Get(ctx context.Context, username string) (user.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.repo().Get(ctx, username)
}

func (r *countingRepository) Contains(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.repo().Contains(ctx, username)
}

func (r *countingRepository) Put(ctx context.Context, rec user.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts++
	return r.repo().Put(ctx, rec)
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(NewConfig(testSecret, 60))

	s, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer s.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	_, err := New().Build()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig without a secret, got %v", err)
	}
}

func TestBuilderCopiesSecret(t *testing.T) {
	ctx := context.Background()
	cfg := NewConfig(testSecret, 60)

	s, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer s.Close()

	token, err := s.IssueToken(ctx, "alice")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	for i := range cfg.Token.Secret {
		cfg.Token.Secret[i] = 'x'
	}

	if _, ok := s.VerifyToken(ctx, token); !ok {
		t.Fatal("mutating caller's secret changed the store")
	}
}

func TestBuilderRepositoryTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	repo := &countingRepository{}
	s, err := New().
		WithConfig(NewConfig(testSecret, 60)).
		WithRedis(rdb).
		WithRepository(repo).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Register(ctx, "alice", "pw", "a@x.com"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if repo.puts != 1 {
		t.Fatalf("expected custom repository to receive Put, got %d", repo.puts)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("redis should be untouched, keys=%v", mr.Keys())
	}
}

func TestBuilderLogger(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := New().
		WithConfig(NewConfig(testSecret, 60)).
		WithRedis(rdb).
		WithLogger(logger).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer s.Close()

	s.VerifyToken(ctx, "garbage")
	mr.Close()
	_, _ = s.Register(ctx, "alice", "secret-password", "a@x.com")

	out := buf.String()
	if !strings.Contains(out, "status=malformed") {
		t.Fatalf("expected token rejection log, got:\n%s", out)
	}
	if !strings.Contains(out, "register failed") {
		t.Fatalf("expected backend failure log, got:\n%s", out)
	}
	if strings.Contains(out, "secret-password") || strings.Contains(out, "garbage") {
		t.Fatalf("log leaked a credential:\n%s", out)
	}
}
