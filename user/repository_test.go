package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func sampleRecord(username string) Record {
	return Record{
		Username:       username,
		PasswordDigest: "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0",
		Email:          username + "@example.com",
		CreatedAt:      time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC),
	}
}

func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	_, client := newTestRedis(t)
	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"redis":  NewRedisRepository(client, "cs"),
	}
}

func TestRepositoryPutGetContains(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleRecord("alice")

			ok, err := repo.Contains(ctx, "alice")
			if err != nil || ok {
				t.Fatalf("Contains before Put = %v, %v; want false, nil", ok, err)
			}

			if err := repo.Put(ctx, want); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			ok, err = repo.Contains(ctx, "alice")
			if err != nil || !ok {
				t.Fatalf("Contains after Put = %v, %v; want true, nil", ok, err)
			}

			got, err := repo.Get(ctx, "alice")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Username != want.Username || got.PasswordDigest != want.PasswordDigest || got.Email != want.Email {
				t.Fatalf("Get = %+v, want %+v", got, want)
			}
			if !got.CreatedAt.Equal(want.CreatedAt) {
				t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
			}
		})
	}
}

func TestRepositoryGetMissing(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(context.Background(), "nobody")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestRepositoryPutDuplicateKeepsOriginal(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := sampleRecord("bob")
			if err := repo.Put(ctx, first); err != nil {
				t.Fatalf("first Put failed: %v", err)
			}

			second := sampleRecord("bob")
			second.Email = "other@example.com"
			if err := repo.Put(ctx, second); !errors.Is(err, ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}

			got, err := repo.Get(ctx, "bob")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Email != first.Email {
				t.Fatalf("duplicate Put overwrote record: email=%q", got.Email)
			}
		})
	}
}

func TestRepositoryConcurrentPutSingleWinner(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			const workers = 32

			var (
				wg   sync.WaitGroup
				wins atomic.Int64
				dups atomic.Int64
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					rec := sampleRecord("carol")
					rec.Email = fmt.Sprintf("c%d@example.com", i)
					switch err := repo.Put(context.Background(), rec); {
					case err == nil:
						wins.Add(1)
					case errors.Is(err, ErrExists):
						dups.Add(1)
					default:
						t.Errorf("unexpected Put error: %v", err)
					}
				}(i)
			}
			wg.Wait()

			if wins.Load() != 1 || dups.Load() != workers-1 {
				t.Fatalf("wins=%d dups=%d, want 1 and %d", wins.Load(), dups.Load(), workers-1)
			}
		})
	}
}

func TestMemoryRepositoryHonorsCanceledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Put(ctx, sampleRecord("dave")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("expected no records after canceled Put, got %d", repo.Len())
	}
}

func TestRedisRepositoryKeyLayout(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisRepository(client, "tenantA")

	if err := repo.Put(context.Background(), sampleRecord("erin")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !mr.Exists("tenantA:user:erin") {
		t.Fatalf("expected key tenantA:user:erin, keys=%v", mr.Keys())
	}
	if ttl := mr.TTL("tenantA:user:erin"); ttl != 0 {
		t.Fatalf("expected record without expiry, got ttl %v", ttl)
	}
}

func TestRedisRepositoryCorruptRecord(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisRepository(client, "cs")

	if err := mr.Set("cs:user:frank", "not-a-record"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := repo.Get(context.Background(), "frank")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestRedisRepositoryRejectsMismatchedUsername(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisRepository(client, "cs")

	blob, err := Encode(sampleRecord("grace"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := mr.Set("cs:user:heidi", string(blob)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := repo.Get(context.Background(), "heidi"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for mismatched username, got %v", err)
	}
}

func TestRedisRepositoryUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisRepository(client, "cs")
	mr.Close()

	ctx := context.Background()
	if _, err := repo.Get(ctx, "ivan"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Get: expected ErrUnavailable, got %v", err)
	}
	if _, err := repo.Contains(ctx, "ivan"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Contains: expected ErrUnavailable, got %v", err)
	}
	if err := repo.Put(ctx, sampleRecord("ivan")); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Put: expected ErrUnavailable, got %v", err)
	}
}
