package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/credstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	Users       int    `short:"u" long:"users" default:"10000" description:"number of users to register"`
	Concurrency int    `short:"c" long:"concurrency" default:"64" description:"number of concurrent workers"`
	Ops         int    `short:"o" long:"ops" default:"100000" description:"operations per phase (authenticate + verify)"`
	RedisAddr   string `short:"r" long:"redis-addr" env:"REDIS_ADDR" description:"redis address; miniredis is used when empty"`
	Prefix      string `short:"p" long:"prefix" default:"cs" description:"redis key prefix"`
	Secret      string `short:"s" long:"secret" default:"loadtest-secret" description:"token signing secret"`
	TTLMinutes  int    `long:"ttl" default:"60" description:"token lifetime in minutes"`
	LogLevel    string `long:"log-level" default:"warn" description:"store log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
}

func main() {
	opts := &Options{}
	if _, err := flags.Parse(opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.Users <= 0 || opts.Concurrency <= 0 || opts.Ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "loadtest failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *Options) error {
	client, cleanup, err := connect(opts.RedisAddr)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := credstore.NewConfig(opts.Secret, opts.TTLMinutes)
	cfg.Repository.RedisPrefix = opts.Prefix
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	store, err := credstore.New().
		WithConfig(cfg).
		WithRedis(client).
		WithLogger(newLogger(opts.LogLevel)).
		Build()
	if err != nil {
		return err
	}
	defer store.Close()

	users := make([]string, opts.Users)
	for i := range users {
		users[i] = fmt.Sprintf("user-%d", i)
	}

	registerStats := runPhase(opts.Users, opts.Concurrency, func(i int, _ *rand.Rand) error {
		ok, err := store.Register(ctx, users[i], passwordFor(i), users[i]+"@loadtest.local")
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("duplicate")
		}
		return nil
	})

	authStats := runPhase(opts.Ops, opts.Concurrency, func(_ int, r *rand.Rand) error {
		idx := r.Intn(len(users))
		ok, err := store.Authenticate(ctx, users[idx], passwordFor(idx))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("rejected")
		}
		return nil
	})

	tokens := make([]string, len(users))
	for i, u := range users {
		tok, err := store.IssueToken(ctx, u)
		if err != nil {
			return err
		}
		tokens[i] = tok
	}

	verifyStats := runPhase(opts.Ops, opts.Concurrency, func(_ int, r *rand.Rand) error {
		idx := r.Intn(len(tokens))
		sub, ok := store.VerifyToken(ctx, tokens[idx])
		if !ok || sub != users[idx] {
			return errors.New("token rejected")
		}
		return nil
	})

	fmt.Println("---- results ----")
	printStats("register", registerStats)
	printStats("authenticate", authStats)
	printStats("verify", verifyStats)
	return nil
}

func connect(addr string) (redis.UniversalClient, func(), error) {
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		fmt.Printf("using miniredis at %s\n", mr.Addr())
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	fmt.Printf("using redis at %s\n", addr)
	return client, func() { _ = client.Close() }, nil
}

func runPhase(ops, concurrency int, op func(i int, r *rand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i, r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func passwordFor(i int) string {
	return fmt.Sprintf("pw-%d", i)
}
