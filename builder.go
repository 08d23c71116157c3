package credstore

import (
	"errors"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/credstore/internal/audit"
	"github.com/MrEthical07/credstore/jwt"
	"github.com/MrEthical07/credstore/password"
	"github.com/MrEthical07/credstore/user"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Store]. A Builder may be built only once.
type Builder struct {
	config     Config
	repository user.Repository
	redis      redis.UniversalClient
	auditSink  AuditSink
	logger     *slog.Logger
	now        func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration. The secret is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRepository sets the user repository. It takes precedence over WithRedis.
func (b *Builder) WithRepository(repo user.Repository) *Builder {
	b.repository = repo
	return b
}

// WithRedis stores users in Redis under Config.Repository.RedisPrefix.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the audit destination. Events are only dispatched when
// Config.Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the operational logger. The default discards everything.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithClock overrides time.Now for record timestamps and token lifetimes.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and wires the Store.
func (b *Builder) Build() (*Store, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// -------- REPOSITORY --------
	repo := b.repository
	switch {
	case repo != nil:
	case b.redis != nil:
		repo = user.NewRedisRepository(b.redis, cfg.Repository.RedisPrefix)
	default:
		repo = user.NewMemoryRepository()
	}

	// -------- PASSWORD HASHER --------
	hasher, err := password.New(cfg.Password.Algorithm, cfg.passwordHasherConfig())
	if err != nil {
		return nil, err
	}

	// -------- TOKEN MANAGER --------
	jm, err := jwt.NewManager(jwt.Config{
		Secret:   cloneBytes(cfg.Token.Secret),
		TTL:      cfg.Token.TTL,
		Issuer:   cfg.Token.Issuer,
		Audience: cfg.Token.Audience,
		Leeway:   cfg.Token.Leeway,
		Now:      now,
	})
	if err != nil {
		return nil, err
	}

	store := &Store{
		config:     cfg,
		repository: repo,
		hasher:     hasher,
		tokens:     jm,
		metrics:    NewMetrics(cfg.Metrics),
		logger:     logger,
		now:        now,
	}
	store.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	logger.Debug("credstore built",
		"algorithm", hasher.Name(),
		"token_ttl", cfg.Token.TTL,
		"audit", cfg.Audit.Enabled,
		"metrics", cfg.Metrics.Enabled,
	)

	return store, nil
}
