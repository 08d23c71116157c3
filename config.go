package credstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/credstore/password"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 60 * time.Minute

// Config is the full store configuration. Obtain one from [DefaultConfig]
// and override fields; the zero value does not validate.
type Config struct {
	Token      TokenConfig
	Password   PasswordConfig
	Repository RepositoryConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls session-token signing (HS256).
//
// A TTL of zero or less is allowed and yields tokens that are already expired.
type TokenConfig struct {
	Secret   []byte
	TTL      time.Duration
	Issuer   string
	Audience string
	Leeway   time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the digest algorithm.
//
// Algorithm "sha256" is the unsalted legacy digest and the default.
// "argon2id" is salted and uses the cost parameters below.
type PasswordConfig struct {
	Algorithm   string
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
REPOSITORY CONFIG
====================================
*/

// RepositoryConfig applies to the Redis-backed repository created by
// [Builder.WithRedis].
type RepositoryConfig struct {
	RedisPrefix string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters and histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration. The token secret is left
// empty and must be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL: DefaultTokenTTL,
		},
		Password: PasswordConfig{
			Algorithm:   password.AlgorithmSHA256,
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Repository: RepositoryConfig{
			RedisPrefix: "cs",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// NewConfig returns the default configuration with a signing secret and a
// token lifetime in minutes.
func NewConfig(secret string, ttlMinutes int) Config {
	cfg := defaultConfig()
	cfg.Token.Secret = []byte(secret)
	cfg.Token.TTL = time.Duration(ttlMinutes) * time.Minute
	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = cloneBytes(cfg.Token.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (c *Config) passwordHasherConfig() password.Config {
	return password.Config{
		Memory:      c.Password.Memory,
		Time:        c.Password.Time,
		Parallelism: c.Password.Parallelism,
		SaltLength:  c.Password.SaltLength,
		KeyLength:   c.Password.KeyLength,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	// Token
	if len(c.Token.Secret) == 0 {
		return errors.New("Token Secret must be set")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}

	// Password
	switch c.Password.Algorithm {
	case password.AlgorithmSHA256:
	case password.AlgorithmArgon2id:
		if c.Password.Memory < 8*1024 {
			return errors.New("Password Memory must be >= 8192 KB")
		}
		if c.Password.Time < 1 {
			return errors.New("Password Time must be >= 1")
		}
		if c.Password.Parallelism < 1 {
			return errors.New("Password Parallelism must be >= 1")
		}
		if c.Password.SaltLength < 16 {
			return errors.New("Password SaltLength must be >= 16")
		}
		if c.Password.KeyLength < 16 {
			return errors.New("Password KeyLength must be >= 16")
		}
	default:
		return fmt.Errorf("Password Algorithm %q is not supported", c.Password.Algorithm)
	}

	// Repository
	if strings.TrimSpace(c.Repository.RedisPrefix) == "" {
		return errors.New("Repository RedisPrefix must be set")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
