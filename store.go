package credstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/credstore/internal/audit"
	"github.com/MrEthical07/credstore/jwt"
	"github.com/MrEthical07/credstore/password"
	"github.com/MrEthical07/credstore/user"
)

// Store registers users, checks passwords, and issues and verifies session
// tokens. It is immutable after [Builder.Build] and safe for concurrent use.
type Store struct {
	config     Config
	repository user.Repository
	hasher     password.Hasher
	tokens     *jwt.Manager
	audit      *internalaudit.Dispatcher
	metrics    *Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewInMemory returns a Store backed by an in-memory repository using the
// legacy SHA-256 digest and a token lifetime of ttlMinutes.
func NewInMemory(secret string, ttlMinutes int) (*Store, error) {
	return New().WithConfig(NewConfig(secret, ttlMinutes)).Build()
}

// Close stops the audit dispatcher after delivering buffered events.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

// AuditDropped returns the number of audit events discarded because the
// buffer was full.
func (s *Store) AuditDropped() uint64 {
	if s == nil || s.audit == nil {
		return 0
	}
	return s.audit.Dropped()
}

// MetricsSnapshot returns a copy of the current counters and histograms.
func (s *Store) MetricsSnapshot() MetricsSnapshot {
	if s == nil || s.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return s.metrics.Snapshot()
}

func (s *Store) metricInc(id MetricID) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.Inc(id)
}

func (s *Store) observeSince(id MetricID, start time.Time) {
	if s == nil || !s.metrics.LatencyEnabled() {
		return
	}
	s.metrics.Observe(id, time.Since(start))
}

func (s *Store) ready() bool {
	return s != nil && s.repository != nil && s.hasher != nil && s.tokens != nil
}

// Register creates username with the digest of password. It returns false
// with a nil error when the username is already taken.
func (s *Store) Register(ctx context.Context, username, pass, email string) (bool, error) {
	if !s.ready() {
		return false, ErrStoreNotReady
	}
	digest, err := s.hasher.Hash(pass)
	if err != nil {
		s.metricInc(MetricRegisterFailure)
		s.emitAudit(ctx, auditEventRegisterFailure, false, username, auditErrPasswordHash, nil)
		s.logger.ErrorContext(ctx, "password hashing failed", "username", username, "error", err)
		return false, fmt.Errorf("%w: %v", ErrPasswordHash, err)
	}

	rec := user.Record{
		Username:       username,
		PasswordDigest: digest,
		Email:          email,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.repository.Put(ctx, rec); err != nil {
		if errors.Is(err, user.ErrExists) {
			s.metricInc(MetricRegisterDuplicate)
			s.emitAudit(ctx, auditEventRegisterDuplicate, false, username, auditErrDuplicate, nil)
			return false, nil
		}
		s.metricInc(MetricRegisterFailure)
		s.emitAudit(ctx, auditEventRegisterFailure, false, username, auditErrorCode(err), nil)
		s.logger.WarnContext(ctx, "register failed", "username", username, "error", err)
		return false, err
	}

	s.metricInc(MetricRegisterSuccess)
	s.emitAudit(ctx, auditEventRegisterSuccess, true, username, "", nil)
	return true, nil
}

// Authenticate reports whether pass matches the stored digest for username.
// An unknown user yields false with a nil error.
func (s *Store) Authenticate(ctx context.Context, username, pass string) (bool, error) {
	if !s.ready() {
		return false, ErrStoreNotReady
	}
	start := time.Now()
	defer s.observeSince(MetricAuthenticateLatency, start)

	rec, err := s.repository.Get(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.metricInc(MetricAuthenticateUnknownUser)
			s.emitAudit(ctx, auditEventAuthenticateFailure, false, username, auditErrUserNotFound, nil)
			return false, nil
		}
		s.metricInc(MetricAuthenticateFailure)
		s.emitAudit(ctx, auditEventAuthenticateFailure, false, username, auditErrorCode(err), nil)
		s.logger.WarnContext(ctx, "authenticate lookup failed", "username", username, "error", err)
		return false, err
	}

	ok, err := s.hasher.Verify(pass, rec.PasswordDigest)
	if err != nil {
		s.metricInc(MetricAuthenticateFailure)
		s.emitAudit(ctx, auditEventAuthenticateFailure, false, username, auditErrPasswordHash, nil)
		s.logger.ErrorContext(ctx, "stored digest rejected by hasher",
			"username", username,
			"algorithm", s.hasher.Name(),
			"error", err,
		)
		return false, fmt.Errorf("%w: %v", ErrPasswordHash, err)
	}
	if !ok {
		s.metricInc(MetricAuthenticateFailure)
		s.emitAudit(ctx, auditEventAuthenticateFailure, false, username, auditErrInvalidCredentials, nil)
		return false, nil
	}

	s.metricInc(MetricAuthenticateSuccess)
	s.emitAudit(ctx, auditEventAuthenticateSuccess, true, username, "", nil)
	return true, nil
}

// IssueToken signs a session token for username. Existence of the user is
// not checked.
func (s *Store) IssueToken(ctx context.Context, username string) (string, error) {
	if !s.ready() {
		return "", ErrStoreNotReady
	}
	token, claims, err := s.tokens.Issue(username)
	if err != nil {
		s.logger.ErrorContext(ctx, "token signing failed", "username", username, "error", err)
		return "", fmt.Errorf("%w: %v", ErrTokenIssue, err)
	}

	s.metricInc(MetricTokenIssued)
	s.emitAudit(ctx, auditEventTokenIssued, true, username, "", func() map[string]string {
		return map[string]string{
			"jti":        claims.ID,
			"expires_at": claims.ExpiresAt.UTC().Format(time.RFC3339),
		}
	})
	return token, nil
}

// VerifyToken returns the token subject, or "" and false for any malformed,
// expired or wrongly signed token.
func (s *Store) VerifyToken(ctx context.Context, token string) (string, bool) {
	res := s.VerifyTokenResult(ctx, token)
	if !res.OK() {
		return "", false
	}
	return res.Subject, true
}

// VerifyTokenResult is VerifyToken with the failure kind preserved.
func (s *Store) VerifyTokenResult(ctx context.Context, token string) TokenResult {
	if !s.ready() {
		return TokenResult{Status: TokenInvalidClaims, Err: ErrStoreNotReady}
	}
	start := time.Now()
	defer s.observeSince(MetricVerifyLatency, start)

	res := s.tokens.Verify(token)
	s.metricInc(tokenStatusMetric(res.Status))

	if !res.OK() {
		s.emitAudit(ctx, auditEventTokenRejected, false, "", AuditErrorCode(res.Status.String()), nil)
		s.logger.DebugContext(ctx, "token rejected", "status", res.Status.String())
		return TokenResult{Status: res.Status, Err: res.Err}
	}

	s.emitAudit(ctx, auditEventTokenVerified, true, res.Subject, "", func() map[string]string {
		return map[string]string{"jti": res.Claims.ID}
	})

	out := TokenResult{Subject: res.Subject, Status: TokenValid}
	if res.Claims != nil && res.Claims.ExpiresAt != nil {
		out.ExpiresAt = res.Claims.ExpiresAt.Time
	}
	return out
}

// GetUserInfo returns username's record without the password digest.
func (s *Store) GetUserInfo(ctx context.Context, username string) (UserInfo, bool, error) {
	if !s.ready() {
		return UserInfo{}, false, ErrStoreNotReady
	}

	rec, err := s.repository.Get(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.metricInc(MetricUserInfoMiss)
			return UserInfo{}, false, nil
		}
		s.logger.WarnContext(ctx, "user info lookup failed", "username", username, "error", err)
		return UserInfo{}, false, err
	}

	s.metricInc(MetricUserInfoHit)
	return UserInfo{
		Username:  rec.Username,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
	}, true, nil
}

func tokenStatusMetric(status TokenStatus) MetricID {
	switch status {
	case TokenValid:
		return MetricTokenValid
	case TokenExpired:
		return MetricTokenExpired
	case TokenInvalidSignature:
		return MetricTokenInvalidSignature
	case TokenMalformed:
		return MetricTokenMalformed
	default:
		return MetricTokenInvalidClaims
	}
}
