package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	maxLeeway           = 2 * time.Minute
	defaultMaxFutureIAT = 10 * time.Minute
	maxFutureIATCeiling = 24 * time.Hour
)

var (
	// ErrMissingSubject is returned by Parse for a verified token without a sub claim.
	// An empty sub is present and accepted.
	ErrMissingSubject = errors.New("token subject missing")
	// ErrFutureIssuedAt is returned by Parse when iat exceeds MaxFutureIAT.
	ErrFutureIssuedAt = errors.New("token iat too far in the future")
)

// Config controls token signing and validation.
//
// TTL may be zero or negative; such tokens are expired as soon as they are
// issued.
type Config struct {
	Secret       []byte
	TTL          time.Duration
	Issuer       string
	Audience     string
	Leeway       time.Duration
	MaxFutureIAT time.Duration
	// Now overrides the clock for issuance and validation. Defaults to time.Now.
	Now func() time.Time
}

// Manager issues and verifies HS256-signed subject tokens.
//
// A Manager is immutable after NewManager and safe for concurrent use.
type Manager struct {
	config Config
	parser *jwt.Parser
}

// Claims is the token payload: sub, iat, exp and jti, plus iss/aud when
// configured.
//
// Subject shadows the embedded sub so it is written even when empty; the
// embedded RegisteredClaims.Subject is unused.
type Claims struct {
	Subject *string `json:"sub"`
	jwt.RegisteredClaims
}

// GetSubject implements jwt.Claims.
func (c Claims) GetSubject() (string, error) {
	if c.Subject == nil {
		return "", nil
	}
	return *c.Subject, nil
}

// NewManager validates cfg and prepares the parser.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires a secret")
	}
	if cfg.Leeway < 0 || cfg.Leeway > maxLeeway {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = defaultMaxFutureIAT
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > maxFutureIATCeiling {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Secret = append([]byte(nil), cfg.Secret...)

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Audience))
	}

	return &Manager{
		config: cfg,
		parser: jwt.NewParser(options...),
	}, nil
}

// TTL reports the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Issue signs a token for subject. It does not check that the subject exists.
func (m *Manager) Issue(subject string) (string, *Claims, error) {
	now := m.config.Now()
	claims := &Claims{
		Subject: &subject,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
		},
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.config.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse verifies the signature and registered claims of tokenStr.
// Errors wrap the golang-jwt sentinels so [Classify] can inspect them.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := m.parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.IssuedAt != nil {
		maxAllowed := m.config.Now().Add(m.config.MaxFutureIAT)
		if claims.IssuedAt.Time.After(maxAllowed) {
			return nil, ErrFutureIssuedAt
		}
	}
	if claims.Subject == nil {
		return nil, ErrMissingSubject
	}

	return claims, nil
}

// Verify parses tokenStr and reports the outcome as a [Result].
func (m *Manager) Verify(tokenStr string) Result {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return Result{Status: Classify(err), Err: err}
	}
	return Result{
		Subject: *claims.Subject,
		Status:  StatusValid,
		Claims:  claims,
	}
}
