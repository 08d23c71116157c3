package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the outcome of token verification.
type Status uint8

const (
	// StatusValid means signature and claims checked out.
	StatusValid Status = iota
	// StatusExpired means the signature was valid but exp has passed.
	StatusExpired
	// StatusInvalidSignature covers bad MACs and disallowed algorithms.
	StatusInvalidSignature
	// StatusMalformed means the token could not be decoded.
	StatusMalformed
	// StatusInvalidClaims covers every other claim rejection (iss, aud, nbf, iat, sub).
	StatusInvalidClaims
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusInvalidSignature:
		return "invalid_signature"
	case StatusMalformed:
		return "malformed"
	case StatusInvalidClaims:
		return "invalid_claims"
	default:
		return "unknown"
	}
}

// Result carries the verified subject, or the failure kind and cause.
type Result struct {
	Subject string
	Status  Status
	Claims  *Claims
	Err     error
}

// OK reports whether the token verified.
func (r Result) OK() bool {
	return r.Status == StatusValid
}

// Classify maps a Parse error onto a Status. Signature problems are checked
// before expiry because golang-jwt verifies the MAC before the claims.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusValid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return StatusMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return StatusInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return StatusExpired
	default:
		return StatusInvalidClaims
	}
}
