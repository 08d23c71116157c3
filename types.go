package credstore

import (
	"time"

	"github.com/MrEthical07/credstore/jwt"
)

// UserInfo is a user record with the password digest removed.
type UserInfo struct {
	Username  string
	Email     string
	CreatedAt time.Time
}

// TokenStatus is the verification outcome of a session token.
type TokenStatus = jwt.Status

const (
	// TokenValid means the token verified.
	TokenValid = jwt.StatusValid
	// TokenExpired means the signature was valid but the token has expired.
	TokenExpired = jwt.StatusExpired
	// TokenInvalidSignature means the MAC or algorithm was rejected.
	TokenInvalidSignature = jwt.StatusInvalidSignature
	// TokenMalformed means the token could not be decoded.
	TokenMalformed = jwt.StatusMalformed
	// TokenInvalidClaims means issuer, audience, subject or iat was rejected.
	TokenInvalidClaims = jwt.StatusInvalidClaims
)

// TokenResult is the detailed outcome returned by [Store.VerifyTokenResult].
type TokenResult struct {
	Subject string
	Status  TokenStatus
	// ExpiresAt is set only for valid tokens.
	ExpiresAt time.Time
	Err       error
}

// OK reports whether the token verified.
func (r TokenResult) OK() bool {
	return r.Status == TokenValid
}
