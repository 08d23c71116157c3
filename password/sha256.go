package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const sha256HexLength = sha256.Size * 2

// SHA256 is the legacy digest: lowercase hex of SHA-256 over the raw password
// bytes. It is unsalted, so equal passwords produce equal digests across
// users. It is kept so existing digests keep verifying; prefer [Argon2] for
// new deployments.
type SHA256 struct{}

// Name reports the algorithm identifier used in configuration.
func (SHA256) Name() string { return AlgorithmSHA256 }

// Hash never fails.
func (SHA256) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify compares in constant time.
func (h SHA256) Verify(password, digest string) (bool, error) {
	if len(digest) != sha256HexLength {
		return false, fmt.Errorf("%w: sha256 digest length %d", ErrMalformedDigest, len(digest))
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return false, fmt.Errorf("%w: sha256 digest is not hex", ErrMalformedDigest)
	}

	computed, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, nil
}
