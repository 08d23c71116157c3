package password

import (
	"errors"
	"fmt"
)

// Algorithm identifiers accepted by [New].
const (
	AlgorithmSHA256   = "sha256"
	AlgorithmArgon2id = algorithmID
)

var (
	// ErrUnknownAlgorithm is returned by [New] for an unrecognized algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
	// ErrMalformedDigest is returned by Verify when a stored digest cannot be
	// parsed by the hasher.
	ErrMalformedDigest = errors.New("malformed password digest")
)

// Hasher turns a plaintext password into a storable digest and checks a
// candidate password against one.
type Hasher interface {
	Name() string
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

// New returns the Hasher for algorithm. Argon2 parameters are ignored for
// sha256.
func New(algorithm string, cfg Config) (Hasher, error) {
	switch algorithm {
	case AlgorithmSHA256:
		return SHA256{}, nil
	case AlgorithmArgon2id:
		return NewArgon2(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}
