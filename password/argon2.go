package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Lower bounds for both configuration and digests read back from storage.
const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

var b64 = base64.StdEncoding

// Config holds Argon2id cost parameters. Memory is in KiB.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Argon2 hashes passwords with Argon2id and a random per-password salt,
// encoding the result as a PHC string. Passwords are used byte for byte with
// no Unicode normalization.
type Argon2 struct {
	config Config
}

// NewArgon2 validates cfg against the minimum cost parameters.
func NewArgon2(cfg Config) (*Argon2, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Argon2{config: cfg}, nil
}

// Name reports the algorithm identifier used in configuration.
func (a *Argon2) Name() string { return algorithmID }

// Hash derives a fresh salt and returns the PHC-encoded digest.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, a.config.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	d := phcDigest{
		memory:      a.config.Memory,
		time:        a.config.Time,
		parallelism: a.config.Parallelism,
		salt:        salt,
	}
	d.key = d.derive(password, a.config.KeyLength)
	return d.String(), nil
}

// Verify re-derives the key with the parameters embedded in digest, so
// digests written under older cost settings keep verifying. A malformed
// digest is an error rather than a mismatch.
func (a *Argon2) Verify(password, digest string) (bool, error) {
	d, err := parsePHC(digest)
	if err != nil {
		return false, err
	}

	computed := d.derive(password, uint32(len(d.key)))
	return subtle.ConstantTimeCompare(computed, d.key) == 1, nil
}

type phcDigest struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (d phcDigest) derive(password string, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), d.salt, d.time, d.memory, d.parallelism, keyLen)
}

func (d phcDigest) params() string {
	return fmt.Sprintf("m=%d,t=%d,p=%d", d.memory, d.time, d.parallelism)
}

// String renders $argon2id$v=19$m=..,t=..,p=..$salt$key.
func (d phcDigest) String() string {
	return strings.Join([]string{
		"",
		algorithmID,
		fmt.Sprintf("v=%d", argon2.Version),
		d.params(),
		b64.EncodeToString(d.salt),
		b64.EncodeToString(d.key),
	}, "$")
}

func parsePHC(encoded string) (phcDigest, error) {
	var d phcDigest

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return d, malformed("want 5 '$'-separated fields")
	}
	if fields[1] != algorithmID {
		return d, malformed("algorithm %q", fields[1])
	}
	if fields[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return d, malformed("version %q", fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &d.memory, &d.time, &d.parallelism); err != nil {
		return d, malformed("parameters %q", fields[3])
	}
	// Sscanf tolerates trailing input and leading zeros; require canonical form.
	if d.params() != fields[3] {
		return d, malformed("parameters %q", fields[3])
	}
	if d.memory < minMemoryKB || d.time < minTimeCost || d.parallelism < minParallelism {
		return d, malformed("parameters below minimum")
	}

	var err error
	if d.salt, err = b64.DecodeString(fields[4]); err != nil || len(d.salt) < int(minSaltLength) {
		return d, malformed("salt")
	}
	if d.key, err = b64.DecodeString(fields[5]); err != nil || len(d.key) == 0 {
		return d, malformed("key")
	}

	return d, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: argon2id %s", ErrMalformedDigest, fmt.Sprintf(format, args...))
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.Memory < minMemoryKB:
		return fmt.Errorf("argon2 memory must be >= %d KiB", minMemoryKB)
	case cfg.Time < minTimeCost:
		return errors.New("argon2 time must be >= 1")
	case cfg.Parallelism < minParallelism:
		return errors.New("argon2 parallelism must be >= 1")
	case cfg.SaltLength < minSaltLength:
		return fmt.Errorf("argon2 salt length must be >= %d", minSaltLength)
	case cfg.KeyLength < minKeyLength:
		return fmt.Errorf("argon2 key length must be >= %d", minKeyLength)
	}
	return nil
}
