// Package cryptox holds the password digest schemes used for profile rows
// and the AEAD helpers used to seal locally persisted data.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/carTloyal123/shoppi/internal/common"
	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHashFormat   = errors.New("invalid encoded hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrUnknownScheme       = errors.New("unknown digest scheme")
)

const (
	SchemeArgon2id = "argon2id"
	SchemeSHA256   = "sha256"
)

// Bounds on parameters read back from a stored digest. Digests come from
// backend rows, so they are not trusted.
const (
	maxMemoryKiB  = 1 << 20 // 1 GiB
	maxIterations = 64
	minKeyLength  = 16
	maxKeyLength  = 1024
)

// Hasher turns a plaintext password into a storable digest and checks a
// plaintext against a stored digest.
type Hasher interface {
	// Digest is salted for argon2id, so only the legacy scheme is deterministic.
	Digest(plaintext string) (string, error)
	Matches(plaintext, digest string) bool
}

// NewHasher returns the Hasher for scheme. An empty scheme means argon2id.
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case "", SchemeArgon2id:
		return NewArgon2Hasher(DefaultHashParams()), nil
	case SchemeSHA256:
		return LegacyHasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// LegacyDigest is the unsalted single-round digest older profile rows were
// written with: lowercase hex SHA-256, always 64 characters.
//
// It is deterministic and offers no protection against offline guessing.
func LegacyDigest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// LegacyHasher keeps the old unsalted scheme. Only selected explicitly.
type LegacyHasher struct{}

func (LegacyHasher) Digest(plaintext string) (string, error) {
	return LegacyDigest(plaintext), nil
}

func (LegacyHasher) Matches(plaintext, digest string) bool {
	return constantTimeEqual(LegacyDigest(plaintext), strings.ToLower(digest))
}

// HashParams configures the Argon2id hashing parameters.
type HashParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultHashParams returns recommended Argon2id parameters for password hashing.
func DefaultHashParams() HashParams {
	return HashParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2Hasher writes salted Argon2id digests in PHC string format and
// still verifies legacy hex digests so existing rows keep working.
type Argon2Hasher struct {
	params HashParams
}

func NewArgon2Hasher(p HashParams) *Argon2Hasher {
	return &Argon2Hasher{params: p}
}

func (h *Argon2Hasher) Digest(plaintext string) (string, error) {
	return HashPassword(plaintext, h.params)
}

func (h *Argon2Hasher) Matches(plaintext, digest string) bool {
	if NeedsRehash(digest) {
		return LegacyHasher{}.Matches(plaintext, digest)
	}
	ok, err := VerifyPassword(plaintext, digest)
	return err == nil && ok
}

// NeedsRehash reports whether digest was produced by the legacy scheme.
func NeedsRehash(digest string) bool {
	return !strings.HasPrefix(digest, "$"+SchemeArgon2id+"$")
}

// HashPassword hashes plaintext with Argon2id and a fresh random salt.
// The result looks like $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>.
func HashPassword(plaintext string, p HashParams) (string, error) {
	salt := common.GenerateRandByteArray(int(p.SaltLength))
	hash := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword checks plaintext against an encoded Argon2id hash.
func VerifyPassword(plaintext, encoded string) (bool, error) {
	p, salt, hash, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

func decodeHash(encoded string) (HashParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != SchemeArgon2id {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	if version != argon2.Version {
		return HashParams{}, nil, nil, ErrIncompatibleVersion
	}

	var p HashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	p.SaltLength = uint32(len(salt))

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	p.KeyLength = uint32(len(hash))

	if p.Iterations < 1 || p.Iterations > maxIterations ||
		p.Parallelism < 1 || p.Memory > maxMemoryKiB ||
		p.KeyLength < minKeyLength || p.KeyLength > maxKeyLength {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	return p, salt, hash, nil
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
