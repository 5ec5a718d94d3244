package cryptox

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/sha256x"
)

// DriverName identifies a password hashing scheme.
type DriverName string

const (
	DriverSHA256   DriverName = "sha256"
	DriverArgon2id DriverName = "argon2id"
	DriverBcrypt   DriverName = "bcrypt"
)

// ParseDriverName converts a configuration value into a DriverName.
func ParseDriverName(s string) (DriverName, error) {
	switch d := DriverName(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverSHA256, DriverArgon2id, DriverBcrypt:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnknownDriver, s)
	}
}

// Hasher produces and checks encoded password hashes.
// Implementations must be safe for concurrent use.
type Hasher interface {
	// Hash encodes password. A nil password yields common.ErrInvalidInput.
	Hash(password []byte) (string, error)

	// Verify reports whether password matches encoded. A mismatch is
	// (false, nil); an encoded value this driver cannot parse is
	// (false, err) wrapping common.ErrInvalidHash.
	Verify(password []byte, encoded string) (bool, error)

	// NeedsRehash reports whether encoded was produced with weaker or
	// different parameters than the hasher's current configuration.
	NeedsRehash(encoded string) bool

	Driver() DriverName
}

// DetectDriver infers the driver that produced encoded from its shape.
func DetectDriver(encoded string) (DriverName, bool) {
	switch {
	case sha256x.IsHexDigest(encoded):
		return DriverSHA256, true
	case strings.HasPrefix(encoded, "$argon2id$"):
		return DriverArgon2id, true
	case strings.HasPrefix(encoded, "$2a$"),
		strings.HasPrefix(encoded, "$2b$"),
		strings.HasPrefix(encoded, "$2y$"):
		return DriverBcrypt, true
	default:
		return "", false
	}
}

// SHA256Hasher is the legacy unsalted driver.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password []byte) (string, error) { return HashPassword(password) }

// Verify reports a stored value that is not a hex digest as
// common.ErrInvalidHash. VerifyPassword itself never errors.
func (SHA256Hasher) Verify(password []byte, encoded string) (bool, error) {
	if !sha256x.IsHexDigest(encoded) {
		return false, fmt.Errorf("%w: not a sha256 hex digest", common.ErrInvalidHash)
	}
	return VerifyPassword(password, encoded), nil
}

func (SHA256Hasher) NeedsRehash(encoded string) bool { return !sha256x.IsHexDigest(encoded) }

func (SHA256Hasher) Driver() DriverName { return DriverSHA256 }
