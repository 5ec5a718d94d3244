// Package cryptox turns passwords into storable credential hashes and
// checks login attempts against them.
//
// HashPassword and VerifyPassword implement the legacy scheme kept for
// compatibility with existing credential files: bare, unsalted SHA-256
// rendered as 64 lowercase hex characters. It is fast to brute-force,
// so new deployments should select a salted driver (argon2id or bcrypt)
// through Manager, which still verifies legacy hashes and can upgrade
// them on the next successful login.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/sha256x"
)

// HashPassword returns the HexDigest of password.
//
// A nil slice means the caller passed no password at all and yields
// common.ErrInvalidInput. An empty, non-nil slice is a valid (empty)
// password.
func HashPassword(password []byte) (string, error) {
	if password == nil {
		return "", common.ErrInvalidInput
	}
	return sha256x.SumHex(password), nil
}

// VerifyPassword reports whether password hashes to stored.
//
// The comparison inspects every byte of the 64-character digest
// regardless of where a mismatch occurs. Only the stored length, which
// is public, short-circuits. A nil password or a malformed stored
// value is a plain mismatch.
func VerifyPassword(password []byte, stored string) bool {
	if password == nil || len(stored) != sha256x.HexSize {
		return false
	}
	candidate := sha256x.SumHex(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
