package common

import (
	"crypto/rand"
	"runtime"
)

// GenerateRandByteArray returns size bytes from crypto/rand.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray overwrites b with zeros. It is nil-safe.
//
// The KeepAlive after clear keeps the slice reachable past the stores so
// they cannot be treated as dead. This shortens the lifetime of secrets
// such as plaintext passwords but is not a guarantee: the runtime may
// already hold copies elsewhere.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	clear(b)
	runtime.KeepAlive(b)
}

// WithWipe calls fn with b and wipes b afterwards on every exit path,
// including a panic inside fn.
//
//	err := common.WithWipe(password, func(p []byte) error {
//	    return svc.ChangePassword(ctx, name, p)
//	})
func WithWipe(b []byte, fn func([]byte) error) error {
	defer WipeByteArray(b)
	return fn(b)
}
