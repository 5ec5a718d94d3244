package sha256x

import (
	"encoding/binary"
	"encoding/hex"
)

// encode serializes the state big-endian, h0 first.
func encode(h *[8]uint32) [Size]byte {
	var out [Size]byte
	for i, s := range h {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}

// HexDigest renders a digest as 64 lowercase hex characters.
func HexDigest(sum [Size]byte) string {
	return hex.EncodeToString(sum[:])
}

// IsHexDigest reports whether s has the shape of a HexDigest:
// exactly 64 characters, all in [0-9a-f].
func IsHexDigest(s string) bool {
	if len(s) != HexSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
