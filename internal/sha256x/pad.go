package sha256x

import "encoding/binary"

// lengthSize is the size of the bit-length trailer.
const lengthSize = 8

// zeroFill returns how many zero bytes go between the 0x80 marker and the
// length trailer for an n-byte message, so that n+1+fill ≡ 56 (mod 64).
func zeroFill(n uint64) int {
	r := int(n % BlockSize)
	return (55 - r + BlockSize) % BlockSize
}

func putLength(b []byte, n uint64) {
	binary.BigEndian.PutUint64(b, n<<3)
}

// PaddedLen returns the length of the padded form of an n-byte message.
func PaddedLen(n int) int {
	return n + 1 + zeroFill(uint64(n)) + lengthSize
}

// Pad returns a new slice holding msg followed by the SHA-256 padding:
// a 0x80 marker, zero fill, and the message length in bits as a
// big-endian uint64. The result length is a multiple of BlockSize.
// msg is not modified.
func Pad(msg []byte) []byte {
	n := len(msg)
	out := make([]byte, PaddedLen(n))
	copy(out, msg)
	out[n] = 0x80
	putLength(out[len(out)-lengthSize:], uint64(n))
	return out
}
