// Package sha256x is the credential-hashing digest used by gradebook:
// a self-contained SHA-256 (FIPS 180-4) with a streaming Write/Sum
// interface and one-shot helpers that return the 64-character
// lowercase hex form stored in the credential file.
//
// The pipeline is split the way the algorithm is described:
//
//	Pad       message -> padded message (multiple of 64 bytes)
//	schedule  64-byte block -> 64 message-schedule words
//	compress  state + schedule -> new state
//	encode    state -> 32-byte digest -> HexDigest
//
// Digest implements hash.Hash and never materialises the padded
// message; Pad exists for callers (and tests) that need the padding
// contract on its own.
package sha256x

import "hash"

// Size is the size of a SHA-256 digest in bytes.
const Size = 32

// BlockSize is the block size of SHA-256 in bytes.
const BlockSize = 64

// HexSize is the length of a hex-encoded digest.
const HexSize = 2 * Size

const (
	init0 = 0x6a09e667
	init1 = 0xbb67ae85
	init2 = 0x3c6ef372
	init3 = 0xa54ff53a
	init4 = 0x510e527f
	init5 = 0x9b05688c
	init6 = 0x1f83d9ab
	init7 = 0x5be0cd19
)

// Digest is the running state of a SHA-256 computation.
// The zero value is not ready for use; call New or Reset.
type Digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

var _ hash.Hash = (*Digest)(nil)

// New returns a Digest ready to accept data.
func New() *Digest {
	d := new(Digest)
	d.Reset()
	return d
}

// Reset restores the initial state and discards buffered input.
func (d *Digest) Reset() {
	d.h = [8]uint32{init0, init1, init2, init3, init4, init5, init6, init7}
	d.x = [BlockSize]byte{}
	d.nx = 0
	d.len = 0
}

func (d *Digest) Size() int { return Size }

func (d *Digest) BlockSize() int { return BlockSize }

// Write absorbs p. Whole blocks are compressed immediately, the tail is
// buffered until the next Write or Sum. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	nn := len(p)
	d.len += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			blocks(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		blocks(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return nn, nil
}

// Sum appends the digest of everything written so far to in.
// It works on a copy, so the caller may keep writing afterwards.
func (d *Digest) Sum(in []byte) []byte {
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

// checkSum appends the padding trailer and returns the final digest.
// It consumes d.
func (d *Digest) checkSum() [Size]byte {
	n := d.len

	var tmp [BlockSize + 8]byte
	tmp[0] = 0x80
	fill := zeroFill(n)
	putLength(tmp[1+fill:], n)
	d.Write(tmp[:1+fill+8])

	if d.nx != 0 {
		panic("sha256x: d.nx != 0 after padding")
	}

	return encode(&d.h)
}

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) [Size]byte {
	var d Digest
	d.Reset()
	d.Write(data)
	return d.checkSum()
}

// SumHex returns the SHA-256 digest of data as 64 lowercase hex characters.
func SumHex(data []byte) string {
	return HexDigest(Sum256(data))
}
