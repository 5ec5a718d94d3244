package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultArgon2Params match the master-key derivation cost used elsewhere
// in the project: 64 MiB, one pass, four lanes.
var DefaultArgon2Params = Argon2Params{
	Memory:  64 * 1024,
	Time:    1,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// maxArgon2Params caps the costs accepted from a stored hash at four
// times DefaultArgon2Params. A hasher configured above the cap accepts
// up to its own parameters.
var maxArgon2Params = Argon2Params{
	Memory:  4 * DefaultArgon2Params.Memory,
	Time:    4 * DefaultArgon2Params.Time,
	Threads: 4 * DefaultArgon2Params.Threads,
	SaltLen: 4 * DefaultArgon2Params.SaltLen,
	KeyLen:  4 * DefaultArgon2Params.KeyLen,
}

// Argon2idHasher encodes hashes as
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
//
// with salt and key in unpadded standard base64.
type Argon2idHasher struct {
	params Argon2Params
}

func NewArgon2idHasher(p Argon2Params) *Argon2idHasher {
	return &Argon2idHasher{params: p}
}

func (h *Argon2idHasher) Driver() DriverName { return DriverArgon2id }

// limits returns the largest parameters Verify will run with.
func (h *Argon2idHasher) limits() Argon2Params {
	return Argon2Params{
		Memory:  max(h.params.Memory, maxArgon2Params.Memory),
		Time:    max(h.params.Time, maxArgon2Params.Time),
		Threads: max(h.params.Threads, maxArgon2Params.Threads),
		SaltLen: max(h.params.SaltLen, maxArgon2Params.SaltLen),
		KeyLen:  max(h.params.KeyLen, maxArgon2Params.KeyLen),
	}
}

// DeriveKey runs argon2id over password and salt with the given parameters.
func DeriveKey(password, salt []byte, p Argon2Params) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

func (h *Argon2idHasher) Hash(password []byte) (string, error) {
	if password == nil {
		return "", common.ErrInvalidInput
	}
	salt := common.GenerateRandByteArray(int(h.params.SaltLen))
	key := DeriveKey(password, salt, h.params)
	defer common.WipeByteArray(key)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func (h *Argon2idHasher) Verify(password []byte, encoded string) (bool, error) {
	if password == nil {
		return false, nil
	}
	p, salt, key, err := decodeArgon2id(encoded, h.limits())
	if err != nil {
		return false, err
	}
	candidate := DeriveKey(password, salt, p)
	defer common.WipeByteArray(candidate)

	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

func (h *Argon2idHasher) NeedsRehash(encoded string) bool {
	p, salt, _, err := decodeArgon2id(encoded, h.limits())
	if err != nil {
		return true
	}
	return p.Memory < h.params.Memory ||
		p.Time < h.params.Time ||
		p.Threads < h.params.Threads ||
		p.KeyLen < h.params.KeyLen ||
		uint32(len(salt)) < h.params.SaltLen
}

// decodeArgon2id parses an encoded hash, rejecting parameters above limit.
func decodeArgon2id(encoded string, limit Argon2Params) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, common.ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: version: %v", common.ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", common.ErrInvalidHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %v", common.ErrInvalidHash, err)
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, fmt.Errorf("%w: zero cost parameter", common.ErrInvalidHash)
	}
	if p.Memory > limit.Memory || p.Time > limit.Time || p.Threads > limit.Threads {
		return p, nil, nil, fmt.Errorf("%w: cost parameters m=%d,t=%d,p=%d above limit", common.ErrInvalidHash, p.Memory, p.Time, p.Threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", common.ErrInvalidHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: key", common.ErrInvalidHash)
	}

	if uint32(len(salt)) > limit.SaltLen || uint32(len(key)) > limit.KeyLen {
		return p, nil, nil, fmt.Errorf("%w: salt or key too long", common.ErrInvalidHash)
	}

	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
