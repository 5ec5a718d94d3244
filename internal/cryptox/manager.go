package cryptox

import (
	"fmt"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Manager hashes with a default driver and verifies with whichever
// registered driver produced the stored value.
type Manager struct {
	drivers map[DriverName]Hasher
	def     DriverName
}

var _ Hasher = (*Manager)(nil)

// NewManager registers hashers and selects def as the driver for new hashes.
func NewManager(def DriverName, hashers ...Hasher) (*Manager, error) {
	m := &Manager{drivers: make(map[DriverName]Hasher, len(hashers)), def: def}
	for _, h := range hashers {
		m.drivers[h.Driver()] = h
	}
	if _, ok := m.drivers[def]; !ok {
		return nil, fmt.Errorf("%w: %q is not registered", common.ErrUnknownDriver, def)
	}
	return m, nil
}

// NewDefaultManager registers all drivers with their default costs.
func NewDefaultManager(def DriverName) (*Manager, error) {
	return NewManager(def,
		SHA256Hasher{},
		NewArgon2idHasher(DefaultArgon2Params),
		NewBcryptHasher(bcrypt.DefaultCost),
	)
}

func (m *Manager) Driver() DriverName { return m.def }

func (m *Manager) Hash(password []byte) (string, error) {
	return m.drivers[m.def].Hash(password)
}

// Verify dispatches on the stored format. A format no registered driver
// recognises yields common.ErrUnknownHashFormat.
func (m *Manager) Verify(password []byte, encoded string) (bool, error) {
	name, ok := DetectDriver(encoded)
	if !ok {
		return false, common.ErrUnknownHashFormat
	}
	h, ok := m.drivers[name]
	if !ok {
		return false, fmt.Errorf("%w: driver %q not registered", common.ErrUnknownHashFormat, name)
	}
	return h.Verify(password, encoded)
}

// NeedsRehash is true when encoded was not produced by the default
// driver, or was produced by it with weaker parameters.
func (m *Manager) NeedsRehash(encoded string) bool {
	name, ok := DetectDriver(encoded)
	if !ok || name != m.def {
		return true
	}
	return m.drivers[m.def].NeedsRehash(encoded)
}
