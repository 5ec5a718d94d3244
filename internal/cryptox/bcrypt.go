package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher wraps golang.org/x/crypto/bcrypt. Passwords longer than
// 72 bytes are rejected by bcrypt itself.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Driver() DriverName { return DriverBcrypt }

func (h *BcryptHasher) Hash(password []byte) (string, error) {
	if password == nil {
		return "", common.ErrInvalidInput
	}
	b, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password []byte, encoded string) (bool, error) {
	if password == nil {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(encoded), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrInvalidHash, err)
	}
}

func (h *BcryptHasher) NeedsRehash(encoded string) bool {
	cost, err := bcrypt.Cost([]byte(encoded))
	return err != nil || cost < h.cost
}
