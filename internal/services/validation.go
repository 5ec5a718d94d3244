package services

import "github.com/dmitrijs2005/gradebook/internal/common"

const (
	MinUserNameLength = 3
	MaxUserNameLength = 20
	MinPasswordLength = 6
	MaxPasswordLength = 50

	// MaxUsers caps the number of accounts in a store.
	MaxUsers = 50
)

// ValidateUserName accepts 3 to 20 ASCII letters and digits.
func ValidateUserName(name string) error {
	if len(name) < MinUserNameLength || len(name) > MaxUserNameLength {
		return common.ErrorInvalidLoginFormat
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return common.ErrorInvalidLoginFormat
		}
	}
	return nil
}

// ValidatePassword accepts 6 to 50 bytes of any content.
func ValidatePassword(password []byte) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return common.ErrorInvalidPasswordFormat
	}
	return nil
}
