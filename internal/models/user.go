// Package models holds the records shared by repositories and services.
package models

import "time"

// User is one credential record.
//
// PasswordHash is an encoded hash produced by a cryptox driver: 64 hex
// characters for the legacy SHA-256 scheme, or a $-prefixed argon2id or
// bcrypt string. It never contains ':'.
type User struct {
	UserName     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
