// Package cli provides the interactive gradebook console.
//
// App.Run seeds the default accounts into an empty store, asks for a login
// (the process gives up after Config.MaxLoginAttempts failures) and then
// starts a read–eval–print loop.
//
// Commands:
//   - help, whoami, login, logout, exit | quit
//   - hash     : print the SHA-256 hex digest of an entered password
//   - passwd   : change the own password, or another user's (admin)
//   - users    : list accounts (admin)
//   - adduser  : create an account (admin)
//   - deluser  : remove an account (admin)
//
// Passwords are read without echo when stdin is a terminal and wiped as
// soon as the command that read them returns.
package cli
