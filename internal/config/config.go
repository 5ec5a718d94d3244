// Package config handles configuration for the gradebook binary,
// including defaults, JSON overlay, and command-line flags.
package config

// Store backends accepted in Config.Store.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds runtime settings.
//
// Fields:
//   - Store: credential backend, one of file, sqlite or postgres.
//   - UsersFile: path of the username:hash:admin text file (file store).
//   - DatabaseDSN: SQLite path/DSN or PostgreSQL DSN (pgx), depending on Store.
//   - HashDriver: driver for new hashes (sha256, argon2id or bcrypt).
//   - MaxLoginAttempts: failed logins allowed at startup before exiting.
//   - RehashOnLogin: upgrade stored hashes to HashDriver after a successful login.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Store            string
	UsersFile        string
	DatabaseDSN      string
	HashDriver       string
	MaxLoginAttempts int
	RehashOnLogin    bool
	LogLevel         string
}

// LoadDefaults populates Config with values compatible with the legacy
// users file: plain SHA-256 hashes stored in data/users.txt.
func (c *Config) LoadDefaults() {
	c.Store = StoreFile
	c.UsersFile = "data/users.txt"
	c.DatabaseDSN = "data/gradebook.db"
	c.HashDriver = "sha256"
	c.MaxLoginAttempts = 3
	c.RehashOnLogin = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
