package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gradebook/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   users file path
//	-s string   store backend (file|sqlite|postgres)
//	-d string   database DSN
//	-k string   hash driver for new hashes (sha256|argon2id|bcrypt)
//	-n int      maximum login attempts at startup
//	-r bool     rehash stored credentials on successful login
//	-l string   log level
//
// os.Args is first filtered with flagx.FilterArgs so -c/-config and
// unrelated arguments never reach this flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-s", "-d", "-k", "-n", "-r", "-l"}, "-r")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.UsersFile, "f", config.UsersFile, "users file")
	fs.StringVar(&config.Store, "s", config.Store, "credential store: file, sqlite or postgres")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.HashDriver, "k", config.HashDriver, "hash driver: sha256, argon2id or bcrypt")
	fs.IntVar(&config.MaxLoginAttempts, "n", config.MaxLoginAttempts, "max login attempts")
	fs.BoolVar(&config.RehashOnLogin, "r", config.RehashOnLogin, "rehash stored credentials on login")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
