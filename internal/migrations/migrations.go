// Package migrations embeds the goose schema migrations, one directory
// per SQL dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

//go:embed postgres/*.sql
var postgresFS embed.FS

// SQLite returns the migrations for modernc.org/sqlite rooted at ".".
func SQLite() fs.FS { return mustSub(sqliteFS, "sqlite") }

// Postgres returns the migrations for PostgreSQL rooted at ".".
func Postgres() fs.FS { return mustSub(postgresFS, "postgres") }

func mustSub(f embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
