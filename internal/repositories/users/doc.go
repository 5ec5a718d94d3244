// Package users provides persistence for credential records.
//
// # Implementations
//
//   - MemoryRepository  : map-backed; the working set of FileRepository and a test double
//   - FileRepository    : the line-oriented "username:hash:admin" text file
//   - SQLiteRepository  : modernc.org/sqlite over dbx.DBTX
//   - PostgresRepository: pgx (database/sql) over dbx.DBTX
//
// All implementations report a missing user as common.ErrorNotFound and a
// duplicate username as common.ErrorLoginAlreadyExists. List returns users
// ordered by username.
//
// The SQL repositories are bound to a dbx.DBTX, so the same constructor
// serves both a *sql.DB and a *sql.Tx. FileRepository offers the same
// all-or-nothing grouping through WithinTx.
package users
