// Package dbx holds the database/sql glue shared by the SQL user
// repositories: the DBTX handle and the WithTx transaction helper.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the part of database/sql the repositories call, so the same
// repository code runs on a *sql.DB or inside a *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in a transaction opened with opts. The transaction is
// committed when fn returns nil and rolled back otherwise; a panic in fn
// rolls back and is re-raised.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := users.NewSQLiteRepository(tx)
//	    return repo.Delete(ctx, name)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
