// Package repomanager opens a credential store for the configured backend
// and applies its schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gradebook/internal/dbx"
	"github.com/dmitrijs2005/gradebook/internal/repositories/users"
	"github.com/pressly/goose/v3"
)

// RepositoryManager vends repositories bound to a DBTX and migrates the
// schema for one SQL dialect.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// Store is an opened credential backend.
type Store interface {
	Users() users.Repository

	// WithinTx runs fn with a repository whose changes are applied
	// together if fn returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error

	Close() error
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type sqlStore struct {
	db     *sql.DB
	rm     RepositoryManager
	txOpts *sql.TxOptions
}

func (s *sqlStore) Users() users.Repository { return s.rm.Users(s.db) }

func (s *sqlStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.rm.Users(tx))
	})
}

func (s *sqlStore) Close() error { return s.db.Close() }

// newSQLStore migrates db and wraps it. db is closed if migration fails.
func newSQLStore(ctx context.Context, db *sql.DB, rm RepositoryManager, txOpts *sql.TxOptions) (*sqlStore, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return &sqlStore{db: db, rm: rm, txOpts: txOpts}, nil
}

type fileStore struct {
	repo *users.FileRepository
}

func (s *fileStore) Users() users.Repository { return s.repo }

func (s *fileStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return s.repo.WithinTx(ctx, fn)
}

func (s *fileStore) Close() error { return nil }

// NewFileStore wraps the users text file at path.
func NewFileStore(path string) Store {
	return &fileStore{repo: users.NewFileRepository(path)}
}
