package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/dbx"
	"github.com/dmitrijs2005/gradebook/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash, is_admin)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING username, password_hash, is_admin, created_at
		 `

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, user.UserName, user.PasswordHash, user.IsAdmin).
		Scan(&u.UserName, &u.PasswordHash, &u.IsAdmin, timeScanner{&u.CreatedAt})
	if err != nil {
		// DO NOTHING returns no row for a taken username
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorLoginAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query :=
		`SELECT username, password_hash, is_admin, created_at FROM users
		 WHERE username = $1
		 `

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, login).Scan(&u.UserName, &u.PasswordHash, &u.IsAdmin, timeScanner{&u.CreatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT username, password_hash, is_admin, created_at FROM users ORDER BY username`
	return queryUsers(ctx, r.db, query)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, login string, hash string) error {
	return execOne(ctx, r.db, `UPDATE users SET password_hash = $1 WHERE username = $2`, hash, login)
}

func (r *PostgresRepository) Delete(ctx context.Context, login string) error {
	return execOne(ctx, r.db, `DELETE FROM users WHERE username = $1`, login)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
