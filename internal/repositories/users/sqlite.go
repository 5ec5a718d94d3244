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

type SQLiteRepository struct {
	db dbx.DBTX
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts user. A taken username is detected through the affected
// row count rather than a driver-specific constraint error.
func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, is_admin)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, user.UserName, user.PasswordHash, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorLoginAlreadyExists
	}
	return r.GetUserByLogin(ctx, user.UserName)
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT username, password_hash, is_admin, created_at FROM users WHERE username = ?`

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

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT username, password_hash, is_admin, created_at FROM users ORDER BY username`
	return queryUsers(ctx, r.db, query)
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, login string, hash string) error {
	query := `UPDATE users SET password_hash = ? WHERE username = ?`
	return execOne(ctx, r.db, query, hash, login)
}

func (r *SQLiteRepository) Delete(ctx context.Context, login string) error {
	return execOne(ctx, r.db, `DELETE FROM users WHERE username = ?`, login)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func queryUsers(ctx context.Context, db dbx.DBTX, query string, args ...any) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.UserName, &u.PasswordHash, &u.IsAdmin, timeScanner{&u.CreatedAt}); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// execOne runs a statement that must touch exactly one user row.
func execOne(ctx context.Context, db dbx.DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
