// Package services contains the account business logic. UserService
// authenticates logins and administers the credential store.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/config"
	"github.com/dmitrijs2005/gradebook/internal/cryptox"
	"github.com/dmitrijs2005/gradebook/internal/logging"
	"github.com/dmitrijs2005/gradebook/internal/models"
	"github.com/dmitrijs2005/gradebook/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gradebook/internal/repositories/users"
)

// DefaultAccount is seeded into an empty store by EnsureDefaults.
type DefaultAccount struct {
	UserName string
	Password string
	IsAdmin  bool
}

// DefaultAccounts are the factory logins of the gradebook.
var DefaultAccounts = []DefaultAccount{
	{UserName: "admin", Password: "123456", IsAdmin: true},
	{UserName: "teacher", Password: "password", IsAdmin: false},
}

type UserService struct {
	store         repomanager.Store
	hasher        cryptox.Hasher
	rehashOnLogin bool
	logger        logging.Logger

	// dummyHash is verified against when the user does not exist, so a
	// failed login costs the same whether or not the name is known.
	dummyHash string
}

// NewUserService builds the service. hasher decides the format of new
// hashes and must be able to verify every format present in the store.
func NewUserService(store repomanager.Store, hasher cryptox.Hasher, cfg *config.Config, logger logging.Logger) (*UserService, error) {
	dummy, err := hasher.Hash(common.GenerateRandByteArray(16))
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &UserService{
		store:         store,
		hasher:        hasher,
		rehashOnLogin: cfg.RehashOnLogin,
		logger:        logger.With("component", "users"),
		dummyHash:     dummy,
	}, nil
}

// Authenticate checks password for username. Any mismatch, including an
// unknown user or an unreadable stored hash, is common.ErrorUnauthorized.
// The caller keeps ownership of password and should wipe it.
func (s *UserService) Authenticate(ctx context.Context, username string, password []byte) (*models.User, error) {
	user, err := s.store.Users().GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			s.logger.Info(ctx, "login failed", "user", username, "reason", "unknown user")
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "user", username, "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn(ctx, "stored hash unusable", "user", username, "error", err)
		return nil, common.ErrorUnauthorized
	}
	if !ok {
		s.logger.Info(ctx, "login failed", "user", username, "reason", "bad password")
		return nil, common.ErrorUnauthorized
	}

	if s.rehashOnLogin && s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	s.logger.Info(ctx, "login succeeded", "user", username, "admin", user.IsAdmin)
	return user, nil
}

// rehash upgrades the stored hash while the plaintext is at hand. Failure
// leaves the old hash in place and does not fail the login.
func (s *UserService) rehash(ctx context.Context, user *models.User, password []byte) {
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn(ctx, "rehash failed", "user", user.UserName, "error", err)
		return
	}
	if err := s.store.Users().UpdatePasswordHash(ctx, user.UserName, newHash); err != nil {
		s.logger.Warn(ctx, "rehash not stored", "user", user.UserName, "error", err)
		return
	}
	user.PasswordHash = newHash
	s.logger.Info(ctx, "password hash upgraded", "user", user.UserName, "driver", s.hasher.Driver())
}

// Register creates an account. The store may hold at most MaxUsers accounts.
func (s *UserService) Register(ctx context.Context, username string, password []byte, isAdmin bool) (*models.User, error) {
	if err := ValidateUserName(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *models.User
	err = s.store.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n >= MaxUsers {
			return common.ErrorTooManyUsers
		}
		created, err = repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash, IsAdmin: isAdmin})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user", username, "admin", isAdmin)
	return created, nil
}

// Delete removes username on behalf of actor. Actors cannot remove
// themselves and the last remaining account cannot be removed.
func (s *UserService) Delete(ctx context.Context, actor, username string) error {
	if actor == username {
		return common.ErrorSelfDelete
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if _, err := repo.GetUserByLogin(ctx, username); err != nil {
			return err
		}
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return common.ErrorLastAccount
		}
		return repo.Delete(ctx, username)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user", username, "by", actor)
	return nil
}

// ChangePassword replaces the password of username, hashing it with the
// current default driver.
func (s *UserService) ChangePassword(ctx context.Context, username string, newPassword []byte) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.Users().UpdatePasswordHash(ctx, username, hash); err != nil {
		return err
	}
	s.logger.Info(ctx, "password changed", "user", username)
	return nil
}

// List returns every account ordered by name.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	list, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b *models.User) int { return strings.Compare(a.UserName, b.UserName) })
	return list, nil
}

// EnsureDefaults seeds DefaultAccounts when the store is empty and
// reports whether it did.
func (s *UserService) EnsureDefaults(ctx context.Context) (bool, error) {
	n, err := s.store.Users().Count(ctx)
	if err != nil || n > 0 {
		return false, err
	}

	records := make([]*models.User, 0, len(DefaultAccounts))
	for _, a := range DefaultAccounts {
		hash, err := s.hasher.Hash([]byte(a.Password))
		if err != nil {
			return false, fmt.Errorf("hash password: %w", err)
		}
		records = append(records, &models.User{UserName: a.UserName, PasswordHash: hash, IsAdmin: a.IsAdmin})
	}

	seeded := false
	err = s.store.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		n, err := repo.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		for _, u := range records {
			if _, err := repo.Create(ctx, u); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.Warn(ctx, "seeded default accounts; change their passwords", "count", len(records))
	}
	return seeded, nil
}
