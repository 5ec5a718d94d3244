package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/config"
	"github.com/dmitrijs2005/gradebook/internal/logging"
	"github.com/dmitrijs2005/gradebook/internal/models"
	"github.com/dmitrijs2005/gradebook/internal/services"
)

// UserService is the account API the console drives.
// *services.UserService satisfies it.
type UserService interface {
	Authenticate(ctx context.Context, username string, password []byte) (*models.User, error)
	Register(ctx context.Context, username string, password []byte, isAdmin bool) (*models.User, error)
	Delete(ctx context.Context, actor, username string) error
	ChangePassword(ctx context.Context, username string, newPassword []byte) error
	List(ctx context.Context) ([]*models.User, error)
	EnsureDefaults(ctx context.Context) (bool, error)
}

var _ UserService = (*services.UserService)(nil)

type App struct {
	config  *config.Config
	users   UserService
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	session *models.User
}

func NewApp(c *config.Config, users UserService, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		users:  users,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run seeds an empty store, requires a successful login and then serves
// commands until exit or end of input. Running out of login attempts
// returns common.ErrTooManyLoginAttempts.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Student grade management system (type 'help' for commands)")

	seeded, err := a.users.EnsureDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed default accounts: %w", err)
	}
	if seeded {
		fmt.Fprintln(a.out, "Created default accounts:")
		for _, acc := range services.DefaultAccounts {
			role := "user"
			if acc.IsAdmin {
				role = "administrator"
			}
			fmt.Fprintf(a.out, "  %s - username: %s, password: %s\n", role, acc.UserName, acc.Password)
		}
	}

	if err := a.loginWithAttempts(ctx); err != nil {
		return err
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// loginWithAttempts prompts until a login succeeds or MaxLoginAttempts
// failures have been seen.
func (a *App) loginWithAttempts(ctx context.Context) error {
	limit := a.config.MaxLoginAttempts
	if limit < 1 {
		limit = 1
	}

	for attempt := 1; attempt <= limit; attempt++ {
		err := a.Login(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrorUnauthorized) {
			return err
		}
		if left := limit - attempt; left > 0 {
			fmt.Fprintf(a.out, "%d attempt(s) left\n", left)
		}
	}

	fmt.Fprintln(a.out, "Too many failed login attempts, exiting.")
	a.logger.Warn(ctx, "login attempts exhausted", "attempts", limit)
	return common.ErrTooManyLoginAttempts
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) isAdmin() bool {
	return a.session != nil && a.session.IsAdmin
}

func (a *App) getStatus() string {
	switch {
	case a.session == nil:
		return "(guest)"
	case a.session.IsAdmin:
		return fmt.Sprintf("(%s admin)", a.session.UserName)
	default:
		return fmt.Sprintf("(%s)", a.session.UserName)
	}
}

// report prints a user-facing message for err and logs unexpected failures.
func (a *App) report(ctx context.Context, op string, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		fmt.Fprintln(a.out, "Invalid username or password.")
	case errors.Is(err, common.ErrorForbidden):
		fmt.Fprintln(a.out, "This command requires an administrator session.")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "No such user.")
	case errors.Is(err, common.ErrorLoginAlreadyExists):
		fmt.Fprintln(a.out, "That username is already taken.")
	case errors.Is(err, common.ErrorInvalidLoginFormat):
		fmt.Fprintf(a.out, "Usernames are %d-%d letters or digits.\n", services.MinUserNameLength, services.MaxUserNameLength)
	case errors.Is(err, common.ErrorInvalidPasswordFormat):
		fmt.Fprintf(a.out, "Passwords are %d-%d characters.\n", services.MinPasswordLength, services.MaxPasswordLength)
	case errors.Is(err, common.ErrorTooManyUsers):
		fmt.Fprintf(a.out, "The account limit (%d) has been reached.\n", services.MaxUsers)
	case errors.Is(err, common.ErrorSelfDelete):
		fmt.Fprintln(a.out, "You cannot delete the account you are logged in with.")
	case errors.Is(err, common.ErrorLastAccount):
		fmt.Fprintln(a.out, "At least one account must remain.")
	case errors.Is(err, errPasswordMismatch):
		fmt.Fprintln(a.out, "Passwords do not match.")
	default:
		fmt.Fprintln(a.out, "Operation failed:", err)
		a.logger.Error(ctx, "command failed", "op", op, "error", err)
	}
}
