package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gradebook/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

var errPasswordMismatch = errors.New("passwords do not match")

// Login prompts for credentials and opens a session. A failed attempt
// returns common.ErrorUnauthorized after telling the user.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Already logged in as %s. Use logout first.\n", a.session.UserName)
		return nil
	}

	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.users.Authenticate(ctx, userName, password)
	if err != nil {
		a.report(ctx, "login", err)
		return err
	}

	a.session = user
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.UserName)
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "Goodbye, %s.\n", a.session.UserName)
	a.session = nil
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	switch {
	case !a.isLoggedIn():
		fmt.Fprintln(a.out, "Not logged in.")
	case a.session.IsAdmin:
		fmt.Fprintf(a.out, "%s (administrator)\n", a.session.UserName)
	default:
		fmt.Fprintf(a.out, "%s (user)\n", a.session.UserName)
	}
	return nil
}

// Passwd changes a password. Without arguments the session user changes
// their own after re-entering the current one. An administrator may name
// another user and reset that password directly.
func (a *App) Passwd(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in.")
		return common.ErrorUnauthorized
	}

	target := a.session.UserName
	if len(args) > 0 && args[0] != target {
		if !a.isAdmin() {
			a.report(ctx, "passwd", common.ErrorForbidden)
			return common.ErrorForbidden
		}
		target = args[0]
	}

	if target == a.session.UserName {
		current, err := getPassword(a.reader, "Current password", a.out)
		if err != nil {
			return err
		}
		_, err = a.users.Authenticate(ctx, target, current)
		common.WipeByteArray(current)
		if err != nil {
			a.report(ctx, "passwd", err)
			return err
		}
	}

	password, err := a.readNewPassword()
	if err != nil {
		a.report(ctx, "passwd", err)
		return err
	}

	err = common.WithWipe(password, func(p []byte) error {
		return a.users.ChangePassword(ctx, target, p)
	})
	if err != nil {
		a.report(ctx, "passwd", err)
		return err
	}
	fmt.Fprintf(a.out, "Password for %s changed.\n", target)
	return nil
}

// readNewPassword asks for a password twice. The returned slice must be
// wiped by the caller.
func (a *App) readNewPassword() ([]byte, error) {
	first, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return nil, err
	}
	second, err := getPassword(a.reader, "Repeat new password", a.out)
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, errPasswordMismatch
	}
	return first, nil
}
