package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/cryptox"
	"github.com/markkurossi/tabulate"
)

// requireAdmin reports and returns common.ErrorForbidden for non-admin sessions.
func (a *App) requireAdmin(ctx context.Context, op string) error {
	if a.isAdmin() {
		return nil
	}
	a.report(ctx, op, common.ErrorForbidden)
	return common.ErrorForbidden
}

// Users prints every account as a table.
func (a *App) Users(ctx context.Context) error {
	if err := a.requireAdmin(ctx, "users"); err != nil {
		return err
	}

	list, err := a.users.List(ctx)
	if err != nil {
		a.report(ctx, "users", err)
		return err
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("User").SetAlign(tabulate.ML)
	tab.Header("Role").SetAlign(tabulate.ML)
	tab.Header("Hash").SetAlign(tabulate.ML)
	tab.Header("Created").SetAlign(tabulate.MR)

	for _, u := range list {
		row := tab.Row()
		row.Column(u.UserName)
		if u.IsAdmin {
			row.Column("admin")
		} else {
			row.Column("user")
		}
		if d, ok := cryptox.DetectDriver(u.PasswordHash); ok {
			row.Column(string(d))
		} else {
			row.Column("unknown")
		}
		if u.CreatedAt.IsZero() {
			row.Column("-")
		} else {
			row.Column(u.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	tab.Print(a.out)
	fmt.Fprintf(a.out, "%d account(s)\n", len(list))
	return nil
}

// AddUser creates an account from interactive input.
func (a *App) AddUser(ctx context.Context) error {
	if err := a.requireAdmin(ctx, "adduser"); err != nil {
		return err
	}

	userName, err := getSimpleText(a.reader, "New username", a.out)
	if err != nil {
		return err
	}

	password, err := a.readNewPassword()
	if err != nil {
		a.report(ctx, "adduser", err)
		return err
	}
	defer common.WipeByteArray(password)

	isAdmin, err := confirm(a.reader, "Grant administrator rights?", a.out)
	if err != nil {
		return err
	}

	u, err := a.users.Register(ctx, userName, password, isAdmin)
	if err != nil {
		a.report(ctx, "adduser", err)
		return err
	}
	fmt.Fprintf(a.out, "User %s created.\n", u.UserName)
	return nil
}

// DelUser removes the account named in args, or asks for one.
func (a *App) DelUser(ctx context.Context, args []string) error {
	if err := a.requireAdmin(ctx, "deluser"); err != nil {
		return err
	}

	var userName string
	if len(args) > 0 {
		userName = args[0]
	} else {
		var err error
		userName, err = getSimpleText(a.reader, "Username to delete", a.out)
		if err != nil {
			return err
		}
	}
	userName = strings.TrimSpace(userName)

	ok, err := confirm(a.reader, fmt.Sprintf("Delete user %s?", userName), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.users.Delete(ctx, a.session.UserName, userName); err != nil {
		a.report(ctx, "deluser", err)
		return err
	}
	fmt.Fprintf(a.out, "User %s deleted.\n", userName)
	return nil
}
