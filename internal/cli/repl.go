package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Hash(ctx context.Context) error
	Passwd(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	AddUser(ctx context.Context) error
	DelUser(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
// Handlers print their own results and failures, so their errors are
// dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gradebook %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText(a))

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "hash":
			_ = a.Hash(ctx)

		case "passwd":
			_ = a.Passwd(ctx, args)

		case "users":
			_ = a.Users(ctx)

		case "adduser":
			_ = a.AddUser(ctx)

		case "deluser":
			_ = a.DelUser(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func helpText(a execIface) string {
	switch {
	case a.isAdmin():
		return "Available commands: whoami, hash, passwd [user], users, adduser, deluser [user], logout, exit"
	case a.isLoggedIn():
		return "Available commands: whoami, hash, passwd, logout, exit"
	default:
		return "Available commands: login, hash, exit"
	}
}
