package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Metrics(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) error
}

// runREPL reads commands from reader until "exit", "quit" or end of input.
// Command errors are reported by the commands themselves, so the loop
// ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "diet %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: add, (l)ist, metrics, delete <id>, export, signout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: signup, signin, exit")
			}

		case "signup":
			_ = a.SignUp(ctx)

		case "signin":
			_ = a.SignIn(ctx)

		case "signout":
			_ = a.SignOut(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "metrics":
			_ = a.Metrics(ctx)

		case "delete":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "export":
			_ = a.Export(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
