package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL needs. App satisfies it; tests
// use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Ping(ctx context.Context) error
	Contacts(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
//	Not logged in:  help, login, ping, whoami, exit
//	Logged in:      help, contacts, whoami, ping, logout, exit
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "gc %s> ", statusFn())

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: contacts, whoami, ping, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: login, whoami, ping, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.Whoami(ctx)

		case "ping":
			cmdErr = a.Ping(ctx)

		case "c", "contacts":
			cmdErr = a.Contacts(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil && !reported(cmdErr) {
			fmt.Fprintf(out, "error: %v\n", cmdErr)
		}
	}
}

// reported tells whether the command already printed its failure.
func reported(err error) bool {
	return errors.Is(err, errLoginFailed)
}
