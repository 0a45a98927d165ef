package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUnknownCommand = errors.New("unknown command")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	VerifyOTP(ctx context.Context, args []string) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	// Screen runs a list screen command; errUnknownCommand when name is not one.
	Screen(ctx context.Context, name string, args []string) error
}

const (
	helpPublic = "Available commands: login, register, otp [resend], forgot, reset <token>, help, exit"
	helpAdmin  = "Available commands: dashboard, categories, products, orders, users, electronics, projects, " +
		"messages, reviews, contacts, profile [edit], status, logout, help, exit\n" +
		"List screens take: list [-q text] [-date YYYY-MM-DD] [-status s] [-page n], delete <id>, watch\n" +
		"Editing: categories|products|electronics|projects add, edit <id>\n" +
		"Extras: products trending|new <id>, orders show|export <id>, orders status <id> <status>, " +
		"reviews|contacts clear"
)

// runREPL starts a simple read–eval–print loop for the admin console.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF, when the user types
// "exit" or "quit", or when ctx is done.
//
// Any errors returned by command handlers are ignored here; handlers print
// and log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("admin %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpAdmin)
			} else {
				printlnFn(helpPublic)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "otp":
			_ = a.VerifyOTP(ctx, args)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "reset":
			_ = a.ResetPassword(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "dashboard", "home":
			_ = a.Dashboard(ctx)

		case "profile":
			_ = a.Profile(ctx, args)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if err := a.Screen(ctx, cmd, args); errors.Is(err, errUnknownCommand) {
				printlnFn("Unknown command:", cmd)
			}
		}
	}
}
