package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/govadmin/internal/client/resources"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Recover(ctx context.Context) error
	Reset(ctx context.Context) error
	Resources(ctx context.Context) error
	Use(ctx context.Context, name string) error
	List(ctx context.Context) error
	Filter(ctx context.Context, args []string) error
	ClearFilters(ctx context.Context) error
	Sort(ctx context.Context, spec string) error
	PageSize(ctx context.Context, arg string) error
	Page(ctx context.Context, arg string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Refresh(ctx context.Context) error
	Act(ctx context.Context, action resources.Action, id string) error
}

const (
	helpGuest = "Available commands: login, recover, reset, resources, exit"
	helpUser  = "Available commands: resources, use <resource>, (l)ist, filter name=value..., clear, " +
		"sort <field|-field>, size <n>, page <n>, (n)ext, (p)rev, refresh, " +
		"delete <id>, activate <id>, deactivate <id>, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the govadmin CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands and missing arguments are
// reported back to the user. The loop exits on EOF, when ctx is cancelled
// or when the user types "exit" or "quit".
//
// Listing commands run behind the route guard: without a session they hand
// off to the login prompt instead of failing.
//
// Any errors returned by command handlers are ignored here; handlers
// render their own errors. This keeps the REPL loop resilient and focused
// on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("govadmin %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "recover":
			_ = a.Recover(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "resources":
			_ = a.Resources(ctx)

		case "use":
			if arg, ok := oneArg(cmd, args, "<resource>"); ok {
				_ = a.Use(ctx, arg)
			}

		case "l", "list":
			_ = a.List(ctx)

		case "filter":
			_ = a.Filter(ctx, args)

		case "clear":
			_ = a.ClearFilters(ctx)

		case "sort":
			if arg, ok := oneArg(cmd, args, "<field|-field>"); ok {
				_ = a.Sort(ctx, arg)
			}

		case "size":
			if arg, ok := oneArg(cmd, args, "<n>"); ok {
				_ = a.PageSize(ctx, arg)
			}

		case "page":
			if arg, ok := oneArg(cmd, args, "<n>"); ok {
				_ = a.Page(ctx, arg)
			}

		case "n", "next":
			_ = a.Next(ctx)

		case "p", "prev":
			_ = a.Prev(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "delete", "activate", "deactivate":
			if arg, ok := oneArg(cmd, args, "<id>"); ok {
				_ = a.Act(ctx, commandActions[cmd], arg)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var commandActions = map[string]resources.Action{
	"delete":     resources.ActionDelete,
	"activate":   resources.ActionActivate,
	"deactivate": resources.ActionDeactivate,
}

func oneArg(cmd string, args []string, usage string) (string, bool) {
	if len(args) != 1 {
		printlnFn(fmt.Sprintf("Usage: %s %s", cmd, usage))
		return "", false
	}
	return args[0], true
}
