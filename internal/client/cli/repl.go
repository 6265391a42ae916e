package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Tick(ctx context.Context)
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Day(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	SafeList(ctx context.Context, args []string) error
	Analyze(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpCommon    = "Available commands: add, (l)ist, day [date], cal [YYYY-MM], stats, safe [add|rm <item>], delete <id>, status, exit"
	helpLoggedIn  = helpCommon + ", analyze, sync, logout"
	helpSignedOut = helpCommon + ", login"
)

// runREPL reads commands from scanner and dispatches them to a until EOF
// or "exit"/"quit".
//
// Before each prompt it calls a.Tick so a due reconciliation can start in
// the background. The prompt shows the current status from statusFn.
//
// Command handlers report their own errors; the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		a.Tick(ctx)
		printlnFn(fmt.Sprintf("gastrolog %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "day":
			_ = a.Day(ctx, args)

		case "cal", "calendar":
			_ = a.Calendar(ctx, args)

		case "stats":
			_ = a.Stats(ctx)

		case "safe":
			_ = a.SafeList(ctx, args)

		case "analyze":
			_ = a.Analyze(ctx)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
