package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	List(ctx context.Context) error
	Read(ctx context.Context, id string) error
	ReadAll(ctx context.Context) error
	ClearInbox(ctx context.Context) error
	Sub(ctx context.Context, topic string) error
	Unsub(ctx context.Context, topic string) error
	Topics(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the TalentLink CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - status         — show session and stream state
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - status         — show session and stream state
//	  - list           — list inbox notifications, newest first
//	  - read <id>      — mark a notification as read
//	  - readall        — mark everything as read
//	  - clear          — drop all notifications
//	  - sub <topic>    — subscribe to a topic channel
//	  - unsub <topic>  — drop a topic subscription
//	  - topics         — list active subscriptions
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tl> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, (l)ist, read <id>, readall, clear, sub <topic>, unsub <topic>, topics, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "status":
			_ = a.Status(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <id>")
				continue
			}
			_ = a.Read(ctx, args[0])

		case "readall":
			_ = a.ReadAll(ctx)

		case "clear":
			_ = a.ClearInbox(ctx)

		case "sub":
			if len(args) == 0 {
				printlnFn("Usage: sub <topic>")
				continue
			}
			_ = a.Sub(ctx, args[0])

		case "unsub":
			if len(args) == 0 {
				printlnFn("Usage: unsub <topic>")
				continue
			}
			_ = a.Unsub(ctx, args[0])

		case "topics":
			_ = a.Topics(ctx)

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
