package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	sessionExpired() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	List(ctx context.Context, query string) error
	Stats(ctx context.Context) error
	Refresh(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Share(ctx context.Context, id string) error
	Get(ctx context.Context, id, dir string) error

	Add(ctx context.Context, paths []string) error
	Upload(ctx context.Context, paths []string) error
	Queue(ctx context.Context) error
	Remove(ctx context.Context, id string) error

	Open(ctx context.Context, token string) error
	Download(ctx context.Context, token, dir string) error
}

const (
	helpGuest = `Available commands:
  register                 create an account
  login                    sign in
  open <token|url>         show a shared document
  download <token|url> [dir]
                           save a shared document
  exit | quit              leave the program`

	helpUser = `Available commands:
  (l)ist [query]           list documents, optionally filtered by name
  stats                    storage statistics
  refresh                  fetch the document list again
  add <path>...            queue files for upload
  upload [path...]         queue files and upload everything pending
  queue                    show the upload queue
  remove <task-id>         drop a pending upload
  delete <doc-id>          delete a document
  share <doc-id>           generate a share link
  get <doc-id> [dir]       download one of your documents
  open <token|url>         show a shared document
  download <token|url> [dir]
                           save a shared document
  logout                   sign out
  exit | quit              leave the program`
)

// runREPL starts a read–eval–print loop for the SafeDocs CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Document commands require a session; without
// one the user is pointed at login. Once the backend has rejected the
// session, the login prompt is shown before the next command. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		if a.sessionExpired() {
			printlnFn("Your session has expired, please log in again.")
			_ = a.Login(ctx)
		}
		printFn(fmt.Sprintf("safedocs%s> ", statusFn()))

		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		if requiresLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please log in first (login | register)")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx, strings.Join(args, " "))

		case "stats":
			_ = a.Stats(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <path>...")
				continue
			}
			_ = a.Add(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "queue":
			_ = a.Queue(ctx)

		case "remove":
			if len(args) != 1 {
				printlnFn("Usage: remove <task-id>")
				continue
			}
			_ = a.Remove(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <doc-id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "share":
			if len(args) != 1 {
				printlnFn("Usage: share <doc-id>")
				continue
			}
			_ = a.Share(ctx, args[0])

		case "get":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: get <doc-id> [dir]")
				continue
			}
			_ = a.Get(ctx, args[0], optionalArg(args, 1))

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <token|url>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "download":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: download <token|url> [dir]")
				continue
			}
			_ = a.Download(ctx, args[0], optionalArg(args, 1))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if readErr != nil {
			return
		}
	}
}

func requiresLogin(cmd string) bool {
	switch cmd {
	case "logout", "l", "list", "stats", "refresh", "add", "upload", "queue", "remove", "delete", "share", "get":
		return true
	}
	return false
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
