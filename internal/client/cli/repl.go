package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const (
	helpSignedOut = "Available commands: login, verify, status, accounts, switch, exit"
	helpSignedIn  = "Available commands: generate, quickfill, (l)ist, notes, delete, clear, export, import, " +
		"accounts, login, switch, remove, autofill, backup, backups, restore, status, logout, exit"
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool

	Login(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	Generate(ctx context.Context, args []string) error
	Quickfill(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Notes(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Backups(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error

	Accounts(ctx context.Context, args []string) error
	Switch(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error

	Autofill(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the AliasKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches the remaining tokens to methods on 'a'. Command errors are
// reported and the loop continues. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Commands
//
//	help                      show available commands
//	login [username]          request a passphrase and sign in (also adds accounts)
//	verify [passphrase]       finish a login started earlier
//	status                    show the active account
//	generate [notes]          create a new alias
//	quickfill                 generate and print only the address (needs autofill)
//	l | list                  list aliases of the active account
//	notes <address> [text]    replace the notes of an alias
//	delete <address>          delete an alias
//	clear                     delete every alias of the active account
//	export json|csv [file]    write aliases to a file
//	import <file>             merge aliases from a JSON or CSV export
//	backup | backups          upload a JSON export / list uploaded backups
//	restore <key>             import a backup
//	accounts                  list known accounts
//	switch <username>         make another known account active
//	remove <username>         forget a non-active account
//	autofill [on|off|status]  toggle the autofill feature
//	logout                    sign out of the active account
//	exit | quit               leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ak %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login", "add-account":
			cmdErr = a.Login(ctx, args)
		case "verify":
			cmdErr = a.Verify(ctx, args)
		case "status", "whoami":
			cmdErr = a.Status(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)

		case "generate", "gen":
			cmdErr = a.Generate(ctx, args)
		case "quickfill":
			cmdErr = a.Quickfill(ctx, args)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "notes":
			cmdErr = a.Notes(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "clear":
			cmdErr = a.Clear(ctx, args)

		case "export":
			cmdErr = a.Export(ctx, args)
		case "import":
			cmdErr = a.Import(ctx, args)
		case "backup":
			cmdErr = a.Backup(ctx, args)
		case "backups":
			cmdErr = a.Backups(ctx, args)
		case "restore":
			cmdErr = a.Restore(ctx, args)

		case "accounts":
			cmdErr = a.Accounts(ctx, args)
		case "switch":
			cmdErr = a.Switch(ctx, args)
		case "remove":
			cmdErr = a.Remove(ctx, args)

		case "autofill":
			cmdErr = a.Autofill(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
