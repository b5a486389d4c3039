package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/services"
	"github.com/dmitrijs2005/aliaskeeper/internal/logging"
)

// DefaultExportDir is the directory, relative to the working directory,
// where exports are written when no file name is given.
const DefaultExportDir = "exports"

// maxImportSize caps files accepted by the import command.
const maxImportSize = 16 << 20

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

type App struct {
	svc       services.AliasService
	reader    *bufio.Reader
	out       io.Writer
	exportDir string
	log       logging.Logger
	now       func() time.Time
}

// NewApp returns an App reading commands from in and writing to out.
func NewApp(svc services.AliasService, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	return &App{
		svc:       svc,
		reader:    bufio.NewReader(in),
		out:       out,
		exportDir: DefaultExportDir,
		log:       log,
		now:       time.Now,
	}
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to AliasKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}

// Approve asks the user on the terminal whether caps may be granted. It is
// used as the features.Approver of the autofill toggle.
func (a *App) Approve(ctx context.Context, caps []string) (bool, error) {
	return Confirm(a.reader, fmt.Sprintf("Allow %s?", strings.Join(caps, ", ")), a.out)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	snap, err := a.svc.CurrentAccount(ctx)
	return err == nil && snap != nil
}

func (a *App) getStatus(ctx context.Context) string {
	snap, err := a.svc.CurrentAccount(ctx)
	if err != nil || snap == nil {
		return "(signed out)"
	}
	return fmt.Sprintf("(%s)", snap.Username)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// confirm returns false without error when the user declines.
func (a *App) confirm(prompt string) (bool, error) {
	ok, err := Confirm(a.reader, prompt, a.out)
	if err != nil {
		return false, err
	}
	if !ok {
		a.println("Cancelled")
	}
	return ok, nil
}

// argOrPrompt returns the joined args, or asks for the value when none were given.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

// localPart strips the display domain from an address typed by the user.
func (a *App) localPart(address string) string {
	return strings.TrimSuffix(strings.TrimSpace(address), "@"+a.svc.Domain())
}
