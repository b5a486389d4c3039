package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/features"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/services"
)

const timeLayout = "2006-01-02 15:04"

// Generate creates a new alias, with optional notes, for the active account.
func (a *App) Generate(ctx context.Context, args []string) error {
	res := a.svc.GenerateAddress(ctx, strings.Join(args, " "))
	if res.NeedsLogin {
		a.println(res.Message + ". Run 'login'.")
		return nil
	}
	if res.Address == "" {
		a.println(res.Message)
		return nil
	}
	a.printf("%s@%s\n", res.Address, a.svc.Domain())
	return nil
}

// Quickfill mints an alias for pasting into a form and prints only the full
// address. It requires the autofill feature to be enabled.
func (a *App) Quickfill(ctx context.Context, _ []string) error {
	state, err := a.svc.AutofillState(ctx)
	if err != nil && !errors.Is(err, services.ErrAutofillUnavailable) {
		return err
	}
	if state != features.Enabled {
		a.println("Autofill is off. Run 'autofill on' first.")
		return nil
	}
	return a.Generate(ctx, nil)
}

// List prints the aliases of the active account, newest first.
func (a *App) List(ctx context.Context, _ []string) error {
	if !a.isLoggedIn(ctx) {
		a.println("Not logged in")
		return nil
	}

	addrs := a.svc.GetAddresses(ctx)
	if len(addrs) == 0 {
		a.println("No addresses yet. Run 'generate'.")
		return nil
	}

	domain := a.svc.Domain()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, addr := range addrs {
		created := time.UnixMilli(addr.CreatedAt).Format(timeLayout)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", addr.FullAddress(domain), created, addr.Notes)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("%d address(es)\n", len(addrs))
	return nil
}

// Notes replaces the notes of an alias. An empty text clears them.
func (a *App) Notes(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: notes <address> [text]")
		return errUsage
	}

	notes, err := a.argOrPrompt(args[1:], "Enter notes (empty to clear)")
	if err != nil {
		return err
	}
	if !a.svc.UpdateNotes(ctx, a.localPart(args[0]), notes) {
		a.println("Failed to update notes")
		return nil
	}
	a.println("Notes updated")
	return nil
}

// Delete removes one alias after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: delete <address>")
		return errUsage
	}

	value := a.localPart(args[0])
	ok, err := a.confirm(fmt.Sprintf("Delete %s@%s?", value, a.svc.Domain()))
	if err != nil || !ok {
		return err
	}
	if !a.svc.DeleteAddress(ctx, value) {
		a.println("Failed to delete address")
		return nil
	}
	a.println("Address deleted")
	return nil
}

// Clear removes every alias of the active account after confirmation.
func (a *App) Clear(ctx context.Context, _ []string) error {
	if !a.isLoggedIn(ctx) {
		a.println("Not logged in")
		return nil
	}
	ok, err := a.confirm("Delete ALL addresses of the current account? This cannot be undone.")
	if err != nil || !ok {
		return err
	}
	if !a.svc.ClearAllAddresses(ctx) {
		a.println("Failed to clear addresses")
		return nil
	}
	a.println("All addresses cleared")
	return nil
}
