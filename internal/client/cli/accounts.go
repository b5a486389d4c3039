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
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

// Accounts lists known accounts; the active one is marked with '*'.
func (a *App) Accounts(ctx context.Context, _ []string) error {
	entries, current, err := a.svc.Accounts(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.println("No accounts. Run 'login'.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		mark := " "
		if e.Username == current {
			mark = "*"
		}
		last := time.UnixMilli(e.LastUsedAt).Format(timeLayout)
		fmt.Fprintf(tw, "%s %s@%s\t%d generated\tlast used %s\n",
			mark, e.Username, a.svc.Domain(), e.Snapshot.AddressesGenerated, last)
	}
	return tw.Flush()
}

// Switch makes another known account active after confirmation.
func (a *App) Switch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: switch <username>")
		return errUsage
	}
	username := services.NormalizeUsername(args[0], a.svc.Domain())

	ok, err := a.confirm(fmt.Sprintf("Switch to %s?", username))
	if err != nil || !ok {
		return err
	}
	if err := a.svc.SwitchAccount(ctx, username); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			a.printf("Unknown account %s. Run 'login %s' to add it.\n", username, username)
			return nil
		}
		return err
	}
	a.printf("Switched to %s\n", username)
	return nil
}

// Remove forgets a known account other than the active one.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: remove <username>")
		return errUsage
	}
	username := services.NormalizeUsername(args[0], a.svc.Domain())

	ok, err := a.confirm(fmt.Sprintf("Remove %s from this device?", username))
	if err != nil || !ok {
		return err
	}
	if err := a.svc.RemoveAccount(ctx, username); err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			a.println("Cannot remove the active account. Use 'logout' instead.")
			return nil
		}
		return err
	}
	a.printf("Removed %s\n", username)
	return nil
}

// Autofill shows or changes the autofill feature state.
func (a *App) Autofill(ctx context.Context, args []string) error {
	mode := "status"
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
	}

	var err error
	switch mode {
	case "status":
		err = a.printAutofill(a.svc.AutofillState(ctx))
	case "on":
		err = a.printAutofill(a.svc.SetAutofill(ctx, true))
	case "off":
		err = a.printAutofill(a.svc.SetAutofill(ctx, false))
	default:
		a.println("Usage: autofill [on|off|status]")
		return errUsage
	}
	return err
}

func (a *App) printAutofill(state features.State, err error) error {
	switch {
	case errors.Is(err, services.ErrAutofillUnavailable):
		a.println("Autofill is not available on this platform")
		return nil
	case errors.Is(err, features.ErrPermissionDenied):
		a.println("Permission was not granted; autofill stays off")
		return nil
	case err != nil:
		return err
	}
	a.printf("Autofill: %s\n", state)
	return nil
}
