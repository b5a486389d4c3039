package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

var errUsage = errors.New("invalid arguments")

// Login requests a one-time passphrase for the given (or prompted) username
// and then reads the passphrase from the terminal. Leaving the passphrase
// empty postpones verification; the login stays pending until "verify".
//
// Logging in to another account while one is active adds it to the known
// accounts and makes it current.
func (a *App) Login(ctx context.Context, args []string) error {
	username, err := a.argOrPrompt(args, "Enter your Duck username")
	if err != nil {
		return err
	}

	res := a.svc.Login(ctx, username)
	a.println(res.Message)
	if res.Status != models.StatusSuccess || !res.NeedsOTP {
		return nil
	}

	return a.verifyPending(ctx, nil)
}

// Verify completes a pending login with the passphrase from args or the terminal.
func (a *App) Verify(ctx context.Context, args []string) error {
	return a.verifyPending(ctx, args)
}

func (a *App) verifyPending(ctx context.Context, args []string) error {
	username, err := a.svc.PendingLogin(ctx)
	if err != nil {
		return err
	}
	if username == "" {
		a.println("No login in progress. Run 'login' first.")
		return nil
	}

	var passphrase string
	if len(args) > 0 {
		passphrase = strings.Join(args, " ")
	} else {
		secret, err := getSecret("Enter the passphrase from your email", a.out)
		if err != nil {
			return err
		}
		passphrase = string(secret)
		common.WipeByteArray(secret)
	}

	if strings.TrimSpace(passphrase) == "" {
		a.println("Run 'verify' when the email arrives.")
		return nil
	}

	res := a.svc.VerifyOTP(ctx, username, passphrase)
	a.println(res.Message)
	return nil
}

// Status prints the active account.
func (a *App) Status(ctx context.Context, _ []string) error {
	snap, err := a.svc.CurrentAccount(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		a.println("Not logged in")
		if pending, err := a.svc.PendingLogin(ctx); err == nil && pending != "" {
			a.printf("Waiting for the passphrase of %s. Run 'verify'.\n", pending)
		}
		return nil
	}

	domain := a.svc.Domain()
	a.printf("Account:   %s@%s\n", snap.Username, domain)
	if snap.Email != "" {
		a.printf("Forwards:  %s\n", snap.Email)
	}
	a.printf("Generated: %d\n", snap.AddressesGenerated)
	if snap.InviteCount > 0 {
		a.printf("Invites:   %d\n", snap.InviteCount)
	}
	return nil
}

// Logout signs out of the active account after confirmation. Another known
// account, if any, becomes active.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if !a.isLoggedIn(ctx) {
		a.println("Not logged in")
		return nil
	}
	ok, err := a.confirm("Log out of the current account?")
	if err != nil || !ok {
		return err
	}
	if err := a.svc.Logout(ctx); err != nil {
		return err
	}

	if snap, err := a.svc.CurrentAccount(ctx); err == nil && snap != nil {
		a.printf("Logged out. Now using %s.\n", snap.Username)
	} else {
		a.println("Logged out")
	}
	return nil
}
