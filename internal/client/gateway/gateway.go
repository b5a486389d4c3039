// Package gateway talks to the remote alias service: it requests one-time
// passphrases, exchanges them for a session and mints new aliases.
package gateway

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("gateway unavailable")
	ErrRemote       = errors.New("gateway error")
)

// ErrInvalidOTP is returned by Verify when the passphrase was not accepted.
var ErrInvalidOTP = &remoteError{msg: "Invalid OTP", kind: ErrUnauthorized}

// Gateway is the remote contract. Implementations never touch local storage.
type Gateway interface {
	// RequestOTP asks the service to email a one-time passphrase to username.
	RequestOTP(ctx context.Context, username string) error
	// Verify exchanges the passphrase for a session and returns the
	// account's profile with the session token filled in.
	Verify(ctx context.Context, username, otp string) (*models.AccountSnapshot, error)
	// GenerateAddress mints a new alias and returns its local part.
	GenerateAddress(ctx context.Context, token string) (string, error)
}

// remoteError carries a message fit for display while matching one of the
// sentinels above via errors.Is.
type remoteError struct {
	msg  string
	kind error
	err  error
}

func (e *remoteError) Error() string { return e.msg }

func (e *remoteError) Is(target error) bool { return target == e.kind }

func (e *remoteError) Unwrap() error { return e.err }
