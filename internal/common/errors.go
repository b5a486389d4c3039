// Package common defines sentinel errors and small helpers shared by the
// storage, transfer, service and CLI layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// ErrNotAuthenticated means no active account could be resolved.
	ErrNotAuthenticated = errors.New("you need to login first")

	// ErrInvalidInput covers malformed usernames, passphrases and arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrImportFormat means an import payload was neither JSON nor CSV.
	ErrImportFormat = errors.New("unrecognized import format")

	// ErrNotFound is returned by lookups that found nothing.
	ErrNotFound = errors.New("not found")
)
