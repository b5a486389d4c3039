// Package cli provides the interactive AliasKeeper command-line client.
//
// App wraps a services.AliasService with a line-oriented REPL. Typical flow:
// login with a Duck username, type the passphrase from the email, then
// generate and manage aliases for the active account.
//
// Key features:
//   - Login / Verify / Logout, several accounts with switch and remove
//   - Generate, list, annotate and delete aliases
//   - Export to and import from JSON or CSV files
//   - Object storage backups and the autofill toggle
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
