package models

// Status is the outcome reported by gateway-bound operations.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// LoginResult reports the outcome of requesting a one-time passphrase.
type LoginResult struct {
	Status   Status
	NeedsOTP bool
	Message  string
}

// VerifyResult reports the outcome of exchanging a passphrase for a session.
type VerifyResult struct {
	Status   Status
	Snapshot *AccountSnapshot
	Message  string
}

// GenerateResult reports the outcome of minting a new alias. NeedsLogin is
// set when there was no active account, so the caller can show the login
// screen.
type GenerateResult struct {
	Status     Status
	Address    string
	Message    string
	NeedsLogin bool
}

// ImportResult reports how many addresses an import added. Error carries a
// human-readable explanation on failure, and on success when nothing new was
// found.
type ImportResult struct {
	Success bool
	Count   int
	Error   string
}
