// Package models defines the client-side data shapes persisted in the local
// store and returned to the orchestrating UI.
package models

// AccountSnapshot is the locally cached copy of one gateway account as of the
// last sync. Username is the stable key that partitions every other record.
type AccountSnapshot struct {
	Email              string `json:"email"`
	Username           string `json:"username"`
	SessionToken       string `json:"session_token"`
	Cohort             string `json:"cohort"`
	AddressesGenerated int    `json:"addresses_generated"`
	InviteCount        int    `json:"invite_count"`
}

// AccountRegistryEntry ties a known account to the last time it was active.
type AccountRegistryEntry struct {
	Username string `json:"username"`
	// LastUsedAt is in milliseconds since the Unix epoch.
	LastUsedAt int64           `json:"last_used"`
	Snapshot   AccountSnapshot `json:"user_data"`
}
