package models

// StoredAddress is one generated alias. Value is the local part only; the
// domain suffix is added on export and display.
type StoredAddress struct {
	Value string `json:"value"`
	// CreatedAt is in milliseconds since the Unix epoch.
	CreatedAt int64  `json:"timestamp"`
	Notes     string `json:"notes"`
	// Owner tags entries of the legacy unpartitioned list with the account
	// they belong to. Empty in old data.
	Owner string `json:"username,omitempty"`
}

// FullAddress joins the local part with domain, e.g. "xk29f@duck.com".
func (a StoredAddress) FullAddress(domain string) string {
	return a.Value + "@" + domain
}
